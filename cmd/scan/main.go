package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvloznov/expense-scanner/internal/extract"
	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/ocr"
	"github.com/dvloznov/expense-scanner/internal/parse"
	"github.com/dvloznov/expense-scanner/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	filePath := flag.String("file", "", "Path to a receipt image or statement PDF (required)")
	mimeType := flag.String("mime", "", "MIME type of the file (default: inferred from extension)")
	verbose := flag.Bool("progress", false, "Log stage progress events")
	flag.Parse()

	if *filePath == "" {
		log.Fatal().Msg("Usage: scan -file /path/to/receipt.jpg [-mime image/jpeg] [-progress]")
	}

	mime := *mimeType
	if mime == "" {
		mime = mimeFromExtension(*filePath)
	}
	if !pipeline.SupportedMimeType(mime) {
		log.Fatal().Str("mime_type", mime).Msg("Unsupported document type")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	p, err := buildPipeline(ctx, log, *verbose)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	result, err := p.Process(ctx, data, mime)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
}

// buildPipeline wires the pipeline from the environment. Without a
// GEMINI_API_KEY the model strategy and vision escalation are disabled and
// only Tesseract plus the deterministic fallback run.
func buildPipeline(ctx context.Context, log zerolog.Logger, verbose bool) (*pipeline.Pipeline, error) {
	engine := ocr.NewTesseractEngine(os.Getenv("OCR_LANGUAGE"))

	var (
		vision extract.VisionClient
		gen    parse.Generator
	)
	if os.Getenv("GEMINI_API_KEY") != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		vision = extract.NewGeminiVision(client, model)
		gen = parse.NewGeminiGenerator(client, model)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; using deterministic parsing only")
	}

	var observer pipeline.Observer
	if verbose {
		observer = &progressLogger{log: log}
	}

	return pipeline.New(extract.New(engine, vision), parse.New(gen), observer), nil
}

// progressLogger surfaces pipeline progress events on the CLI log.
type progressLogger struct {
	log zerolog.Logger
}

func (p *progressLogger) OnProgress(stage pipeline.Stage, percent int) {
	p.log.Info().Str("stage", string(stage)).Int("percent", percent).Msg("progress")
}

func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}
