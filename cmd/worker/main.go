package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/dvloznov/expense-scanner/internal/extract"
	"github.com/dvloznov/expense-scanner/internal/jobs"
	"github.com/dvloznov/expense-scanner/internal/jobs/inmemory"
	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/ocr"
	"github.com/dvloznov/expense-scanner/internal/parse"
	"github.com/dvloznov/expense-scanner/internal/pipeline"
	"github.com/dvloznov/expense-scanner/internal/storage"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	scanHandle := flag.String("handle", "", "Storage handle to scan on startup (optional)")
	scanMime := flag.String("mime", "application/pdf", "MIME type for -handle")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcsClient, err := gcs.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcsClient.Close()

	bucket := os.Getenv("SCAN_BUCKET")
	if bucket == "" {
		log.Fatal().Msg("SCAN_BUCKET is required")
	}
	store := storage.NewGCSStore(gcsClient, bucket)

	engine := ocr.NewTesseractEngine(os.Getenv("OCR_LANGUAGE"))

	var (
		vision extract.VisionClient
		gen    parse.Generator
	)
	if os.Getenv("GEMINI_API_KEY") != "" {
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create genai client")
		}
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		vision = extract.NewGeminiVision(genaiClient, model)
		gen = parse.NewGeminiGenerator(genaiClient, model)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; using deterministic parsing only")
	}

	p := pipeline.New(extract.New(engine, vision), parse.New(gen), nil)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting scan worker")

	handler := func(ctx context.Context, job jobs.Job) error {
		scanJob, ok := job.(*jobs.ScanDocumentJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("handle", scanJob.StorageHandle).
			Str("file", storage.HandleFilename(scanJob.StorageHandle)).
			Msg("Processing scan job")

		data, err := store.Fetch(ctx, scanJob.StorageHandle)
		if err != nil {
			return fmt.Errorf("fetch document: %w", err)
		}

		result, err := p.Process(ctx, data, scanJob.MimeType)
		if err != nil {
			return err
		}
		scanJob.Result = result

		log.Info().
			Str("job_id", scanJob.JobID).
			Int("transactions", result.Stats.TotalCount).
			Int("needs_review", result.Stats.NeedsManualReviewCount).
			Str("extraction_method", result.Stats.ExtractionMethod).
			Msg("Scan job completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	if *scanHandle != "" {
		job := &jobs.ScanDocumentJob{StorageHandle: *scanHandle, MimeType: *scanMime}
		if err := jobQueue.PublishScanDocument(ctx, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to enqueue scan job")
		}
		log.Info().Str("job_id", job.JobID).Msg("Enqueued startup scan job")
	}

	log.Info().Msg("Worker started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}
	log.Info().Msg("Worker exited")
}
