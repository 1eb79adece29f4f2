// Package extract converts document bytes (receipt photos, statement PDFs)
// into raw text with a heuristic confidence score. Multiple independent
// strategies are tried with ranked fallback; the caller only sees the best
// surviving result.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/ocr"
)

// Method identifies which extraction strategy produced the text.
type Method string

const (
	// MethodOCRMultipass is multi-pass Tesseract OCR over a raster image.
	MethodOCRMultipass Method = "ocr-multipass"
	// MethodPDFText is direct PDF text-layer extraction.
	MethodPDFText Method = "pdf-text"
	// MethodVisionAPI is cloud vision transcription of a scanned PDF.
	MethodVisionAPI Method = "vision-api"
)

// RawExtraction is the output of one extraction run. Confidence is a
// heuristic quality signal on a 0-100 scale, not a probability.
type RawExtraction struct {
	Text       string
	Confidence float64
	Method     Method
	ElapsedMs  int64
}

// ErrNoUsableText is returned when every strategy failed or produced text too
// short to be worth parsing.
var ErrNoUsableText = errors.New("extract: no strategy produced usable text")

const (
	// minPassTextLen discards near-empty OCR passes before scoring.
	minPassTextLen = 10

	// pdfTextConfidence is assigned to text-layer extraction; correctness
	// there is structural, not probabilistic.
	pdfTextConfidence = 85

	// visionConfidence is assigned to cloud vision transcription.
	visionConfidence = 70
)

// VisionClient transcribes scanned PDFs that have no embedded text layer.
type VisionClient interface {
	TranscribePDF(ctx context.Context, pdfData []byte) (string, error)
}

// Extractor runs the extraction strategies. The OCR engine is required; the
// vision client is optional and only used for scanned PDFs.
type Extractor struct {
	engine ocr.Engine
	vision VisionClient
}

// New creates an Extractor. vision may be nil to disable the scanned-PDF
// escalation path.
func New(engine ocr.Engine, vision VisionClient) *Extractor {
	return &Extractor{engine: engine, vision: vision}
}

// Extract converts document bytes into raw text. It fails with
// ErrNoUsableText when no strategy yields usable text.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (*RawExtraction, error) {
	start := time.Now()

	var (
		raw *RawExtraction
		err error
	)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		raw, err = e.extractImage(ctx, data)
	case mimeType == "application/pdf":
		raw, err = e.extractPDF(ctx, data)
	default:
		return nil, fmt.Errorf("extract: unsupported mime type %q", mimeType)
	}
	if err != nil {
		return nil, err
	}

	raw.ElapsedMs = time.Since(start).Milliseconds()
	return raw, nil
}

// passResult is the outcome of one OCR pass.
type passResult struct {
	mode       ocr.Mode
	text       string
	confidence float64
	err        error
}

// extractImage runs one OCR pass per page-segmentation mode concurrently and
// selects the pass maximizing confidence × len(text)/100. The score favors
// both engine certainty and information density, so a high-confidence but
// near-empty pass never wins over a dense one.
func (e *Extractor) extractImage(ctx context.Context, image []byte) (*RawExtraction, error) {
	log := logger.FromContext(ctx)

	results := make(chan passResult, len(ocr.Modes))
	for _, mode := range ocr.Modes {
		go func(mode ocr.Mode) {
			res, err := e.engine.Recognize(ctx, image, mode)
			results <- passResult{mode: mode, text: res.Text, confidence: res.Confidence, err: err}
		}(mode)
	}

	// Barrier: all passes complete before selection, keyed by mode so the
	// tie-break is deterministic regardless of scheduling.
	byMode := make(map[ocr.Mode]passResult, len(ocr.Modes))
	for range ocr.Modes {
		r := <-results
		byMode[r.mode] = r
	}

	var (
		best      passResult
		bestScore float64
		found     bool
	)
	for _, mode := range ocr.Modes {
		r := byMode[mode]
		if r.err != nil {
			log.Debug().Err(r.err).Str("mode", string(mode)).Msg("OCR pass failed")
			continue
		}
		trimmed := strings.TrimSpace(r.text)
		if len(trimmed) < minPassTextLen {
			continue
		}
		score := passScore(r.confidence, len(trimmed))
		log.Debug().
			Str("mode", string(mode)).
			Float64("confidence", r.confidence).
			Int("text_len", len(trimmed)).
			Float64("score", score).
			Msg("OCR pass scored")
		if !found || score > bestScore {
			best = passResult{mode: r.mode, text: trimmed, confidence: r.confidence}
			bestScore = score
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: all %d OCR passes discarded", ErrNoUsableText, len(ocr.Modes))
	}

	return &RawExtraction{
		Text:       best.text,
		Confidence: clampConfidence(best.confidence),
		Method:     MethodOCRMultipass,
	}, nil
}

// passScore ranks an OCR pass by engine certainty weighted by information
// density.
func passScore(confidence float64, textLen int) float64 {
	return confidence * float64(textLen) / 100
}

// extractPDF tries the embedded text layer first (fast and exact when
// present), then escalates scanned PDFs to the vision client if configured.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (*RawExtraction, error) {
	text, err := extractPDFText(data)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("PDF text layer extraction failed")
	}
	if trimmed := strings.TrimSpace(text); err == nil && trimmed != "" {
		return &RawExtraction{
			Text:       trimmed,
			Confidence: pdfTextConfidence,
			Method:     MethodPDFText,
		}, nil
	}

	if e.vision == nil {
		return nil, fmt.Errorf("%w: PDF has no text layer and no vision client is configured", ErrNoUsableText)
	}

	visionText, err := e.vision.TranscribePDF(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: vision transcription: %v", ErrNoUsableText, err)
	}
	trimmed := strings.TrimSpace(visionText)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: vision transcription returned empty text", ErrNoUsableText)
	}

	return &RawExtraction{
		Text:       trimmed,
		Confidence: visionConfidence,
		Method:     MethodVisionAPI,
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
