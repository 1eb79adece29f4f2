// Package pipeline sequences extraction, parsing and validation for one
// document and computes aggregate statistics. It is the single place aware of
// both the extractor and parser contracts, and it is stateless: concurrent
// invocations share nothing.
package pipeline

import (
	"context"
	"time"

	"github.com/dvloznov/expense-scanner/internal/domain"
	"github.com/dvloznov/expense-scanner/internal/extract"
	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/validate"
)

// TextExtractor converts document bytes into raw text with a confidence.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (*extract.RawExtraction, error)
}

// TransactionParser converts raw text into candidate transactions and
// reports the strategy used. It never fails outward.
type TransactionParser interface {
	Parse(ctx context.Context, text string) ([]domain.Transaction, string)
}

var supportedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// SupportedMimeType reports whether the pipeline accepts the given MIME type.
func SupportedMimeType(mimeType string) bool {
	return supportedMimeTypes[mimeType]
}

// Pipeline orchestrates one document-to-transactions run. Collaborators are
// injected at construction; there is no process-wide state.
type Pipeline struct {
	extractor TextExtractor
	parser    TransactionParser
	observer  Observer
}

// New creates a Pipeline. observer may be nil.
func New(extractor TextExtractor, parser TransactionParser, observer Observer) *Pipeline {
	return &Pipeline{extractor: extractor, parser: parser, observer: observer}
}

// Process runs extraction → parsing → validation over one document. The only
// hard failures are *Error values with kind unsupported_mime_type or
// extraction_failed; everything downstream degrades to a lesser-quality but
// well-formed result.
func (p *Pipeline) Process(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	if !SupportedMimeType(mimeType) {
		return nil, &Error{
			Kind:    KindUnsupportedMimeType,
			Message: "unsupported document type: " + mimeType,
		}
	}

	p.progress(StageExtracting, 10)
	raw, err := p.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		p.progress(StageFailed, 100)
		log.Warn().Err(err).Str("mime_type", mimeType).Msg("extraction failed")
		return nil, &Error{
			Kind:    KindExtractionFailed,
			Message: "no text could be extracted from the document",
		}
	}

	p.progress(StageParsing, 40)
	candidates, parsingMethod := p.parser.Parse(ctx, raw.Text)

	p.progress(StageValidating, 70)
	validated := make([]domain.Transaction, 0, len(candidates))
	for _, c := range candidates {
		if tx, ok := validate.Transaction(c); ok {
			validated = append(validated, tx)
		}
	}

	stats := Stats{
		TotalCount:           len(validated),
		ExtractionMethod:     string(raw.Method),
		ExtractionConfidence: raw.Confidence,
		ParsingMethod:        parsingMethod,
		ProcessingTimeMs:     time.Since(start).Milliseconds(),
		TextLength:           len(raw.Text),
	}
	for _, tx := range validated {
		if tx.HasAmount() {
			stats.HasAmountCount++
		}
		if tx.NeedsManualReview {
			stats.NeedsManualReviewCount++
		}
	}

	p.progress(StageDone, 100)
	log.Info().
		Str("extraction_method", stats.ExtractionMethod).
		Float64("extraction_confidence", stats.ExtractionConfidence).
		Str("parsing_method", stats.ParsingMethod).
		Int("transactions", stats.TotalCount).
		Int("needs_review", stats.NeedsManualReviewCount).
		Int64("elapsed_ms", stats.ProcessingTimeMs).
		Msg("document processed")

	return &Result{Transactions: validated, Stats: stats}, nil
}

func (p *Pipeline) progress(stage Stage, percent int) {
	if p.observer != nil {
		p.observer.OnProgress(stage, percent)
	}
}
