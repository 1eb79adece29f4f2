package pipeline

import (
	"fmt"

	"github.com/dvloznov/expense-scanner/internal/domain"
)

// Stage identifies where a pipeline invocation currently is. Progression is
// Extracting → Parsing → Validating → Done, with Failed reachable only from
// Extracting; parsing and validation degrade instead of failing.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageParsing    Stage = "parsing"
	StageValidating Stage = "validating"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Observer receives progress events. It is decoupled from stage logic; the
// calling layer can surface the events or ignore them entirely.
type Observer interface {
	OnProgress(stage Stage, percent int)
}

// ErrorKind is the small set of failures that cross the pipeline boundary.
type ErrorKind string

const (
	// KindExtractionFailed means no strategy produced usable text.
	KindExtractionFailed ErrorKind = "extraction_failed"
	// KindUnsupportedMimeType means the input MIME type is outside the
	// supported set.
	KindUnsupportedMimeType ErrorKind = "unsupported_mime_type"
)

// Error is the only error type Process returns. Extractor- and
// parser-internal error types never leak past the orchestrator.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline: %s: %s", e.Kind, e.Message)
}

// Stats are the diagnostic counters for one invocation.
type Stats struct {
	TotalCount             int     `json:"total_count"`
	HasAmountCount         int     `json:"has_amount_count"`
	NeedsManualReviewCount int     `json:"needs_manual_review_count"`
	ExtractionMethod       string  `json:"extraction_method"`
	ExtractionConfidence   float64 `json:"extraction_confidence"`
	ParsingMethod          string  `json:"parsing_method"`
	ProcessingTimeMs       int64   `json:"processing_time_ms"`
	TextLength             int     `json:"text_length"`
}

// Result is the output of one successful invocation. Transactions may be
// empty; that is a success-empty outcome, not an error.
type Result struct {
	Transactions []domain.Transaction `json:"transactions"`
	Stats        Stats                `json:"stats"`
}
