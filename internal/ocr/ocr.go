// Package ocr provides optical character recognition over raster images.
// Recognition runs behind the Engine interface so the extraction layer can be
// tested without a Tesseract installation.
package ocr

import (
	"context"
	"fmt"
)

// Mode selects the page-segmentation strategy for a recognition pass. Receipt
// photos vary wildly in layout, so the extractor runs one pass per mode and
// keeps the best result.
type Mode string

const (
	// ModeAuto lets the engine detect the page layout.
	ModeAuto Mode = "auto"
	// ModeSingleBlock treats the image as one uniform block of text.
	ModeSingleBlock Mode = "single-block"
	// ModeSingleLine treats the image as a single text line.
	ModeSingleLine Mode = "single-line"
	// ModeSingleWord treats the image as a single word.
	ModeSingleWord Mode = "single-word"
	// ModeSingleColumn treats the image as one column of variable-width text.
	ModeSingleColumn Mode = "single-column"
)

// Modes lists every pass the extractor runs for an image document.
var Modes = []Mode{
	ModeSingleBlock,
	ModeSingleLine,
	ModeSingleWord,
	ModeSingleColumn,
	ModeAuto,
}

// Result is the output of one recognition pass.
type Result struct {
	Text string

	// Confidence is the engine's own certainty for this pass, 0-100.
	Confidence float64
}

// Engine recognizes text in an image using the given page-segmentation mode.
type Engine interface {
	Recognize(ctx context.Context, image []byte, mode Mode) (Result, error)
}

// ErrUnknownMode is returned for a Mode outside the supported set.
var ErrUnknownMode = fmt.Errorf("ocr: unknown page segmentation mode")
