package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs recognition through a local Tesseract installation via
// gosseract. A fresh client is created per call because gosseract clients are
// not safe for concurrent use; Close is deferred so native resources are
// released on every exit path.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine creates an engine recognizing the given language
// (e.g. "eng"). An empty language uses the Tesseract default.
func NewTesseractEngine(language string) *TesseractEngine {
	return &TesseractEngine{language: language}
}

// Recognize implements Engine.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, mode Mode) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	psm, err := pageSegMode(mode)
	if err != nil {
		return Result{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.language != "" {
		if err := client.SetLanguage(e.language); err != nil {
			return Result{}, fmt.Errorf("ocr: set language %q: %w", e.language, err)
		}
	}
	if err := client.SetPageSegMode(psm); err != nil {
		return Result{}, fmt.Errorf("ocr: set page seg mode %q: %w", mode, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return Result{}, fmt.Errorf("ocr: set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("ocr: recognize (mode %q): %w", mode, err)
	}

	return Result{Text: text, Confidence: meanWordConfidence(client)}, nil
}

// meanWordConfidence averages per-word confidences for the current page.
// Tesseract reports word confidence on a 0-100 scale already.
func meanWordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}

func pageSegMode(mode Mode) (gosseract.PageSegMode, error) {
	switch mode {
	case ModeAuto:
		return gosseract.PSM_AUTO, nil
	case ModeSingleBlock:
		return gosseract.PSM_SINGLE_BLOCK, nil
	case ModeSingleLine:
		return gosseract.PSM_SINGLE_LINE, nil
	case ModeSingleWord:
		return gosseract.PSM_SINGLE_WORD, nil
	case ModeSingleColumn:
		return gosseract.PSM_SINGLE_COLUMN, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
