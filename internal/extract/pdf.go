package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDFText reads the embedded text layer of a PDF. It returns an empty
// string (no error) for scanned PDFs whose pages carry no text objects.
func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; a corrupt upload
	// must degrade to the vision path, not crash the pipeline.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract: pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract: read pdf text layer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("extract: drain pdf text: %w", err)
	}
	return buf.String(), nil
}
