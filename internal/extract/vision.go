package extract

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const transcribePrompt = "Transcribe ALL text visible in the attached document, " +
	"preserving line breaks and reading order.\n" +
	"Output the raw text only. Do NOT summarize, annotate, or wrap the output in Markdown."

// GeminiVision transcribes scanned PDFs through the Gemini API. The client is
// injected so one process-wide client can be shared across components.
type GeminiVision struct {
	client *genai.Client
	model  string
}

// NewGeminiVision creates a vision client using the given model
// (e.g. "gemini-2.5-flash").
func NewGeminiVision(client *genai.Client, model string) *GeminiVision {
	return &GeminiVision{client: client, model: model}
}

// TranscribePDF implements VisionClient.
func (v *GeminiVision) TranscribePDF(ctx context.Context, pdfData []byte) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcribePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     pdfData,
					},
				},
			},
		},
	}

	resp, err := v.client.Models.GenerateContent(ctx, v.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("vision: generate content: %w", err)
	}
	return resp.Text(), nil
}
