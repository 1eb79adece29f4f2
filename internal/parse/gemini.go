package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiGenerator implements Generator against the Gemini API. The client is
// injected so one process-wide client can be shared with the vision path.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator using the given model
// (e.g. "gemini-2.5-flash").
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

// Generate implements Generator. Transient overloads are wrapped in
// ErrOverloaded so the parser's retry policy can distinguish them.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		if isTransientOverload(err) {
			return "", fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
		return "", fmt.Errorf("parse: generate content: %w", err)
	}
	return resp.Text(), nil
}

// isTransientOverload classifies rate-limit and availability errors that are
// worth retrying. Structured googleapi errors are checked first; the string
// checks cover transports that only surface the status in the message.
func isTransientOverload(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code == 503
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "503") {
		return true
	}
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "UNAVAILABLE") {
		return true
	}
	return strings.Contains(strings.ToLower(msg), "overloaded")
}
