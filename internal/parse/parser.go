// Package parse converts raw document text into candidate transactions.
// The primary strategy asks a generative model for structured output; a
// deterministic line parser guarantees a bounded, reproducible floor of
// behavior whenever the model is unavailable or returns unusable output.
package parse

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dvloznov/expense-scanner/internal/domain"
	"github.com/dvloznov/expense-scanner/internal/logger"
	"github.com/dvloznov/expense-scanner/internal/validate"
)

// Generator produces free-form text from a prompt. Implementations signal
// transient upstream overload by wrapping ErrOverloaded so the parser can
// drive its retry policy.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrOverloaded marks a transient upstream overload (rate limit, 503). It is
// retried with backoff up to the attempt budget and never surfaces to the
// caller.
var ErrOverloaded = errors.New("parse: upstream model overloaded")

// Parsing strategy names reported to the orchestrator.
const (
	MethodGemini   = "gemini"
	MethodFallback = "fallback"
)

const (
	maxModelAttempts      = 3
	defaultAttemptTimeout = 30 * time.Second
	defaultBackoffBase    = 2 * time.Second
)

// Parser extracts candidate transactions from text. It never fails outward:
// Parse always returns a list, possibly the fallback placeholder.
type Parser struct {
	gen            Generator // nil disables the model strategy
	attemptTimeout time.Duration
	backoffBase    time.Duration
}

// New creates a Parser. gen may be nil, in which case only the deterministic
// fallback runs.
func New(gen Generator) *Parser {
	return &Parser{
		gen:            gen,
		attemptTimeout: defaultAttemptTimeout,
		backoffBase:    defaultBackoffBase,
	}
}

// Parse converts raw text into candidate transactions and reports which
// strategy produced them (MethodGemini or MethodFallback).
func (p *Parser) Parse(ctx context.Context, text string) ([]domain.Transaction, string) {
	if p.gen != nil {
		if txs, ok := p.parseWithModel(ctx, text); ok {
			return txs, MethodGemini
		}
	}
	return parseFallback(text), MethodFallback
}

// parseWithModel runs the generative strategy with a bounded retry loop.
// Transient overloads and per-attempt timeouts count toward the attempt
// budget; malformed or empty output is unusable and is not retried.
func (p *Parser) parseWithModel(ctx context.Context, text string) ([]domain.Transaction, bool) {
	log := logger.FromContext(ctx)
	prompt := buildPrompt(text)

	for attempt := 1; attempt <= maxModelAttempts; attempt++ {
		raw, err := p.generateOnce(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				log.Warn().Err(ctx.Err()).Msg("model parsing canceled")
				return nil, false
			}
			if errors.Is(err, ErrOverloaded) || errors.Is(err, context.DeadlineExceeded) {
				log.Warn().
					Err(err).
					Int("attempt", attempt).
					Int("max_attempts", maxModelAttempts).
					Msg("transient model failure")
				if attempt < maxModelAttempts && sleepCtx(ctx, backoffDelay(attempt, p.backoffBase)) {
					continue
				}
				return nil, false
			}
			log.Warn().Err(err).Msg("model parsing failed")
			return nil, false
		}

		txs, ok := decodeModelResponse(raw)
		if !ok {
			log.Warn().Int("response_len", len(raw)).Msg("unusable model output, using fallback")
			return nil, false
		}
		return txs, true
	}
	return nil, false
}

// generateOnce runs a single attempt under its own timeout so a stalled
// upstream call cannot block the pipeline indefinitely.
func (p *Parser) generateOnce(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()
	return p.gen.Generate(attemptCtx, prompt)
}

// backoffDelay is the pure linear backoff schedule between attempts.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	return time.Duration(attempt) * base
}

// sleepCtx waits for d, returning false if the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// decodeModelResponse extracts the first well-formed JSON array from the
// model's free-form response and maps it into candidate transactions. The
// model may prepend or append commentary, so the whole response is never
// assumed to be valid JSON.
func decodeModelResponse(raw string) ([]domain.Transaction, bool) {
	arr, ok := extractJSONArray(raw)
	if !ok {
		return nil, false
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}

	out := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if tx, ok := candidateFromModel(item); ok {
			out = append(out, tx)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// candidateFromModel defensively maps one model object into a candidate.
// Records are dropped only for a missing description; every other field
// degrades to a review flag instead.
func candidateFromModel(obj map[string]interface{}) (domain.Transaction, bool) {
	desc := strings.TrimSpace(stringField(obj, "description"))
	if desc == "" {
		return domain.Transaction{}, false
	}

	tx := domain.Transaction{
		Description: desc,
		Amount:      numberField(obj, "amount"),
		Category:    strings.TrimSpace(stringField(obj, "category")),
		Type:        strings.TrimSpace(stringField(obj, "type")),
		Date:        strings.TrimSpace(stringField(obj, "date")),
	}
	if tx.Amount == nil || tx.Category == "" || tx.Type == "" {
		tx.NeedsManualReview = true
	}
	return tx, true
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// numberField accepts JSON numbers and numeric strings; the model sometimes
// quotes amounts despite instructions.
func numberField(m map[string]interface{}, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case string:
		return validate.AmountFromString(val)
	default:
		return nil
	}
}
