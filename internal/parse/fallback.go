package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/expense-scanner/internal/domain"
)

// maxFallbackRecords bounds pathological inputs; OCR noise can produce
// hundreds of spurious number-like tokens.
const maxFallbackRecords = 20

// placeholderDescription anchors manual entry when nothing could be parsed,
// instead of silently losing the document.
const placeholderDescription = "Scanned document (review needed)"

// exclusionKeywords mark summary/payment lines that are not purchasable line
// items. Matched case-insensitively anywhere in the line.
var exclusionKeywords = []string{
	"total",
	"subtotal",
	"tax",
	"gst",
	"vat",
	"discount",
	"change",
	"payment",
	"cash",
	"card",
	"balance",
	"amount due",
}

// amountLineRe matches a line ending in a numeric amount, optionally prefixed
// by a currency symbol. Group 1 is the description, group 2 the amount.
var amountLineRe = regexp.MustCompile(`^(.*?)[\s:]*(?:[$€£₹]|Rs\.?|INR|USD|EUR|GBP)?\s*(-?\d[\d,]*(?:\.\d+)?)\s*$`)

// parseFallback is the deterministic line-oriented strategy. It never returns
// an empty list: when nothing matches it emits exactly one placeholder record
// flagged for manual review.
func parseFallback(text string) []domain.Transaction {
	var out []domain.Transaction

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasExclusionKeyword(line) {
			continue
		}

		m := amountLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil || amount <= 0 {
			continue
		}

		desc := strings.TrimSpace(strings.TrimRight(m[1], " \t-:."))
		if desc == "" {
			continue
		}

		out = append(out, domain.Transaction{
			Description: desc,
			Amount:      &amount,
			Category:    domain.CategoryOtherExpense,
			Type:        domain.TypeExpense,
		})
		if len(out) == maxFallbackRecords {
			break
		}
	}

	if len(out) == 0 {
		return []domain.Transaction{{
			Description:       placeholderDescription,
			Amount:            nil,
			Category:          domain.CategoryOtherExpense,
			Type:              domain.TypeExpense,
			NeedsManualReview: true,
		}}
	}
	return out
}

func hasExclusionKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range exclusionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
