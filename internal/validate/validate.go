// Package validate sanitizes candidate transactions into their canonical
// form. Input originates from either a generative model (which can
// hallucinate field shapes) or regex extraction (which can mis-slice text),
// so no field is trusted to already conform to the schema. Everything here is
// pure: no I/O, no side effects.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/expense-scanner/internal/domain"
)

// dateLayouts are tried in order when normalizing a candidate date. Dates are
// parsed as written; the current date is substituted only when every layout
// fails. D/M/Y precedes M/D/Y, so ambiguous slash dates resolve day-first and
// the M/D/Y layouts catch unambiguous US-format dates (day > 12).
var dateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02/01/06",
	"2/1/06",
}

// Transaction normalizes one candidate. The returned bool is false only when
// the record is rejected outright (empty description); every other defect
// degrades to a substituted value or a manual-review flag.
//
// Transaction is a fixed point: validating an already-validated record
// returns it unchanged.
func Transaction(tx domain.Transaction) (domain.Transaction, bool) {
	out := domain.Transaction{
		Description:       strings.TrimSpace(tx.Description),
		NeedsManualReview: tx.NeedsManualReview,
	}
	if out.Description == "" {
		return domain.Transaction{}, false
	}

	if amount, ok := normalizeAmount(tx.Amount); ok {
		out.Amount = amount
	} else {
		out.Amount = nil
		out.NeedsManualReview = true
	}

	if category, ok := domain.CanonicalCategory(tx.Category); ok {
		out.Category = category
	} else {
		out.Category = domain.CategoryOtherExpense
	}

	switch strings.ToLower(strings.TrimSpace(tx.Type)) {
	case domain.TypeIncome:
		out.Type = domain.TypeIncome
	case domain.TypeExpense:
		out.Type = domain.TypeExpense
	default:
		out.Type = domain.TypeExpense
	}

	out.Date = normalizeDate(tx.Date)

	return out, true
}

// normalizeAmount accepts only finite, positive amounts, rounded to two
// decimal places.
func normalizeAmount(amount *float64) (*float64, bool) {
	if amount == nil {
		return nil, false
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil, false
	}
	rounded := math.Round(v*100) / 100
	return &rounded, true
}

// AmountFromString coerces a free-form amount string ("₹1,234.50", "$12.00")
// into a number by stripping everything but digits, dot and minus. Returns
// nil when nothing numeric remains.
func AmountFromString(s string) *float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}

// normalizeDate parses the date as written and re-renders it in the canonical
// layout; an unparseable date defaults to the current date.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return time.Now().Format(domain.DateLayout)
}
