package parse

import (
	"strings"

	"github.com/dvloznov/expense-scanner/internal/domain"
)

// buildPrompt constructs the tightly-scoped extraction prompt: exact output
// schema, the closed category vocabulary, exclusion rules, and date
// normalization instructions.
func buildPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are a financial document parser for receipts and bank statements.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract ALL purchasable line items and transactions from the text below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects.\n\n")

	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"description\": string\n")
	b.WriteString("- \"amount\": number, or null if it cannot be read\n")
	b.WriteString("- \"category\": string (one of the predefined categories below)\n")
	b.WriteString("- \"type\": string, \"income\" or \"expense\"\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, c := range domain.Categories {
		b.WriteString("  - " + c + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Rules:\n")
	b.WriteString("- SKIP subtotal, total, tax, discount, payment, cash, card and change lines; they are not purchasable line items.\n")
	b.WriteString("- Keep dates exactly as written in the document, normalized to YYYY-MM-DD. Do not invent dates.\n")
	b.WriteString("- If you are unsure of the category, use \"" + domain.CategoryOtherExpense + "\".\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Output must begin with \"[\" and end with \"]\".\n\n")

	b.WriteString("Document text:\n")
	b.WriteString(text)

	return b.String()
}
