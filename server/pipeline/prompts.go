package pipeline

import (
	"fmt"
	"strings"

	"github.com/wagewise/wagewise/store"
)

// ConditionPrompt is the system prompt for SQL condition generation. The
// model returns a JSON object matching SQLConditions; anything else is
// handled by the tolerant JSON extractor and validation.
func ConditionPrompt() string {
	var b strings.Builder
	b.WriteString("You translate questions about US minimum wage into query conditions.\n\n")
	b.WriteString("Respond with ONLY a JSON object:\n")
	b.WriteString(`{"states": ["<state name>", ...], "years": [<year>, ...], "category_type": "<standard|tipped|>"}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- states: full state names mentioned in the question, or [] for all states\n")
	b.WriteString("- years: four-digit years mentioned, or [] for all years\n")
	b.WriteString("- category_type: \"tipped\" when the question is about tipped workers, \"standard\" for the plain minimum wage, \"\" when unclear\n")
	b.WriteString("- Use only states from this list: ")
	b.WriteString(strings.Join(ValidStates(), ", "))
	b.WriteString("\n")
	return b.String()
}

// ResponsePrompt builds the answer-composition prompt for the SQL route:
// the question plus the retrieved wage table.
func ResponsePrompt(question string, records []*store.WageRecord) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about US minimum wage law.\n")
	b.WriteString("Answer the question using ONLY the data below. Be concise and cite states, years and rates from the table.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Wage data:\n")
	b.WriteString(FormatRecords(records))
	return b.String()
}

// KnowledgePrompt builds the answer-composition prompt for the knowledge
// route: the question plus retrieved regulatory context.
func KnowledgePrompt(question, context string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about US labor law.\n")
	b.WriteString("Answer the question using the regulatory context below. Be concise; say so when the context does not cover the question.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Regulatory context:\n")
	b.WriteString(context)
	return b.String()
}

// HybridPrompt builds the answer-composition prompt for the hybrid route,
// combining wage data and regulatory context.
func HybridPrompt(question string, records []*store.WageRecord, context string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about US minimum wage law.\n")
	b.WriteString("Answer the question using the wage data and the regulatory context below. Lead with the concrete rates, then the regulatory nuance.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	if len(records) > 0 {
		b.WriteString("Wage data:\n")
		b.WriteString(FormatRecords(records))
		b.WriteString("\n")
	}
	if context != "" {
		b.WriteString("Regulatory context:\n")
		b.WriteString(context)
	}
	return b.String()
}
