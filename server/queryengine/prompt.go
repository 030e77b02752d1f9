package queryengine

import (
	"fmt"
	"strings"
)

// routingExamples are worked routing decisions included in the system
// prompt to anchor the LLM's output format.
const routingExamples = `ROUTING EXAMPLES:

User: "What is the minimum wage in California?"
Output: {"route": "sql", "reason": "Direct minimum wage query"}

User: "Do agricultural workers have different minimum wages in Texas?"
Output: {"route": "lightrag", "reason": "Query about agricultural employment type", "topic": "Agricultural Employment"}

User: "What are the rest break requirements in New York?"
Output: {"route": "lightrag", "reason": "Query about labor law - rest periods", "topic": "Minimum Paid Rest Periods"}

User: "Compare tipped wages in California and Nevada"
Output: {"route": "sql", "reason": "Direct comparison of wage data"}

User: "Are there special rules for entertainers in California?"
Output: {"route": "lightrag", "reason": "Query about specific employment type", "topic": "Entertainment"}

User: "When must employers pay their workers in Massachusetts?"
Output: {"route": "lightrag", "reason": "Query about payday requirements", "topic": "Payday Requirements"}

User: "What's the prevailing wage for construction workers?"
Output: {"route": "lightrag", "reason": "Query about prevailing wages", "topic": "Prevailing Wages"}

User: "Show me minimum wages for California, Texas, and Florida from 2020-2024"
Output: {"route": "sql", "reason": "Historical wage data comparison"}`

// RoutingPrompt builds the system prompt for the LLM routing stage: the
// three route names, the topic taxonomy grouped by category in declaration
// order, routing heuristics, and worked examples.
func RoutingPrompt(cfg *Config) string {
	var topics strings.Builder
	lastCategory := ""
	for _, t := range cfg.Topics {
		if t.Category != lastCategory {
			fmt.Fprintf(&topics, "\n%s:\n", t.Category)
			lastCategory = t.Category
		}
		fmt.Fprintf(&topics, "  - %s\n", t.Name)
	}

	return fmt.Sprintf(`You are a query routing assistant that specializes in labor law and wage regulation queries.

You must decide between three routes:
1. "sql" - Direct queries about minimum wage amounts that can be answered from a structured database
2. "lightrag" - Questions about specific labor law topics, special employment types, or regulatory requirements
3. "hybrid" - Questions that need both wage data AND additional context from labor laws

AVAILABLE LIGHTRAG TOPICS:
%s
ROUTING RULES:
- Use "sql" for: specific wage amounts, wage comparisons, historical wage data, tipped vs standard wages
- Use "lightrag" for: labor law requirements, special employment categories, regulatory details, compliance questions
- Use "hybrid" for: questions that explicitly ask about wages AND special rules/laws

%s

IMPORTANT:
- Return ONLY a JSON object with: {"route": "sql|lightrag|hybrid", "reason": "brief explanation", "topic": "specific topic name or null"}
- Be conservative: if unsure between sql and lightrag, prefer "sql" for wage-related questions
- topic field is required ONLY for lightrag and hybrid routes

Analyze the user's question and provide a routing decision:`, topics.String(), routingExamples)
}
