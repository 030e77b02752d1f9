package pipeline

import "strings"

// maxQuestionLen bounds question length after sanitizing. Longer input is
// truncated, not rejected.
const maxQuestionLen = 500

// sqlMetaTokens are stripped from user input before it reaches any prompt
// or query builder. The store only ever sees parameterized queries; this
// keeps the tokens out of LLM prompts and logs as well.
var sqlMetaTokens = []string{";", "--", "/*", "*/", "xp_", "sp_"}

// SanitizeQuestion strips SQL metacharacters, collapses whitespace and
// truncates overly long input. An empty result means the question carried
// no usable content.
func SanitizeQuestion(question string) string {
	s := question
	for _, token := range sqlMetaTokens {
		s = strings.ReplaceAll(s, token, " ")
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxQuestionLen {
		s = s[:maxQuestionLen]
	}
	return strings.TrimSpace(s)
}
