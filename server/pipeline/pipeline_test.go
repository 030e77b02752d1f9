package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wagewise/wagewise/internal/errors"
	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server/knowledge"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db/sqlite"
)

type mockLLM struct {
	completeResp   string
	completeErr    error
	completeCalls  int
	conditionResp  string
	conditionErr   error
	conditionCalls int
	responseResp   string
	responseErr    error
	responseCalls  int
	checkErr       error
}

func (m *mockLLM) Complete(context.Context, string, string) (string, error) {
	m.completeCalls++
	return m.completeResp, m.completeErr
}

func (m *mockLLM) GenerateSQLConditions(context.Context, string, string) (string, error) {
	m.conditionCalls++
	return m.conditionResp, m.conditionErr
}

func (m *mockLLM) GenerateNaturalResponse(context.Context, string) (string, error) {
	m.responseCalls++
	return m.responseResp, m.responseErr
}

func (m *mockLLM) CheckConnection(context.Context) error {
	return m.checkErr
}

func newTestPipeline(t *testing.T, llm LLM) *Pipeline {
	t.Helper()

	p := &profile.Profile{
		Mode:             "demo",
		Driver:           "sqlite",
		DSN:              filepath.Join(t.TempDir(), "pipeline_test.db"),
		HybridConfidence: 0.55,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	s := store.New(driver, p)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	require.NoError(t, s.Migrate(context.Background()))

	pipe, err := New(p, s, llm, knowledge.NewMockRetriever(), slog.Default())
	require.NoError(t, err)
	return pipe
}

func TestAskPlainWageQuestion(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	answer, err := pipe.Ask(context.Background(), "What is the minimum wage in California?", "s1")
	require.NoError(t, err)
	require.Equal(t, "sql", answer.Route)
	require.InDelta(t, 0.9, answer.Confidence, 1e-9)
	require.Len(t, answer.Records, 3)
	require.Contains(t, answer.Text, "California")
	require.Contains(t, answer.Text, "$16.00")

	// Ordered by year descending within the state.
	require.Equal(t, 2024, answer.Records[0].Year)
	require.Equal(t, 2023, answer.Records[2].Year)
}

func TestAskEmptyQuestion(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	_, err := pipe.Ask(context.Background(), "  ; -- /* */  ", "s1")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
}

func TestAskKnowledgeRoute(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	answer, err := pipe.Ask(context.Background(), "What are the rest break requirements in California?", "s1")
	require.NoError(t, err)
	require.Equal(t, "lightrag", answer.Route)
	require.Equal(t, "Minimum Paid Rest Periods", answer.Topic)
	require.Contains(t, answer.Text, "rest periods")
	require.GreaterOrEqual(t, answer.Confidence, 0.6)
}

func TestAskHybridOverride(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	answer, err := pipe.Ask(context.Background(), "Do agricultural workers have different minimum wage rules?", "s1")
	require.NoError(t, err)
	require.Equal(t, "hybrid", answer.Route)
	require.Equal(t, "Agricultural Employment", answer.Topic)
	// Both sections present: the wage table and the knowledge snippet.
	require.Contains(t, answer.Text, "| State | Year | Category | Rate |")
	require.Contains(t, answer.Text, "Agricultural workers")
	require.NotEmpty(t, answer.Records)
}

func TestAskSQLWithLLM(t *testing.T) {
	llm := &mockLLM{
		conditionResp: `{"states": ["Texas"], "years": [2024], "category_type": "standard"}`,
		responseResp:  "Texas follows the federal minimum wage of $7.25 per hour in 2024.",
	}
	pipe := newTestPipeline(t, llm)

	answer, err := pipe.Ask(context.Background(), "What is the minimum wage in Texas?", "s1")
	require.NoError(t, err)
	require.Equal(t, "sql", answer.Route)
	require.Equal(t, llm.responseResp, answer.Text)
	require.Len(t, answer.Records, 1)
	require.Equal(t, "Texas", answer.Records[0].StateName)

	// The fast gate answered routing without the LLM.
	require.Equal(t, 0, llm.completeCalls)
	require.Equal(t, 1, llm.conditionCalls)
	require.Equal(t, 1, llm.responseCalls)
}

func TestAskConditionParseError(t *testing.T) {
	llm := &mockLLM{conditionResp: "I cannot help with that."}
	pipe := newTestPipeline(t, llm)

	_, err := pipe.Ask(context.Background(), "What is the minimum wage in Texas?", "s1")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeParse))
}

func TestAskConditionValidationError(t *testing.T) {
	llm := &mockLLM{conditionResp: `{"states": ["Atlantis"]}`}
	pipe := newTestPipeline(t, llm)

	_, err := pipe.Ask(context.Background(), "What is the minimum wage in Atlantis?", "s1")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestAskConditionTransportFailureDegrades(t *testing.T) {
	llm := &mockLLM{
		conditionErr: errors.New("connection refused"),
		responseErr:  errors.New("connection refused"),
	}
	pipe := newTestPipeline(t, llm)

	// Heuristic extraction and raw record formatting take over.
	answer, err := pipe.Ask(context.Background(), "What is the minimum wage in Florida?", "s1")
	require.NoError(t, err)
	require.Equal(t, "sql", answer.Route)
	require.Contains(t, answer.Text, "Florida")
}

func TestAskNoData(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	_, err := pipe.Ask(context.Background(), "What is the minimum wage in Wyoming?", "s1")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoData))

	var pErr *apperrors.PipelineError
	require.ErrorAs(t, err, &pErr)
	require.NotEmpty(t, pErr.FriendlyMessage())
}

func TestCheckComponents(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	statuses := pipe.CheckComponents(context.Background())
	require.Len(t, statuses, 4)

	byName := make(map[string]ComponentStatus)
	for _, s := range statuses {
		byName[s.Name] = s
	}
	require.True(t, byName["store"].OK)
	require.Contains(t, byName["store"].Detail, "11 wage facts")
	require.False(t, byName["llm"].OK)
	require.Equal(t, "not configured", byName["llm"].Detail)
	require.True(t, byName["knowledge"].OK)
	require.True(t, byName["router"].OK)
	require.Contains(t, byName["router"].Detail, "sql")
}

func TestSanitizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is the minimum wage?", "What is the minimum wage?"},
		{"wage; DROP TABLE facts; --", "wage DROP TABLE facts"},
		{"rate /* hidden */ query", "rate hidden query"},
		{"call xp_cmdshell now", "call cmdshell now"},
		{"  spaced   out  ", "spaced out"},
		{"; -- /* */", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, SanitizeQuestion(tt.in), "input %q", tt.in)
	}
}

func TestHeuristicConditions(t *testing.T) {
	c := HeuristicConditions("minimum wage in New York and Texas in 2023 for tipped workers")
	require.Equal(t, []string{"New York", "Texas"}, c.States)
	require.Equal(t, []int{2023}, c.Years)
	require.Equal(t, "tipped", c.CategoryType)

	c = HeuristicConditions("federal minimum wage history")
	require.Equal(t, []string{"Federal"}, c.States)
	require.Empty(t, c.Years)
	require.Empty(t, c.CategoryType)
}

func TestExtractStatesWordBoundaries(t *testing.T) {
	require.Equal(t, []string{"Arkansas"}, ExtractStates("Working in Arkansas"))
	require.Equal(t, []string{"Kansas"}, ExtractStates("Wages in Kansas"))
	require.Equal(t, []string{"New York"}, ExtractStates("new york pay rules"))
	require.Empty(t, ExtractStates("yorkshire wages"))
}

func TestValidateConditions(t *testing.T) {
	c := &SQLConditions{States: []string{"california"}, Years: []int{2024}, CategoryType: "Tipped"}
	require.NoError(t, ValidateConditions(c))
	require.Equal(t, []string{"California"}, c.States)
	require.Equal(t, "tipped", c.CategoryType)

	require.Error(t, ValidateConditions(&SQLConditions{States: []string{"Atlantis"}}))
	require.Error(t, ValidateConditions(&SQLConditions{Years: []int{1800}}))
	require.Error(t, ValidateConditions(&SQLConditions{CategoryType: "overtime"}))
	require.Error(t, ValidateConditions(nil))
}

func TestConditionsWageQuery(t *testing.T) {
	c := &SQLConditions{States: []string{"Texas"}, CategoryType: "tipped"}
	q := c.WageQuery()
	require.Equal(t, []string{"Texas"}, q.States)
	require.Equal(t, []string{
		store.CategoryTippedCombined,
		store.CategoryTippedCredit,
		store.CategoryTippedCash,
	}, q.Categories)

	q = (&SQLConditions{CategoryType: "standard"}).WageQuery()
	require.Equal(t, []string{store.CategoryStandard}, q.Categories)

	q = (&SQLConditions{}).WageQuery()
	require.Empty(t, q.Categories)
}

func TestFormatRecords(t *testing.T) {
	text := FormatRecords([]*store.WageRecord{
		{StateName: "Texas", Year: 2024, CategoryType: store.CategoryTippedCash, Amount: 2.13},
	})
	require.Contains(t, text, "| Texas | 2024 | Tipped (cash wage) | $2.13 |")

	require.Equal(t, "No wage records found.", FormatRecords(nil))
}

func TestApplyOverrides(t *testing.T) {
	pipe := newTestPipeline(t, nil)

	analysis, err := pipe.Router().AnalyzeKeywords("Do agricultural workers have different minimum wage rules?")
	require.NoError(t, err)
	decision, err := pipe.Router().Route(context.Background(), "Do agricultural workers have different minimum wage rules?")
	require.NoError(t, err)

	route, _ := pipe.applyOverrides("Do agricultural workers have different minimum wage rules?", analysis, decision)
	require.Equal(t, "hybrid", string(route))

	// Without a wage token the decision stands.
	analysis, err = pipe.Router().AnalyzeKeywords("What are the rest break requirements in California?")
	require.NoError(t, err)
	decision, err = pipe.Router().Route(context.Background(), "What are the rest break requirements in California?")
	require.NoError(t, err)
	route, _ = pipe.applyOverrides("What are the rest break requirements in California?", analysis, decision)
	require.Equal(t, "lightrag", string(route))
}
