// Package pipeline orchestrates the full question flow: sanitize, keyword
// analysis, routing, route overrides, data retrieval and answer
// composition.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/wagewise/wagewise/internal/errors"
	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server/internal/observability"
	"github.com/wagewise/wagewise/server/knowledge"
	"github.com/wagewise/wagewise/server/queryengine"
	"github.com/wagewise/wagewise/store"
)

// LLM is the language model collaborator. It extends the router's
// Completer with the two generation tasks the pipeline needs. A nil LLM
// degrades the pipeline to heuristic conditions and raw data output.
type LLM interface {
	queryengine.Completer
	GenerateSQLConditions(ctx context.Context, prompt, question string) (string, error)
	GenerateNaturalResponse(ctx context.Context, prompt string) (string, error)
	CheckConnection(ctx context.Context) error
}

// Answer is the pipeline's output for one question.
type Answer struct {
	Question   string  `json:"question"`
	Text       string  `json:"answer"`
	Route      string  `json:"route"`
	Topic      string  `json:"topic,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	DurationMs int64   `json:"duration_ms"`

	// Records backs the terminal table output; the API serves Text only.
	Records []*store.WageRecord `json:"-"`
}

// Route override thresholds. A SQL decision with strong keyword signal is
// redirected to the knowledge base; a knowledge-flavored question that
// also names wage amounts runs both sides.
const keywordOverrideConfidence = 0.6

// wageTokens signal that the question wants concrete wage figures, not
// only regulatory context.
var wageTokens = []string{"wage", "minimum", "minimum wage", "tipped", "tip", "cash", "rate", "salary"}

// Pipeline wires the router, store, LLM and knowledge retriever together.
type Pipeline struct {
	profile   *profile.Profile
	store     *store.Store
	llm       LLM
	retriever knowledge.Retriever
	router    *queryengine.QueryRouter
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New builds a pipeline. llm may be nil; store and retriever must not be.
func New(p *profile.Profile, s *store.Store, llm LLM, retriever knowledge.Retriever, logger *slog.Logger) (*Pipeline, error) {
	if p == nil {
		return nil, pkgerrors.New("profile is nil")
	}
	if s == nil {
		return nil, pkgerrors.New("store is nil")
	}
	if retriever == nil {
		return nil, pkgerrors.New("retriever is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var completer queryengine.Completer
	if llm != nil {
		completer = llm
	}
	router, err := queryengine.NewQueryRouter(queryengine.DefaultConfig(), nil, completer)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build query router")
	}

	return &Pipeline{
		profile:   p,
		store:     s,
		llm:       llm,
		retriever: retriever,
		router:    router,
		metrics:   observability.GlobalMetrics(),
		logger:    logger,
	}, nil
}

// Router exposes the query router for callers that only need routing.
func (p *Pipeline) Router() *queryengine.QueryRouter {
	return p.router
}

// Retriever exposes the knowledge retriever.
func (p *Pipeline) Retriever() knowledge.Retriever {
	return p.retriever
}

// Store exposes the backing store.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// Ask answers one question end to end. Errors are *apperrors.PipelineError
// values; callers present FriendlyMessage to users.
func (p *Pipeline) Ask(ctx context.Context, question, sessionID string) (*Answer, error) {
	clean := SanitizeQuestion(question)
	if clean == "" {
		return nil, apperrors.InvalidArgument("question is empty")
	}

	reqCtx := observability.NewRequestContext(p.logger, sessionID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	analysis, err := p.router.AnalyzeKeywords(clean)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "keyword analysis failed")
	}
	decision, err := p.router.Route(ctx, clean)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "routing failed")
	}

	route, reason := p.applyOverrides(clean, analysis, decision)

	topic := decision.Topic
	if topic == "" {
		topic = analysis.SuggestedTopic
	}

	answer := &Answer{
		Question:   clean,
		Route:      string(route),
		Topic:      topic,
		Confidence: decision.Confidence,
		Reason:     reason,
	}

	p.metrics.RecordRequest(string(route))
	reqCtx.Info("question routed",
		slog.String(observability.LogFieldRoute, string(route)),
		slog.Int(observability.LogFieldQuestionLen, len(clean)),
		slog.Float64(observability.LogFieldConfidence, decision.Confidence))

	var routeErr error
	switch route {
	case queryengine.RouteSQL:
		routeErr = p.answerSQL(ctx, clean, answer)
	case queryengine.RouteLightRAG:
		routeErr = p.answerKnowledge(ctx, clean, answer)
	case queryengine.RouteHybrid:
		routeErr = p.answerHybrid(ctx, clean, answer)
	default:
		routeErr = apperrors.ServiceUnavailable(fmt.Sprintf("unknown route: %s", route))
	}

	answer.DurationMs = reqCtx.DurationMs()
	p.metrics.RecordDuration(string(route), reqCtx.Duration())

	if routeErr != nil {
		p.metrics.RecordFailure(string(route))
		reqCtx.Error("question failed", routeErr,
			slog.String(observability.LogFieldRoute, string(route)),
			slog.String(observability.LogFieldErrorCode, string(apperrors.GetCodeFromError(routeErr, apperrors.ErrCodeServiceUnavailable))))
		return nil, routeErr
	}

	reqCtx.Info("question answered",
		slog.String(observability.LogFieldRoute, string(route)),
		slog.Int64(observability.LogFieldDuration, answer.DurationMs))
	return answer, nil
}

// applyOverrides adjusts the routing decision with two post-routing
// heuristics: questions naming wage amounts alongside a regulatory topic
// run the hybrid route, and SQL decisions with strong keyword signal are
// redirected to the knowledge base.
func (p *Pipeline) applyOverrides(question string, analysis *queryengine.KeywordAnalysis, decision *queryengine.RoutingDecision) (queryengine.Route, string) {
	route := decision.Route
	reason := decision.Reason

	hasTopic := decision.Topic != "" || analysis.SuggestedTopic != ""
	if route != queryengine.RouteHybrid && hasTopic && hasWageToken(question) &&
		decision.Confidence >= p.profile.HybridConfidence {
		return queryengine.RouteHybrid, "Wage figures and regulatory topic both in scope"
	}

	if route == queryengine.RouteSQL && analysis.SuggestedTopic != "" &&
		analysis.Confidence >= keywordOverrideConfidence {
		return queryengine.RouteLightRAG, "Keyword analysis overrides SQL: " + analysis.SuggestedTopic
	}

	return route, reason
}

func hasWageToken(question string) bool {
	lower := strings.ToLower(question)
	for _, token := range wageTokens {
		if containsWord(lower, token) {
			return true
		}
	}
	return false
}

// generateConditions produces query conditions for the SQL side. A
// transport failure degrades to heuristic extraction; a response with no
// parseable JSON is a parse error.
func (p *Pipeline) generateConditions(ctx context.Context, question string) (*SQLConditions, error) {
	if p.llm == nil {
		return HeuristicConditions(question), nil
	}

	raw, err := p.llm.GenerateSQLConditions(ctx, ConditionPrompt(), question)
	if err != nil {
		p.logger.Warn("condition generation failed, using heuristic extraction", "error", err)
		return HeuristicConditions(question), nil
	}

	conditions := &SQLConditions{}
	if !queryengine.ExtractJSON(raw, conditions) {
		return nil, apperrors.Parse("condition generation returned no parseable JSON")
	}
	return conditions, nil
}

func (p *Pipeline) answerSQL(ctx context.Context, question string, answer *Answer) error {
	conditions, err := p.generateConditions(ctx, question)
	if err != nil {
		return err
	}
	if err := ValidateConditions(conditions); err != nil {
		return err
	}

	records, err := p.store.QueryWages(ctx, conditions.WageQuery())
	if err != nil {
		return apperrors.DB("wage query failed", err)
	}
	if len(records) == 0 {
		return apperrors.NoData("no wage records matched the question")
	}
	answer.Records = records

	if p.llm != nil {
		text, err := p.llm.GenerateNaturalResponse(ctx, ResponsePrompt(question, records))
		if err == nil && strings.TrimSpace(text) != "" {
			answer.Text = text
			return nil
		}
		p.logger.Warn("answer composition failed, returning raw records", "error", err)
	}
	answer.Text = FormatRecords(records)
	return nil
}

func (p *Pipeline) answerKnowledge(ctx context.Context, question string, answer *Answer) error {
	state := ""
	if states := ExtractStates(question); len(states) > 0 {
		state = states[0]
	}

	context, err := p.retriever.Query(ctx, question, answer.Topic, state)
	if err != nil {
		if pkgerrors.Is(err, knowledge.ErrNoKnowledge) {
			return apperrors.NoData("no knowledge available for the question")
		}
		return apperrors.KnowledgeUnavailable("knowledge query failed", err)
	}

	if p.llm != nil {
		text, err := p.llm.GenerateNaturalResponse(ctx, KnowledgePrompt(question, context))
		if err == nil && strings.TrimSpace(text) != "" {
			answer.Text = text
			return nil
		}
		p.logger.Warn("answer composition failed, returning raw context", "error", err)
	}
	answer.Text = context
	return nil
}

// answerHybrid runs the SQL and knowledge sides in parallel. A missing
// knowledge answer is tolerated; both sides empty is a no-data failure.
func (p *Pipeline) answerHybrid(ctx context.Context, question string, answer *Answer) error {
	state := ""
	if states := ExtractStates(question); len(states) > 0 {
		state = states[0]
	}

	var records []*store.WageRecord
	var knowledgeText string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conditions, err := p.generateConditions(gctx, question)
		if err != nil {
			return err
		}
		if err := ValidateConditions(conditions); err != nil {
			return err
		}
		list, err := p.store.QueryWages(gctx, conditions.WageQuery())
		if err != nil {
			return apperrors.DB("wage query failed", err)
		}
		records = list
		return nil
	})
	g.Go(func() error {
		text, err := p.retriever.Query(gctx, question, answer.Topic, state)
		if err != nil {
			if pkgerrors.Is(err, knowledge.ErrNoKnowledge) {
				return nil
			}
			return apperrors.KnowledgeUnavailable("knowledge query failed", err)
		}
		knowledgeText = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if len(records) == 0 && knowledgeText == "" {
		return apperrors.NoData("neither wage data nor knowledge matched the question")
	}
	answer.Records = records

	if p.llm != nil {
		text, err := p.llm.GenerateNaturalResponse(ctx, HybridPrompt(question, records, knowledgeText))
		if err == nil && strings.TrimSpace(text) != "" {
			answer.Text = text
			return nil
		}
		p.logger.Warn("answer composition failed, returning raw sections", "error", err)
	}

	var parts []string
	if len(records) > 0 {
		parts = append(parts, FormatRecords(records))
	}
	if knowledgeText != "" {
		parts = append(parts, knowledgeText)
	}
	answer.Text = strings.Join(parts, "\n\n")
	return nil
}
