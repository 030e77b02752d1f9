package queryengine

import (
	"context"
	"log/slog"
	"math"
	"strings"
)

// Route identifies which processing pipeline should answer a question.
type Route string

const (
	// RouteSQL answers from the structured wage database.
	RouteSQL Route = "sql"
	// RouteLightRAG answers from the regulatory knowledge base.
	RouteLightRAG Route = "lightrag"
	// RouteHybrid combines both.
	RouteHybrid Route = "hybrid"
)

// ParseRoute maps a route string (case-insensitive) to a Route.
func ParseRoute(s string) (Route, bool) {
	switch Route(strings.ToLower(strings.TrimSpace(s))) {
	case RouteSQL:
		return RouteSQL, true
	case RouteLightRAG:
		return RouteLightRAG, true
	case RouteHybrid:
		return RouteHybrid, true
	default:
		return "", false
	}
}

// RoutingDecision is the terminal output of the routing cascade.
type RoutingDecision struct {
	Route      Route   `json:"route"`
	Reason     string  `json:"reason"`
	Topic      string  `json:"topic,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Completer is the external LLM collaborator: it completes a user message
// under a system prompt and returns the raw response text. Timeouts and
// transport policy belong to the implementation; the router treats any
// error identically to an unusable response.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Confidence constants of the routing cascade.
const (
	fastPathConfidence    = 0.9  // no specialized terms, straight to SQL
	llmBaseConfidence     = 0.85 // usable LLM decision
	llmReasonBonus        = 0.05 // the LLM supplied a reason
	llmTopicBonus         = 0.05 // non-SQL route with a topic
	topicAgreementBonus   = 0.1  // LLM topic agrees with keyword analysis
	fallbackConfidenceMin = 0.6  // keyword fallback floor
	defaultConfidence     = 0.5  // default fallback
)

// QueryRouter runs the routing cascade: fast keyword gate, LLM
// classification, keyword fallback, default. Each call starts at stage one;
// there is no state between calls.
type QueryRouter struct {
	analyzer  *Analyzer
	completer Completer
}

// NewQueryRouter builds a router over a validated configuration with the
// LLM collaborator injected. completer may be nil, in which case the LLM
// stage is skipped and questions with keyword signal resolve through the
// keyword fallback.
func NewQueryRouter(cfg *Config, stemmer Stemmer, completer Completer) (*QueryRouter, error) {
	analyzer, err := NewAnalyzer(cfg, stemmer)
	if err != nil {
		return nil, err
	}
	return &QueryRouter{analyzer: analyzer, completer: completer}, nil
}

// Analyzer exposes the router's keyword analyzer so callers (the pipeline's
// override heuristics) can reuse the same configuration and feature cache.
func (r *QueryRouter) Analyzer() *Analyzer {
	return r.analyzer
}

// AnalyzeKeywords runs keyword/topic analysis for the question.
func (r *QueryRouter) AnalyzeKeywords(question string) (*KeywordAnalysis, error) {
	return r.analyzer.Analyze(question)
}

// Route decides how the question should be processed. Exactly one cascade
// stage terminates every call:
//
//  1. Fast gate: no keyword signal at all means a plain wage lookup.
//  2. LLM classification, with a confidence bonus when the LLM's topic
//     agrees with the keyword analysis.
//  3. Keyword fallback when the LLM produced nothing usable but the
//     analysis suggested a topic.
//  4. Default to SQL.
//
// LLM failures are absorbed by stage 3; only configuration or internal
// errors return a non-nil error, wrapped in *RoutingError.
func (r *QueryRouter) Route(ctx context.Context, question string) (*RoutingDecision, error) {
	analysis, err := r.analyzer.Analyze(question)
	if err != nil {
		slog.Error("keyword analysis failed", "error", err)
		return nil, &RoutingError{Stage: "analyze", Err: err}
	}

	if !analysis.HasLightRAGKeywords {
		slog.Debug("fast routing to sql", "question_length", len(question))
		return &RoutingDecision{
			Route:      RouteSQL,
			Reason:     "Direct minimum wage query without specialized terms",
			Confidence: fastPathConfidence,
		}, nil
	}

	decision, failure := r.llmDecision(ctx, question)
	if failure == LLMFailureNone {
		if analysis.SuggestedTopic != "" && decision.Topic == analysis.SuggestedTopic {
			// Two independent signals agree on the topic.
			decision.Confidence = math.Min(1.0, decision.Confidence+topicAgreementBonus)
		}
		return decision, nil
	}

	slog.Warn("llm routing unusable, falling back to keyword analysis", "failure", string(failure))
	if analysis.SuggestedTopic != "" {
		return &RoutingDecision{
			Route:      RouteLightRAG,
			Reason:     "Topic classification via keywords: " + firstN(analysis.MatchedKeywords, 3),
			Topic:      analysis.SuggestedTopic,
			Confidence: math.Max(fallbackConfidenceMin, analysis.Confidence),
		}, nil
	}

	return &RoutingDecision{
		Route:      RouteSQL,
		Reason:     "Default fallback to SQL query",
		Confidence: defaultConfidence,
	}, nil
}

// llmRoutePayload is the JSON object the routing prompt asks for.
type llmRoutePayload struct {
	Route  string `json:"route"`
	Reason string `json:"reason"`
	Topic  string `json:"topic"`
}

// llmDecision asks the LLM collaborator for a routing decision. The second
// return value classifies failure; it is LLMFailureNone exactly when the
// decision is usable.
func (r *QueryRouter) llmDecision(ctx context.Context, question string) (*RoutingDecision, LLMFailureKind) {
	if r.completer == nil {
		return nil, LLMFailureUnavailable
	}

	raw, err := r.completer.Complete(ctx, RoutingPrompt(r.analyzer.Config()), question)
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			slog.Warn("llm routing call failed", "error", err)
		}
		return nil, LLMFailureUnavailable
	}

	var payload llmRoutePayload
	if !ExtractJSON(raw, &payload) {
		slog.Debug("llm routing response had no parseable JSON", "response_length", len(raw))
		return nil, LLMFailureBadJSON
	}
	if payload.Route == "" {
		return nil, LLMFailureMissingRoute
	}
	route, ok := ParseRoute(payload.Route)
	if !ok {
		slog.Debug("llm returned unrecognized route", "route", payload.Route)
		return nil, LLMFailureUnknownRoute
	}

	confidence := llmBaseConfidence
	if payload.Reason != "" {
		confidence += llmReasonBonus
	}
	if route != RouteSQL && payload.Topic != "" {
		confidence += llmTopicBonus
	}

	reason := payload.Reason
	if reason == "" {
		reason = "LLM-based classification"
	}

	return &RoutingDecision{
		Route:      route,
		Reason:     reason,
		Topic:      payload.Topic,
		Confidence: math.Min(1.0, confidence),
	}, LLMFailureNone
}
