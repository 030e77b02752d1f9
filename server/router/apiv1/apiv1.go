// Package apiv1 exposes the question pipeline over HTTP.
package apiv1

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apperrors "github.com/wagewise/wagewise/internal/errors"
	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server/pipeline"
	"github.com/wagewise/wagewise/server/stats"
)

// APIV1Service handles the /api/v1 route group.
type APIV1Service struct {
	profile   *profile.Profile
	pipeline  *pipeline.Pipeline
	collector *stats.Collector
	markdown  goldmark.Markdown
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(p *profile.Profile, pipe *pipeline.Pipeline, collector *stats.Collector) *APIV1Service {
	return &APIV1Service{
		profile:   p,
		pipeline:  pipe,
		collector: collector,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// RegisterRoutes registers the /api/v1 routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/ask", s.handleAsk)
	g.GET("/topics", s.handleTopics)
	g.GET("/stats", s.handleStats)
}

// AskRequest is the POST /api/v1/ask body.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// AskResponse is the POST /api/v1/ask reply.
type AskResponse struct {
	SessionID  string  `json:"session_id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	AnswerHTML string  `json:"answer_html"`
	Route      string  `json:"route"`
	Topic      string  `json:"topic,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	DurationMs int64   `json:"duration_ms"`
}

// ErrorResponse is the error reply shape for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *APIV1Service) handleAsk(c echo.Context) error {
	req := &AskRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, &ErrorResponse{
			Error: "invalid request body",
			Code:  string(apperrors.ErrCodeInvalidArgument),
		})
	}
	if req.SessionID == "" {
		req.SessionID = shortuuid.New()
	}

	answer, err := s.pipeline.Ask(c.Request().Context(), req.Question, req.SessionID)
	if err != nil {
		return s.errorJSON(c, err)
	}

	var html bytes.Buffer
	if err := s.markdown.Convert([]byte(answer.Text), &html); err != nil {
		html.Reset()
		html.WriteString(answer.Text)
	}

	return c.JSON(http.StatusOK, &AskResponse{
		SessionID:  req.SessionID,
		Question:   answer.Question,
		Answer:     answer.Text,
		AnswerHTML: html.String(),
		Route:      answer.Route,
		Topic:      answer.Topic,
		Confidence: answer.Confidence,
		Reason:     answer.Reason,
		DurationMs: answer.DurationMs,
	})
}

// TopicsResponse is the GET /api/v1/topics reply.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

func (s *APIV1Service) handleTopics(c echo.Context) error {
	topics, err := s.pipeline.Retriever().Topics(c.Request().Context())
	if err != nil {
		return s.errorJSON(c, apperrors.KnowledgeUnavailable("failed to list topics", err))
	}
	if len(topics) == 0 {
		topics = s.pipeline.Router().Analyzer().Config().TopicNames()
	}
	return c.JSON(http.StatusOK, &TopicsResponse{Topics: topics})
}

func (s *APIV1Service) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.collector.GetStats())
}

// errorJSON maps a pipeline error to an HTTP status and the user-facing
// message; internals stay in the logs.
func (s *APIV1Service) errorJSON(c echo.Context, err error) error {
	code := apperrors.GetCodeFromError(err, apperrors.ErrCodeServiceUnavailable)
	message := "Something went wrong while answering your question."
	var pErr *apperrors.PipelineError
	if ok := asPipelineError(err, &pErr); ok {
		message = pErr.FriendlyMessage()
	}
	return c.JSON(statusForCode(code), &ErrorResponse{Error: message, Code: string(code)})
}

func asPipelineError(err error, target **apperrors.PipelineError) bool {
	pErr, ok := err.(*apperrors.PipelineError)
	if ok {
		*target = pErr
	}
	return ok
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidArgument, apperrors.ErrCodeParse, apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeNoData:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeContextCanceled:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeLLMUnavailable, apperrors.ErrCodeKnowledgeUnavailable, apperrors.ErrCodeServiceUnavailable, apperrors.ErrCodeDB:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
