// Package stats provides simple local usage statistics for the question
// service. This is a lightweight alternative to enterprise monitoring.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wagewise/wagewise/server/internal/observability"
	"github.com/wagewise/wagewise/store"
)

// RouteStats holds the per-route view of served questions.
type RouteStats struct {
	Questions   int64 `json:"questions"`
	Errors      int64 `json:"errors"`
	AvgDuration int64 `json:"avg_duration_ms"`
}

// Stats is a point-in-time view of service usage.
type Stats struct {
	// Store contents.
	WageFacts int64 `json:"wage_facts"`
	Topics    int64 `json:"topics"`

	// Question traffic, from the in-process metrics.
	QuestionsTotal  int64                 `json:"questions_total"`
	QuestionsFailed int64                 `json:"questions_failed"`
	SuccessRate     float64               `json:"success_rate"`
	Routes          map[string]RouteStats `json:"routes"`

	LastUpdated time.Time `json:"last_updated"`
}

// Collector gathers usage statistics from the store and the metrics
// registry. Store counts refresh on a timer; traffic counters are read
// live on every snapshot.
type Collector struct {
	store   *store.Store
	metrics *observability.Metrics

	mu        sync.Mutex
	wageFacts int64
	topics    int64
	updated   time.Time

	tickStop chan struct{}
	stopOnce sync.Once
}

// NewCollector creates a statistics collector.
func NewCollector(st *store.Store) *Collector {
	return &Collector{
		store:    st,
		metrics:  observability.GlobalMetrics(),
		tickStop: make(chan struct{}),
	}
}

// Start begins periodic store-count collection. Refreshes every 10
// minutes until the context ends or Stop is called.
func (c *Collector) Start(ctx context.Context) {
	c.collect(ctx)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.collect(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the periodic collection.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.tickStop)
	})
}

func (c *Collector) collect(ctx context.Context) {
	count, err := c.store.CountWageFacts(ctx)
	if err != nil {
		return
	}
	docs, err := c.store.ListTopicDocuments(ctx, &store.FindTopicDocument{})
	if err != nil {
		return
	}
	topics := make(map[string]bool)
	for _, doc := range docs {
		topics[doc.Topic] = true
	}

	c.mu.Lock()
	c.wageFacts = count
	c.topics = int64(len(topics))
	c.updated = time.Now()
	c.mu.Unlock()
}

// GetStats returns the current statistics.
func (c *Collector) GetStats() *Stats {
	c.mu.Lock()
	wageFacts, topics, updated := c.wageFacts, c.topics, c.updated
	c.mu.Unlock()

	snapshot := c.metrics.Snapshot()
	routes := make(map[string]RouteStats, len(snapshot.RouteMetrics))
	for route, rm := range snapshot.RouteMetrics {
		routes[route] = RouteStats{
			Questions:   rm.RequestCount,
			Errors:      rm.ErrorCount,
			AvgDuration: rm.AverageDuration,
		}
	}

	return &Stats{
		WageFacts:       wageFacts,
		Topics:          topics,
		QuestionsTotal:  snapshot.RequestTotal,
		QuestionsFailed: snapshot.RequestFailed,
		SuccessRate:     snapshot.SuccessRate(),
		Routes:          routes,
		LastUpdated:     updated,
	}
}

// GetSummary returns a human-readable summary for the interactive shell.
func (s *Stats) GetSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage statistics (updated %s)\n\n", s.LastUpdated.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Data\n  Wage facts: %d\n  Topics: %d\n\n", s.WageFacts, s.Topics)
	fmt.Fprintf(&b, "Questions\n  Total: %d\n  Failed: %d\n  Success rate: %.1f%%\n", s.QuestionsTotal, s.QuestionsFailed, s.SuccessRate)

	if len(s.Routes) > 0 {
		routes := make([]string, 0, len(s.Routes))
		for route := range s.Routes {
			routes = append(routes, route)
		}
		sort.Strings(routes)

		b.WriteString("\nRoutes\n")
		for _, route := range routes {
			rs := s.Routes[route]
			fmt.Fprintf(&b, "  %s: %d questions, %d errors, avg %dms\n", route, rs.Questions, rs.Errors, rs.AvgDuration)
		}
	}
	return b.String()
}
