package pipeline

import (
	"context"
	"fmt"
)

// ComponentStatus is the outcome of probing one pipeline dependency.
type ComponentStatus struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// CheckComponents probes every dependency the pipeline needs: the store,
// the LLM provider, the knowledge retriever and the routing cascade. It
// always returns one status per component; failures never abort the scan.
func (p *Pipeline) CheckComponents(ctx context.Context) []ComponentStatus {
	var statuses []ComponentStatus

	count, err := p.store.CountWageFacts(ctx)
	if err != nil {
		statuses = append(statuses, ComponentStatus{Name: "store", Detail: err.Error()})
	} else {
		statuses = append(statuses, ComponentStatus{
			Name:   "store",
			OK:     true,
			Detail: fmt.Sprintf("%d wage facts", count),
		})
	}

	if p.llm == nil {
		statuses = append(statuses, ComponentStatus{Name: "llm", Detail: "not configured"})
	} else if err := p.llm.CheckConnection(ctx); err != nil {
		statuses = append(statuses, ComponentStatus{Name: "llm", Detail: err.Error()})
	} else {
		statuses = append(statuses, ComponentStatus{Name: "llm", OK: true, Detail: "reachable"})
	}

	if err := p.retriever.CheckConnection(ctx); err != nil {
		statuses = append(statuses, ComponentStatus{Name: "knowledge", Detail: err.Error()})
	} else {
		topics, err := p.retriever.Topics(ctx)
		detail := "reachable"
		if err == nil {
			detail = fmt.Sprintf("%d topics", len(topics))
		}
		statuses = append(statuses, ComponentStatus{Name: "knowledge", OK: true, Detail: detail})
	}

	if decision, err := p.router.Route(ctx, "What is the minimum wage?"); err != nil {
		statuses = append(statuses, ComponentStatus{Name: "router", Detail: err.Error()})
	} else {
		statuses = append(statuses, ComponentStatus{
			Name:   "router",
			OK:     true,
			Detail: fmt.Sprintf("probe routed to %s (%.2f)", decision.Route, decision.Confidence),
		})
	}

	return statuses
}
