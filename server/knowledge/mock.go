package knowledge

import (
	"context"
	"fmt"
	"sort"
)

// MockRetriever serves canned topic answers. It backs the default demo
// profile and tests, so the pipeline can be exercised without a populated
// knowledge store.
type MockRetriever struct {
	answers map[string]string
}

func NewMockRetriever() *MockRetriever {
	return &MockRetriever{
		answers: map[string]string{
			"Agricultural Employment":    "Agricultural workers are often covered by separate minimum wage provisions. Federal law exempts small farms, while several states phase farm workers into the standard minimum wage.",
			"Minimum Paid Rest Periods":  "A number of states require paid rest periods, typically 10 minutes for every 4 hours worked. Federal law does not mandate breaks but treats short breaks as paid time when offered.",
			"Payday Requirements":        "States regulate pay frequency. Common schedules are weekly, biweekly, semimonthly and monthly, with many states requiring at least semimonthly paydays.",
			"Prevailing Wages":           "Prevailing wage laws set minimum rates on public works contracts. The federal Davis-Bacon Act applies to federal construction contracts over $2,000.",
			"Minimum Wage Laws":          "Minimum wage laws set the lowest hourly rate employers may pay. The federal floor is $7.25; most states set higher rates and many adjust them annually.",
			"Tipped Employees":           "Tipped employees may be paid a lower cash wage if tips bring total pay up to the standard minimum. The federal tipped cash minimum is $2.13 per hour.",
			"Overtime Pay":               "Non-exempt employees are generally entitled to 1.5 times their regular rate for hours over 40 per week under the FLSA; some states add daily overtime rules.",
			"Child Labor Provisions":     "Child labor provisions restrict the hours and occupations of workers under 18, with tighter limits during school weeks for minors under 16.",
		},
	}
}

func (r *MockRetriever) Query(_ context.Context, question string, topic string, _ string) (string, error) {
	if answer, ok := r.answers[topic]; ok {
		return answer, nil
	}
	if question == "" {
		return "", ErrNoKnowledge
	}
	return fmt.Sprintf("General labor law guidance: wage and hour rules vary by state. (mock response for: %s)", question), nil
}

func (r *MockRetriever) Topics(_ context.Context) ([]string, error) {
	topics := make([]string, 0, len(r.answers))
	for topic := range r.answers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

func (r *MockRetriever) CheckConnection(_ context.Context) error {
	return nil
}
