package scoring

import (
	"fmt"
	"math"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// Engine runs an ordered set of criteria over generated content and sums the
// results. Criteria are independent; the engine only enforces the bounds
// contract and never hides a failing criterion behind a zero.
type Engine struct {
	criteria []Criterion
}

// NewEngine builds an engine over the given criteria, in order. Duplicate
// criterion names are rejected since the breakdown is keyed by name.
func NewEngine(criteria ...Criterion) (*Engine, error) {
	seen := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		if _, dup := seen[c.Name()]; dup {
			return nil, fmt.Errorf("scoring: duplicate criterion %q", c.Name())
		}
		seen[c.Name()] = struct{}{}
	}
	return &Engine{criteria: criteria}, nil
}

// NewDefaultEngine builds the standard four-criterion engine totaling 10.0:
// personalization 3.0, anti-spam 3.0, structure 2.0, tone 2.0.
func NewDefaultEngine() *Engine {
	engine, err := NewEngine(
		NewPersonalizationCriterion(),
		NewAntiSpamCriterion(),
		NewStructureCriterion(),
		NewToneCriterion(),
	)
	if err != nil {
		// unreachable: default criteria carry unique names
		panic(err)
	}
	return engine
}

// Score evaluates every criterion and returns the per-criterion breakdown
// and total. A criterion error, a NaN, or an out-of-range score aborts with
// a hard error; failures are never coerced to a zero score.
func (e *Engine) Score(content string, lead *domain.Lead) (*domain.ScoreBreakdown, error) {
	breakdown := &domain.ScoreBreakdown{
		Scores: make(map[string]float64, len(e.criteria)),
	}

	for _, criterion := range e.criteria {
		score, err := criterion.Score(content, lead)
		if err != nil {
			return nil, apperr.ScoringError(criterion.Name(), err)
		}
		if math.IsNaN(score) || score < 0 || score > criterion.MaxScore() {
			return nil, apperr.ScoringError(criterion.Name(),
				fmt.Errorf("score %v outside [0, %v]", score, criterion.MaxScore()))
		}
		breakdown.Scores[criterion.Name()] = score
		breakdown.Total += score
	}

	return breakdown, nil
}

// MaxPossible returns the sum of all criterion maxima.
func (e *Engine) MaxPossible() float64 {
	total := 0.0
	for _, criterion := range e.criteria {
		total += criterion.MaxScore()
	}
	return total
}

// Criteria returns the registered criterion names in evaluation order.
func (e *Engine) Criteria() []string {
	names := make([]string, len(e.criteria))
	for i, criterion := range e.criteria {
		names[i] = criterion.Name()
	}
	return names
}
