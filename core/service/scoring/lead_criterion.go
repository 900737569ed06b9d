// Package scoring evaluates generated messages against independent quality
// criteria and aggregates the results into a breakdown.
package scoring

import (
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// Criterion is one pluggable quality dimension. Implementations must be pure
// and return a score within [0, MaxScore]; anything outside that range is
// treated by the engine as a defect, not clamped.
type Criterion interface {
	// Name is the key used in the score breakdown. Unique per engine.
	Name() string

	// MaxScore is the most this criterion can award.
	MaxScore() float64

	// Score evaluates the content for one lead.
	Score(content string, lead *domain.Lead) (float64, error)
}
