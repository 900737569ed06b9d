package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// stubCriterion returns a fixed score or error, for engine contract tests.
type stubCriterion struct {
	name string
	max  float64
	out  float64
	err  error
}

func (s *stubCriterion) Name() string      { return s.name }
func (s *stubCriterion) MaxScore() float64 { return s.max }
func (s *stubCriterion) Score(content string, lead *domain.Lead) (float64, error) {
	return s.out, s.err
}

func TestNewEngineRejectsDuplicateNames(t *testing.T) {
	_, err := NewEngine(
		&stubCriterion{name: "personalization", max: 3},
		&stubCriterion{name: "personalization", max: 2},
	)
	if err == nil {
		t.Fatalf("NewEngine() accepted duplicate criterion names")
	}
}

func TestEngineScoreSumsCriteria(t *testing.T) {
	engine, err := NewEngine(
		&stubCriterion{name: "a", max: 3, out: 2.5},
		&stubCriterion{name: "b", max: 2, out: 1.0},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	breakdown, err := engine.Score("content", scoringLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(breakdown.Total, 3.5) {
		t.Errorf("Total = %v, want 3.5", breakdown.Total)
	}
	if !almostEqual(breakdown.Scores["a"], 2.5) || !almostEqual(breakdown.Scores["b"], 1.0) {
		t.Errorf("Scores = %v, want a=2.5 b=1.0", breakdown.Scores)
	}
}

func TestEngineScoreCriterionErrorIsHard(t *testing.T) {
	boom := errors.New("cannot evaluate")
	engine, err := NewEngine(
		&stubCriterion{name: "a", max: 3, out: 2.5},
		&stubCriterion{name: "b", max: 2, err: boom},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := engine.Score("content", scoringLead); err == nil {
		t.Fatalf("Score() swallowed a criterion error")
	}
}

func TestEngineScoreRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		out  float64
	}{
		{name: "above max", out: 2.5},
		{name: "negative", out: -0.1},
		{name: "nan", out: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(&stubCriterion{name: "a", max: 2, out: tt.out})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := engine.Score("content", scoringLead); err == nil {
				t.Errorf("Score() accepted out-of-range value %v", tt.out)
			}
		})
	}
}

func TestDefaultEngine(t *testing.T) {
	engine := NewDefaultEngine()

	if got := engine.MaxPossible(); !almostEqual(got, 10.0) {
		t.Errorf("MaxPossible() = %v, want 10.0", got)
	}

	want := []string{"personalization", "anti_spam", "structure", "tone"}
	got := engine.Criteria()
	if len(got) != len(want) {
		t.Fatalf("Criteria() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Criteria()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestDefaultEngineEndToEnd scores a well-formed message and verifies the
// total equals the sum of the breakdown entries.
func TestDefaultEngineEndToEnd(t *testing.T) {
	engine := NewDefaultEngine()

	content := "Hi Maria, congrats on 5 years leading TechCorp. We help platform teams " +
		"reduce deploy friction without adding headcount, and your setup sounds like " +
		"the kind we do best with. Open to a short chat next week?"

	breakdown, err := engine.Score(content, scoringLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := 0.0
	for _, v := range breakdown.Scores {
		sum += v
	}
	if !almostEqual(sum, breakdown.Total) {
		t.Errorf("Total = %v, sum of parts = %v", breakdown.Total, sum)
	}
	if breakdown.Total <= 6.0 {
		t.Errorf("Total = %v for a well-formed message, want > 6.0", breakdown.Total)
	}
	if len(breakdown.Scores) != 4 {
		t.Errorf("Scores has %d entries, want 4", len(breakdown.Scores))
	}
}
