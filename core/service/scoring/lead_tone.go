package scoring

import (
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

const (
	toneMax          = 2.0
	toneBase         = 1.0
	lengthBonus      = 0.5
	toneBalanceBonus = 0.5

	minWordCount = 30
	maxWordCount = 120
)

// formalMarkers read as stiff letter-writing, wrong for outreach.
var formalMarkers = []string{"to whom it may concern", "dear sir", "yours faithfully", "esteemed"}

// slangMarkers read as too casual for a first professional touch.
var slangMarkers = []string{"lol", "omg", "btw", "gonna", "wanna"}

// ToneCriterion rewards a professional-but-approachable register and
// channel-appropriate brevity.
type ToneCriterion struct{}

// NewToneCriterion creates the tone criterion.
func NewToneCriterion() *ToneCriterion {
	return &ToneCriterion{}
}

func (c *ToneCriterion) Name() string { return "tone" }

func (c *ToneCriterion) MaxScore() float64 { return toneMax }

// Score starts from the base, adds a bonus for a word count inside the
// optimal band, and another for avoiding both stiff-formal and slang markers.
func (c *ToneCriterion) Score(content string, lead *domain.Lead) (float64, error) {
	score := toneBase

	words := len(strings.Fields(content))
	if words >= minWordCount && words <= maxWordCount {
		score += lengthBonus
	}

	contentLower := strings.ToLower(content)
	if !containsAny(contentLower, formalMarkers) && !containsAny(contentLower, slangMarkers) {
		score += toneBalanceBonus
	}

	if score > toneMax {
		score = toneMax
	}
	return score, nil
}
