package scoring

import (
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

const (
	structureMax   = 2.0
	greetingScore  = 0.5
	valuePropScore = 0.75
	ctaScore       = 0.75

	// greetingWindow is how far into the message the lead's name must appear
	// for the greeting to count as addressed to them.
	greetingWindow = 40
)

// greetingPrefixes open a well-formed outreach message.
var greetingPrefixes = []string{"hi", "hey", "hello", "dear"}

// valueKeywords signal the message states what the sender can do for the lead.
var valueKeywords = []string{"help", "improve", "reduce", "save", "grow", "boost", "increase", "cut"}

// ctaKeywords signal a concrete next step.
var ctaKeywords = []string{"call", "chat", "meet", "connect", "thoughts", "interested", "open to"}

// StructureCriterion rewards messages that move greeting → value → ask.
type StructureCriterion struct{}

// NewStructureCriterion creates the structure criterion.
func NewStructureCriterion() *StructureCriterion {
	return &StructureCriterion{}
}

func (c *StructureCriterion) Name() string { return "structure" }

func (c *StructureCriterion) MaxScore() float64 { return structureMax }

// Score awards +0.5 for a personal greeting (a greeting prefix with the
// lead's first name in the opening), +0.75 for a value statement, and +0.75
// for a clear call to action.
func (c *StructureCriterion) Score(content string, lead *domain.Lead) (float64, error) {
	score := 0.0
	contentLower := strings.ToLower(content)

	if hasPersonalGreeting(contentLower, lead.FirstName) {
		score += greetingScore
	}
	if containsAny(contentLower, valueKeywords) {
		score += valuePropScore
	}
	if strings.Contains(contentLower, "?") || containsAny(contentLower, ctaKeywords) {
		score += ctaScore
	}

	if score > structureMax {
		score = structureMax
	}
	return score, nil
}

// hasPersonalGreeting reports whether the message opens with a greeting
// prefix and names the lead within the greeting window.
func hasPersonalGreeting(contentLower, firstName string) bool {
	opensWithGreeting := false
	for _, prefix := range greetingPrefixes {
		if strings.HasPrefix(contentLower, prefix) {
			opensWithGreeting = true
			break
		}
	}
	if !opensWithGreeting || firstName == "" {
		return false
	}

	window := contentLower
	if len(window) > greetingWindow {
		window = window[:greetingWindow]
	}
	return strings.Contains(window, strings.ToLower(firstName))
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
