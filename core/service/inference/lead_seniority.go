// Package inference derives the lead attributes that drive message generation:
// seniority tier, best-matching ICP profile, and messaging strategy.
package inference

import (
	"regexp"
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// seniorityRule maps a title pattern to the tier it signals.
type seniorityRule struct {
	pattern   *regexp.Regexp
	seniority domain.Seniority
}

// seniorityRules are evaluated top to bottom; the first match wins. Order is
// the contract: "VP of Engineering" must hit the VP rule before the broader
// manager or senior patterns get a chance.
var seniorityRules = []seniorityRule{
	{regexp.MustCompile(`\b(ceo|cto|cfo|coo|cio|chief|founder|co-founder|owner)\b`), domain.SeniorityCLevel},
	{regexp.MustCompile(`\b(vp|vice\s*president)\b`), domain.SeniorityVP},
	{regexp.MustCompile(`\b(director|head\s+of)\b`), domain.SeniorityDirector},
	{regexp.MustCompile(`\b(manager|lead|team\s*lead|tech\s*lead)\b`), domain.SeniorityManager},
	{regexp.MustCompile(`\b(sr\.?|senior|staff|principal)\b`), domain.SenioritySenior},
	{regexp.MustCompile(`\b(jr\.?|junior|entry|trainee|intern)\b`), domain.SeniorityJunior},
}

// SeniorityClassifier infers a seniority tier from a free-text job title.
type SeniorityClassifier struct{}

// NewSeniorityClassifier creates a new seniority classifier.
func NewSeniorityClassifier() *SeniorityClassifier {
	return &SeniorityClassifier{}
}

// Infer maps a job title to a seniority tier. An empty title yields Unknown;
// a title with no level indicator yields Mid, the industry's most common
// tier. The two differ downstream: Mid still allows peer-level strategies,
// Unknown forces generic fallbacks.
func (c *SeniorityClassifier) Infer(jobTitle string) domain.Seniority {
	title := strings.ToLower(strings.TrimSpace(jobTitle))
	if title == "" {
		return domain.SeniorityUnknown
	}

	for _, rule := range seniorityRules {
		if rule.pattern.MatchString(title) {
			return rule.seniority
		}
	}

	return domain.SeniorityMid
}
