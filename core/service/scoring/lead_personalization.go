package scoring

import (
	"regexp"
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

const (
	personalizationMax   = 3.0
	nameMentionScore     = 1.0
	companyMentionScore  = 1.0
	specificPatternScore = 0.33
)

// yearsPattern matches tenure references like "8 years" or "10+ years".
var yearsPattern = regexp.MustCompile(`\d+\s*(\+\s*)?years?`)

// observationPhrases signal the writer actually looked at the lead's profile.
var observationPhrases = []string{"saw", "noticed", "read", "came across", "congrats"}

// PersonalizationCriterion rewards messages that reference the specific lead
// instead of reading like a template.
type PersonalizationCriterion struct{}

// NewPersonalizationCriterion creates the personalization criterion.
func NewPersonalizationCriterion() *PersonalizationCriterion {
	return &PersonalizationCriterion{}
}

func (c *PersonalizationCriterion) Name() string { return "personalization" }

func (c *PersonalizationCriterion) MaxScore() float64 { return personalizationMax }

// Score awards +1.0 for a first-name mention, +1.0 for a company mention, and
// +0.33 for each specificity signal: a years-of-experience figure, an
// observation phrase, or the lead's role keyword. Capped at the maximum.
func (c *PersonalizationCriterion) Score(content string, lead *domain.Lead) (float64, error) {
	score := 0.0
	contentLower := strings.ToLower(content)

	if lead.FirstName != "" && strings.Contains(contentLower, strings.ToLower(lead.FirstName)) {
		score += nameMentionScore
	}
	if lead.CompanyName != "" && strings.Contains(contentLower, strings.ToLower(lead.CompanyName)) {
		score += companyMentionScore
	}

	if yearsPattern.MatchString(contentLower) {
		score += specificPatternScore
	}
	for _, phrase := range observationPhrases {
		if strings.Contains(contentLower, phrase) {
			score += specificPatternScore
			break
		}
	}
	if keyword := jobTitleKeyword(lead.JobTitle); keyword != "" && strings.Contains(contentLower, keyword) {
		score += specificPatternScore
	}

	if score > personalizationMax {
		score = personalizationMax
	}
	return score, nil
}

// jobTitleKeyword extracts the first word of the job title, the role word a
// personalized message is most likely to echo.
func jobTitleKeyword(jobTitle string) string {
	fields := strings.Fields(jobTitle)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
