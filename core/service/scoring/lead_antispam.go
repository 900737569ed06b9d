package scoring

import (
	"strings"
	"unicode"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

const (
	antiSpamMax     = 3.0
	penaltyPerHit   = 0.5
	allCapsMinRunes = 4
)

// spamPhrases are the trigger phrases that make a cold message read like
// bulk mail. Policy list, adjustable.
var spamPhrases = []string{
	"free",
	"guarantee",
	"act now",
	"limited time",
	"click here",
	"buy now",
	"100%",
	"no obligation",
	"once in a lifetime",
	"risk-free",
}

// AntiSpamCriterion penalizes spam markers. Clean messages keep the full
// score; each hit costs half a point down to a floor of zero.
type AntiSpamCriterion struct{}

// NewAntiSpamCriterion creates the anti-spam criterion.
func NewAntiSpamCriterion() *AntiSpamCriterion {
	return &AntiSpamCriterion{}
}

func (c *AntiSpamCriterion) Name() string { return "anti_spam" }

func (c *AntiSpamCriterion) MaxScore() float64 { return antiSpamMax }

// Score starts at the maximum and deducts one penalty per spam phrase found,
// plus one each for more than one exclamation mark, any shouted all-caps
// word, and more than one question mark.
func (c *AntiSpamCriterion) Score(content string, lead *domain.Lead) (float64, error) {
	penalty := 0.0
	contentLower := strings.ToLower(content)

	for _, phrase := range spamPhrases {
		if strings.Contains(contentLower, phrase) {
			penalty += penaltyPerHit
		}
	}

	if strings.Count(content, "!") > 1 {
		penalty += penaltyPerHit
	}
	if hasShoutedWord(content) {
		penalty += penaltyPerHit
	}
	if strings.Count(content, "?") > 1 {
		penalty += penaltyPerHit
	}

	score := antiSpamMax - penalty
	if score < 0 {
		score = 0
	}
	return score, nil
}

// DetectedSpamPhrases lists which trigger phrases appear in the content.
func (c *AntiSpamCriterion) DetectedSpamPhrases(content string) []string {
	contentLower := strings.ToLower(content)
	var detected []string
	for _, phrase := range spamPhrases {
		if strings.Contains(contentLower, phrase) {
			detected = append(detected, phrase)
		}
	}
	return detected
}

// hasShoutedWord reports whether the content contains an all-uppercase word
// of at least allCapsMinRunes letters.
func hasShoutedWord(content string) bool {
	for _, word := range strings.Fields(content) {
		letters := 0
		shouted := true
		for _, r := range word {
			if !unicode.IsLetter(r) {
				continue
			}
			letters++
			if !unicode.IsUpper(r) {
				shouted = false
				break
			}
		}
		if shouted && letters >= allCapsMinRunes {
			return true
		}
	}
	return false
}
