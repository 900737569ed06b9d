package inference

import (
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// StrategySelector picks the messaging strategy for one generation from the
// lead's context. Purely rule-driven; identical inputs always yield the same
// strategy.
type StrategySelector struct{}

// NewStrategySelector creates a new strategy selector.
func NewStrategySelector() *StrategySelector {
	return &StrategySelector{}
}

// Select applies the decision rules in priority order and returns the chosen
// strategy with a short human-readable reason.
//
//  1. Breakup step always closes with a curiosity hook.
//  2. A lead whose last response was positive gets social proof.
//  3. On a cold first contact, a shared past employer gets the
//     mutual-connection angle.
//  4. Seniority default: decision makers get business value, technical tiers
//     (or a technical ICP match) get peer framing, the rest get a direct
//     pain-point approach.
func (s *StrategySelector) Select(
	lead *domain.Lead,
	sender *domain.Sender,
	icp *domain.ICPProfile,
	seniority domain.Seniority,
	channel domain.Channel,
	step domain.SequenceStep,
) (domain.MessageStrategy, string) {
	if step == domain.StepBreakup {
		return domain.StrategyCuriosityHook, "breakup step uses last-chance curiosity framing"
	}

	if lead.HasPreviousContact() && lead.CampaignHistory.IsPositiveSentiment() {
		return domain.StrategySocialProof, "prior contact responded positively"
	}

	if step == domain.StepFirstContact && !lead.HasPreviousContact() && sender != nil {
		if shared := sender.SharedEmployers(lead); len(shared) > 0 {
			return domain.StrategyMutualConnection, "shared past employer: " + shared[0]
		}
	}

	return s.seniorityDefault(seniority, icp)
}

// seniorityDefault maps a seniority tier (and the matched ICP, when it
// signals a technical audience) to the fallback strategy.
func (s *StrategySelector) seniorityDefault(seniority domain.Seniority, icp *domain.ICPProfile) (domain.MessageStrategy, string) {
	switch {
	case seniority.IsDecisionMaker():
		return domain.StrategyBusinessValue, "decision-maker tier " + string(seniority)
	case seniority.IsTechnical():
		return domain.StrategyTechnicalPeer, "technical tier " + string(seniority)
	case icp != nil && icp.IsTechnical():
		return domain.StrategyTechnicalPeer, "matched technical ICP " + icp.Name
	default:
		return domain.StrategyProblemSolution, "default for tier " + string(seniority)
	}
}
