package domain

import (
	"fmt"
	"strings"
)

// Seniority is the decision-making tier inferred from a lead's job title.
// Ordered from most to least decision authority; Unknown is the fallback.
type Seniority string

const (
	SeniorityCLevel   Seniority = "C_LEVEL"
	SeniorityVP       Seniority = "VP"
	SeniorityDirector Seniority = "DIRECTOR"
	SeniorityManager  Seniority = "MANAGER"
	SenioritySenior   Seniority = "SENIOR"
	SeniorityMid      Seniority = "MID"
	SeniorityJunior   Seniority = "JUNIOR"
	SeniorityUnknown  Seniority = "UNKNOWN"
)

// IsDecisionMaker reports whether this tier carries purchase authority.
func (s Seniority) IsDecisionMaker() bool {
	return s == SeniorityCLevel || s == SeniorityVP || s == SeniorityDirector
}

// IsTechnical reports whether this tier is typically an individual contributor.
func (s Seniority) IsTechnical() bool {
	return s == SenioritySenior || s == SeniorityMid || s == SeniorityJunior
}

// MessageStrategy is the messaging approach used for one outreach message.
type MessageStrategy string

const (
	StrategyTechnicalPeer    MessageStrategy = "technical_peer"
	StrategyBusinessValue    MessageStrategy = "business_value"
	StrategyProblemSolution  MessageStrategy = "problem_solution"
	StrategySocialProof      MessageStrategy = "social_proof"
	StrategyCuriosityHook    MessageStrategy = "curiosity_hook"
	StrategyMutualConnection MessageStrategy = "mutual_connection"
)

// Description returns prompt guidance for the strategy.
func (m MessageStrategy) Description() string {
	switch m {
	case StrategyTechnicalPeer:
		return "Talk as a technical peer, use sector jargon"
	case StrategyBusinessValue:
		return "Focus on ROI and business metrics"
	case StrategyProblemSolution:
		return "Attack a specific pain point directly"
	case StrategySocialProof:
		return "Use success cases and testimonials"
	case StrategyCuriosityHook:
		return "Spark curiosity with a question"
	case StrategyMutualConnection:
		return "Mention shared connections or common context"
	default:
		return ""
	}
}

// SequenceStep is the position of a message within an outreach cadence.
type SequenceStep string

const (
	StepFirstContact SequenceStep = "first_contact"
	StepFollowUp1    SequenceStep = "follow_up_1"
	StepFollowUp2    SequenceStep = "follow_up_2"
	StepBreakup      SequenceStep = "breakup"
)

// MessageTone returns the suggested tone for the step.
func (s SequenceStep) MessageTone() string {
	switch s {
	case StepFirstContact:
		return "introductory and curious"
	case StepFollowUp1:
		return "friendly reminder"
	case StepFollowUp2:
		return "additional value"
	case StepBreakup:
		return "last chance, no pressure"
	default:
		return "professional"
	}
}

// UrgencyLevel returns the urgency of the step on a 1-4 scale.
func (s SequenceStep) UrgencyLevel() int {
	switch s {
	case StepFirstContact:
		return 1
	case StepFollowUp1:
		return 2
	case StepFollowUp2:
		return 3
	case StepBreakup:
		return 4
	default:
		return 1
	}
}

// Channel is the delivery channel for an outreach message.
type Channel string

const (
	ChannelLinkedIn Channel = "linkedin"
	ChannelEmail    Channel = "email"
)

// MaxLength returns the recommended maximum character length per channel.
func (c Channel) MaxLength() int {
	switch c {
	case ChannelLinkedIn:
		return 300
	case ChannelEmail:
		return 500
	default:
		return 300
	}
}

// RequiresSubject reports whether the channel requires a subject line.
func (c Channel) RequiresSubject() bool {
	return c == ChannelEmail
}

// ParseChannel validates and converts a raw channel value.
func ParseChannel(s string) (Channel, error) {
	normalized := Channel(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case ChannelLinkedIn, ChannelEmail:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown channel %q", s)
	}
}

// ParseSequenceStep validates and converts a raw sequence step value.
func ParseSequenceStep(s string) (SequenceStep, error) {
	normalized := SequenceStep(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case StepFirstContact, StepFollowUp1, StepFollowUp2, StepBreakup:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown sequence step %q", s)
	}
}
