package in

import (
	"context"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// MessageService is the inbound port for generating outreach messages.
type MessageService interface {
	// GenerateMessage runs the full pipeline for one lead: seniority
	// classification, ICP matching, strategy selection, generation, and the
	// quality gate. The returned message carries its score breakdown and
	// generation metadata.
	GenerateMessage(ctx context.Context, cmd *GenerateMessageCommand) (*domain.Message, error)

	// Threshold returns the quality score a message must reach to pass the
	// gate. Adapters use it to report pass or fail alongside a score.
	Threshold() float64
}

// GenerateMessageCommand bundles everything one generation needs.
type GenerateMessageCommand struct {
	Lead     *domain.Lead        `json:"lead"`
	Sender   *domain.Sender      `json:"sender"`
	Playbook *domain.Playbook    `json:"playbook"`
	Channel  domain.Channel      `json:"channel"`
	Step     domain.SequenceStep `json:"sequence_step"`
}
