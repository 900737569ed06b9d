// Package http exposes the message pipeline over a fiber REST API.
package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/in"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/response"
)

// MessageHandler serves the message generation endpoints.
type MessageHandler struct {
	svc     in.MessageService
	timeout time.Duration
}

// NewMessageHandler creates the handler. A positive timeout bounds each
// generation request; zero disables the per-request deadline.
func NewMessageHandler(svc in.MessageService, timeout time.Duration) *MessageHandler {
	return &MessageHandler{svc: svc, timeout: timeout}
}

func (h *MessageHandler) Register(app fiber.Router) {
	messages := app.Group("/messages")
	messages.Post("/generate", h.Generate)
}

// GenerateMessageRequest is the wire shape of a generation request. Field
// validation happens in the domain constructors during mapping.
type GenerateMessageRequest struct {
	Lead         domain.Lead     `json:"lead"`
	Sender       domain.Sender   `json:"sender"`
	Playbook     domain.Playbook `json:"playbook"`
	Channel      string          `json:"channel"`
	SequenceStep string          `json:"sequence_step"`
}

// GenerateMessageResponse is the wire shape of a generated message.
type GenerateMessageResponse struct {
	MessageID    string           `json:"message_id"`
	Content      string           `json:"content"`
	Quality      QualityReport    `json:"quality"`
	StrategyUsed string           `json:"strategy_used"`
	Metadata     ResponseMetadata `json:"metadata"`
	CreatedAt    time.Time        `json:"created_at"`
}

// QualityReport carries the score a message earned and whether it cleared
// the configured threshold.
type QualityReport struct {
	Score           float64            `json:"score"`
	Breakdown       map[string]float64 `json:"breakdown,omitempty"`
	PassesThreshold bool               `json:"passes_threshold"`
}

// ResponseMetadata surfaces generation diagnostics to API clients.
type ResponseMetadata struct {
	TokensUsed       int    `json:"tokens_used"`
	GenerationTimeMS int64  `json:"generation_time_ms"`
	ModelUsed        string `json:"model_used,omitempty"`
	Attempts         int    `json:"attempts"`
	CacheHit         bool   `json:"cache_hit"`
}

// Generate runs the full pipeline for one lead.
// POST /messages/generate
func (h *MessageHandler) Generate(c *fiber.Ctx) error {
	var req GenerateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	cmd, err := req.toCommand()
	if err != nil {
		return err
	}

	var ctx context.Context = c.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	msg, err := h.svc.GenerateMessage(ctx, cmd)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperr.Timeout("message generation")
		}
		return err
	}

	return response.OK(c, h.toResponse(msg))
}

// toCommand maps the wire request into a validated service command. Every
// mapping error is already an *apperr.AppError with a 400 status.
func (r *GenerateMessageRequest) toCommand() (*in.GenerateMessageCommand, error) {
	lead, err := domain.NewLead(r.Lead)
	if err != nil {
		return nil, err
	}
	sender, err := domain.NewSender(r.Sender)
	if err != nil {
		return nil, err
	}
	playbook, err := domain.NewPlaybook(r.Playbook)
	if err != nil {
		return nil, err
	}
	channel, err := domain.ParseChannel(r.Channel)
	if err != nil {
		return nil, apperr.InvalidInput("channel", err.Error())
	}
	step, err := domain.ParseSequenceStep(r.SequenceStep)
	if err != nil {
		return nil, apperr.InvalidInput("sequence_step", err.Error())
	}

	return &in.GenerateMessageCommand{
		Lead:     lead,
		Sender:   sender,
		Playbook: playbook,
		Channel:  channel,
		Step:     step,
	}, nil
}

func (h *MessageHandler) toResponse(msg *domain.Message) GenerateMessageResponse {
	var breakdown map[string]float64
	if msg.ScoreBreakdown != nil {
		breakdown = msg.ScoreBreakdown.Scores
	}

	return GenerateMessageResponse{
		MessageID: msg.ID,
		Content:   msg.Content,
		Quality: QualityReport{
			Score:           msg.Score,
			Breakdown:       breakdown,
			PassesThreshold: msg.PassesQualityGate(h.svc.Threshold()),
		},
		StrategyUsed: string(msg.Strategy),
		Metadata: ResponseMetadata{
			TokensUsed:       msg.Metadata.TokensUsed,
			GenerationTimeMS: msg.Metadata.DurationMs,
			ModelUsed:        msg.Metadata.Model,
			Attempts:         msg.Metadata.GenerationAttempts,
			CacheHit:         msg.Metadata.CacheHit,
		},
		CreatedAt: msg.CreatedAt,
	}
}
