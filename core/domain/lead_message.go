package domain

import (
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// DefaultQualityThreshold is the score a message must reach to pass the
// quality gate when no explicit threshold is configured.
const DefaultQualityThreshold = 6.0

// ScoreBreakdown holds the per-criterion scores behind a message's total.
type ScoreBreakdown struct {
	Scores map[string]float64 `json:"scores"`
	Total  float64            `json:"total"`
}

// MessageMetadata carries generation diagnostics alongside a message.
type MessageMetadata struct {
	GenerationAttempts int    `json:"generation_attempts"`
	TokensUsed         int    `json:"tokens_used"`
	Model              string `json:"model,omitempty"`
	CacheHit           bool   `json:"cache_hit"`
	StrategyReason     string `json:"strategy_reason,omitempty"`
	ICPMatch           string `json:"icp_match,omitempty"`
	DurationMs         int64  `json:"duration_ms"`
}

// Message is a generated outreach message with its quality score.
type Message struct {
	ID             string          `json:"id"`
	Content        string          `json:"content"`
	Channel        Channel         `json:"channel"`
	Strategy       MessageStrategy `json:"strategy"`
	Step           SequenceStep    `json:"sequence_step"`
	Score          float64         `json:"score"`
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty"`
	Metadata       MessageMetadata `json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewMessage validates and returns a Message, assigning an ID and timestamp
// when absent.
func NewMessage(msg Message) (*Message, error) {
	if strings.TrimSpace(msg.Content) == "" {
		return nil, apperr.Validation("message.content", "cannot be empty")
	}
	if msg.Score < 0 || msg.Score > 10 {
		return nil, apperr.Validation("message.score", "must be between 0 and 10")
	}

	if msg.ID == "" {
		msg.ID = NewMessageID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	return &msg, nil
}

// NewMessageID returns a fresh message identifier, "msg_" plus 12 hex chars.
func NewMessageID() string {
	u := uuid.New()
	return "msg_" + hex.EncodeToString(u[:])[:12]
}

// PassesQualityGate reports whether the score clears the given threshold.
func (m *Message) PassesQualityGate(threshold float64) bool {
	return m.Score >= threshold
}

// WordCount returns the number of whitespace-separated words in the content.
func (m *Message) WordCount() int {
	return len(strings.Fields(m.Content))
}

// CharCount returns the content length in runes, matching how channel limits
// are expressed.
func (m *Message) CharCount() int {
	return utf8.RuneCountInString(m.Content)
}
