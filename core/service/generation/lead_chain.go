// Package generation turns an enriched lead into outreach copy. A three step
// prompt chain classifies the buying role, infers pain points and
// personalization hooks, then writes the message; a quality gate scores each
// attempt and regenerates until the score clears the threshold or attempts
// run out.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
)

const (
	classifyTemperature float32 = 0.3
	inferTemperature    float32 = 0.3
	generateTemperature float32 = 0.7
	generateMaxTokens           = 1000
)

// roleTypes enumerates the buying roles step one may return.
var roleTypes = map[string]bool{
	"decision_maker": true,
	"influencer":     true,
	"end_user":       true,
	"gatekeeper":     true,
}

// ChainInput carries everything one generation run needs.
type ChainInput struct {
	Lead      *domain.Lead
	Sender    *domain.Sender
	Playbook  *domain.Playbook
	Seniority domain.Seniority
	ICP       *domain.ICPProfile // nil when no profile matched
	Strategy  domain.MessageStrategy
	Channel   domain.Channel
	Step      domain.SequenceStep
}

// ChainResult is the outcome of a full chain run. TokensUsed accumulates
// across all three steps; Model is whatever the final step ran on.
type ChainResult struct {
	Content    string
	TokensUsed int
	Model      string
}

type leadClassification struct {
	RoleType   string  `json:"role_type"`
	Confidence float64 `json:"confidence"`
}

type inferredContext struct {
	PainPoints    []string `json:"pain_points"`
	Hooks         []string `json:"hooks"`
	TalkingPoints []string `json:"talking_points"`
}

// Chain runs the three step generation pipeline over the LLM port.
type Chain struct {
	llm out.LLM
}

func NewChain(llm out.LLM) *Chain {
	return &Chain{llm: llm}
}

// Run executes classify, infer, and generate in order. Any backend error or
// malformed structured payload aborts the whole chain; no partial result is
// returned.
func (c *Chain) Run(ctx context.Context, input ChainInput) (*ChainResult, error) {
	if input.Lead == nil || input.Sender == nil || input.Playbook == nil {
		return nil, fmt.Errorf("chain: lead, sender, and playbook are required")
	}

	classification, classifyTokens, err := c.classifyLead(ctx, input.Lead, input.Seniority)
	if err != nil {
		return nil, fmt.Errorf("classify lead: %w", err)
	}

	inferred, inferTokens, err := c.inferContext(ctx, input, classification)
	if err != nil {
		return nil, fmt.Errorf("infer context: %w", err)
	}

	content, generateTokens, model, err := c.generateMessage(ctx, input, inferred)
	if err != nil {
		return nil, fmt.Errorf("generate message: %w", err)
	}

	result := &ChainResult{
		Content:    content,
		TokensUsed: classifyTokens + inferTokens + generateTokens,
		Model:      model,
	}

	logger.WithFields(map[string]any{
		"role_type": classification.RoleType,
		"strategy":  string(input.Strategy),
		"tokens":    result.TokensUsed,
	}).Debug("[Chain] Generation chain completed")

	return result, nil
}

func (c *Chain) classifyLead(ctx context.Context, lead *domain.Lead, seniority domain.Seniority) (*leadClassification, int, error) {
	resp, err := c.llm.CompleteJSON(ctx, &out.CompletionRequest{
		Prompt:       buildClassifyPrompt(lead, seniority),
		SystemPrompt: classifyLeadSystem,
		Temperature:  classifyTemperature,
	})
	if err != nil {
		return nil, 0, err
	}

	var classification leadClassification
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &classification); err != nil {
		return nil, 0, fmt.Errorf("parse classification response: %w", err)
	}
	if !roleTypes[classification.RoleType] {
		return nil, 0, fmt.Errorf("unexpected role type %q", classification.RoleType)
	}

	logger.WithFields(map[string]any{
		"role_type":  classification.RoleType,
		"confidence": classification.Confidence,
	}).Debug("[Chain] Lead classified")

	return &classification, resp.TotalTokens(), nil
}

func (c *Chain) inferContext(ctx context.Context, input ChainInput, classification *leadClassification) (*inferredContext, int, error) {
	resp, err := c.llm.CompleteJSON(ctx, &out.CompletionRequest{
		Prompt:       buildInferPrompt(input.Lead, classification.RoleType, input.Playbook, input.ICP, input.Seniority),
		SystemPrompt: inferContextSystem,
		Temperature:  inferTemperature,
	})
	if err != nil {
		return nil, 0, err
	}

	var inferred inferredContext
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &inferred); err != nil {
		return nil, 0, fmt.Errorf("parse context response: %w", err)
	}

	logger.WithFields(map[string]any{
		"pain_points": len(inferred.PainPoints),
		"hooks":       len(inferred.Hooks),
	}).Debug("[Chain] Context inferred")

	return &inferred, resp.TotalTokens(), nil
}

func (c *Chain) generateMessage(ctx context.Context, input ChainInput, inferred *inferredContext) (string, int, string, error) {
	resp, err := c.llm.Complete(ctx, &out.CompletionRequest{
		Prompt:       buildGeneratePrompt(input, inferred),
		SystemPrompt: generateMessageSystem,
		Temperature:  generateTemperature,
		MaxTokens:    generateMaxTokens,
	})
	if err != nil {
		return "", 0, "", err
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", 0, "", fmt.Errorf("model returned empty message content")
	}

	return content, resp.TotalTokens(), resp.Model, nil
}

// stripJSONFences removes the markdown code fence some models wrap around
// structured responses.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
