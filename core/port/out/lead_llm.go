package out

import "context"

// LLM defines the outbound port for text generation.
type LLM interface {
	// Complete runs a free-form completion.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// CompleteJSON runs a completion constrained to emit a JSON object.
	CompleteJSON(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// CountTokens estimates the token length of a text without calling the model.
	CountTokens(text string) int
}

// CompletionRequest carries one prompt to the model. Zero Temperature and
// MaxTokens fall back to the adapter's configured defaults.
type CompletionRequest struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float32 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// CompletionResponse is the model's answer plus usage accounting.
type CompletionResponse struct {
	Content        string `json:"content"`
	PromptTokens   int    `json:"prompt_tokens"`
	ResponseTokens int    `json:"response_tokens"`
	Model          string `json:"model"`
}

// TotalTokens returns prompt plus response tokens.
func (r *CompletionResponse) TotalTokens() int {
	return r.PromptTokens + r.ResponseTokens
}
