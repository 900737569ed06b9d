// Package llm adapts the OpenAI chat completion API to the out.LLM port.
// Every call runs behind a circuit breaker so a struggling backend fails
// fast, and a cost tracker accumulates spend for the stats endpoint.
package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
)

const (
	DefaultModel = "gpt-4o-mini"

	defaultMaxTokens           = 1000
	defaultTemperature float32 = 0.7

	// Rough chars-per-token ratio for pre-flight estimates; the API reports
	// real usage after the fact.
	charsPerToken = 4
)

// Config carries the adapter settings. Zero values fall back to defaults;
// only the API key is required.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Adapter implements out.LLM on top of the OpenAI chat completion API.
type Adapter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	cb          *gobreaker.CircuitBreaker
	costs       *CostTracker
}

var _ out.LLM = (*Adapter)(nil)

func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, apperr.ConfigError("llm adapter requires an API key")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	cbSettings := gobreaker.Settings{
		Name:        "openai-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("[OpenAIAdapter] Circuit breaker state changed")
		},
	}

	return &Adapter{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
		costs:       NewCostTracker(),
	}, nil
}

// Complete runs a free-form chat completion.
func (a *Adapter) Complete(ctx context.Context, req *out.CompletionRequest) (*out.CompletionResponse, error) {
	return a.complete(ctx, req, nil)
}

// CompleteJSON runs a completion in JSON mode, so the model is constrained to
// return a single JSON object.
func (a *Adapter) CompleteJSON(ctx context.Context, req *out.CompletionRequest) (*out.CompletionResponse, error) {
	return a.complete(ctx, req, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (a *Adapter) complete(ctx context.Context, req *out.CompletionRequest, format *openai.ChatCompletionResponseFormat) (*out.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	temperature := req.Temperature
	if temperature == 0 {
		temperature = a.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}

	var resp openai.ChatCompletionResponse
	err := a.executeWithCircuitBreaker("ChatCompletion", func() error {
		var callErr error
		resp, callErr = a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:          a.model,
			Messages:       messages,
			Temperature:    temperature,
			MaxTokens:      maxTokens,
			ResponseFormat: format,
		})
		return callErr
	})
	if err != nil {
		return nil, apperr.LLMError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.LLMError(errors.New("completion returned no choices"))
	}

	cost := a.costs.Track(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	logger.WithFields(map[string]any{
		"model":             resp.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"cost_usd":          cost,
	}).Debug("[OpenAIAdapter] Completion finished")

	return &out.CompletionResponse{
		Content:        resp.Choices[0].Message.Content,
		PromptTokens:   resp.Usage.PromptTokens,
		ResponseTokens: resp.Usage.CompletionTokens,
		Model:          resp.Model,
	}, nil
}

// CountTokens estimates the token count of text at roughly four characters
// per token.
func (a *Adapter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	count := len(text) / charsPerToken
	if count == 0 {
		return 1
	}
	return count
}

// Model returns the configured model name.
func (a *Adapter) Model() string {
	return a.model
}

// CircuitState returns the breaker state for monitoring.
func (a *Adapter) CircuitState() string {
	return a.cb.State().String()
}

// CostStats returns accumulated spend for the stats endpoint.
func (a *Adapter) CostStats() CostStats {
	return a.costs.Stats()
}

func (a *Adapter) executeWithCircuitBreaker(operation string, fn func() error) error {
	_, err := a.cb.Execute(func() (interface{}, error) {
		if err := fn(); err != nil {
			if !shouldTrip(err) {
				return nil, &nonCircuitError{err: err}
			}
			return nil, err
		}
		return nil, nil
	})

	if nce, ok := err.(*nonCircuitError); ok {
		return nce.err
	}
	if err != nil {
		logger.WithFields(map[string]any{
			"operation": operation,
			"state":     a.cb.State().String(),
			"error":     err.Error(),
		}).Warn("[OpenAIAdapter] Request failed")
	}
	return err
}

// shouldTrip reports whether an error counts against the circuit breaker.
// Caller-side mistakes and cancelled contexts must not open the circuit;
// rate limits and server errors must.
func shouldTrip(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 400, 401, 403, 404:
			return false
		}
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// nonCircuitError wraps errors that should not trip the circuit breaker.
type nonCircuitError struct {
	err error
}

func (e *nonCircuitError) Error() string {
	return e.err.Error()
}
