package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/scoring"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
)

const defaultMaxAttempts = 3

// GateConfig tunes the retry loop around the generation chain. Zero values
// fall back to the defaults (threshold 6.0, 3 attempts).
type GateConfig struct {
	Threshold   float64
	MaxAttempts int
}

// GateResult pairs the accepted message with the attempts it took. The
// message score may sit below the threshold when every attempt missed; the
// caller sees the honest number either way.
type GateResult struct {
	Message  *domain.Message
	Attempts int
}

// QualityGate regenerates messages until one clears the scoring threshold or
// attempts run out.
type QualityGate struct {
	chain       *Chain
	engine      *scoring.Engine
	threshold   float64
	maxAttempts int
}

func NewQualityGate(chain *Chain, engine *scoring.Engine, cfg GateConfig) (*QualityGate, error) {
	if cfg.Threshold == 0 {
		cfg.Threshold = domain.DefaultQualityThreshold
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Threshold < 0 || cfg.Threshold > engine.MaxPossible() {
		return nil, fmt.Errorf("quality gate: threshold %.2f outside [0, %.2f]", cfg.Threshold, engine.MaxPossible())
	}
	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("quality gate: max attempts must be positive, got %d", cfg.MaxAttempts)
	}

	return &QualityGate{
		chain:       chain,
		engine:      engine,
		threshold:   cfg.Threshold,
		maxAttempts: cfg.MaxAttempts,
	}, nil
}

// Threshold returns the configured passing score.
func (g *QualityGate) Threshold() float64 {
	return g.threshold
}

// Generate runs the chain and scores the result, regenerating below-threshold
// attempts up to the configured maximum.
//
// Chain failures count as spent attempts and are retried; scoring failures
// abort immediately since rescoring the same content cannot change the
// outcome. When attempts run out the best scoring message is returned with
// its true sub-threshold score. The terminal error cases are: context
// cancellation, every attempt failing in the chain, and every attempt scoring
// zero.
func (g *QualityGate) Generate(ctx context.Context, input ChainInput) (*GateResult, error) {
	var (
		best      *domain.Message
		bestScore float64
		lastErr   error
	)

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		result, err := g.chain.Run(ctx, input)
		if err != nil {
			lastErr = err
			logger.WithFields(map[string]any{
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("[QualityGate] Chain attempt failed")
			continue
		}

		breakdown, err := g.engine.Score(result.Content, input.Lead)
		if err != nil {
			return nil, err
		}

		message, err := g.buildMessage(input, result, breakdown, attempt, time.Since(started))
		if err != nil {
			return nil, err
		}

		if message.PassesQualityGate(g.threshold) {
			logger.WithFields(map[string]any{
				"attempt": attempt,
				"score":   message.Score,
			}).Info("[QualityGate] Message passed quality gate")
			return &GateResult{Message: message, Attempts: attempt}, nil
		}

		logger.WithFields(map[string]any{
			"attempt":   attempt,
			"score":     breakdown.Total,
			"threshold": g.threshold,
		}).Warn("[QualityGate] Score below threshold")

		if message.Score > bestScore {
			best = message
			bestScore = message.Score
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if best != nil {
		best.Metadata.GenerationAttempts = g.maxAttempts
		logger.WithFields(map[string]any{
			"attempts": g.maxAttempts,
			"score":    bestScore,
		}).Warn("[QualityGate] Returning best effort message below threshold")
		return &GateResult{Message: best, Attempts: g.maxAttempts}, nil
	}

	if lastErr != nil {
		return nil, apperr.GenerationFailed(g.maxAttempts, lastErr)
	}
	return nil, apperr.QualityThresholdNotMet(bestScore, g.threshold)
}

func (g *QualityGate) buildMessage(input ChainInput, result *ChainResult, breakdown *domain.ScoreBreakdown, attempt int, elapsed time.Duration) (*domain.Message, error) {
	return domain.NewMessage(domain.Message{
		Content:        result.Content,
		Channel:        input.Channel,
		Strategy:       input.Strategy,
		Step:           input.Step,
		Score:          breakdown.Total,
		ScoreBreakdown: breakdown,
		Metadata: domain.MessageMetadata{
			GenerationAttempts: attempt,
			TokensUsed:         result.TokensUsed,
			Model:              result.Model,
			DurationMs:         elapsed.Milliseconds(),
		},
	})
}
