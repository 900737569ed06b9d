package bootstrap

import (
	"time"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/adapter/out/cache"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/adapter/out/llm"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/config"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/generation"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/inference"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/message"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/scoring"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/metrics"
)

// latencyWindow is the number of samples each operation keeps for percentile
// stats on the stats endpoint.
const latencyWindow = 256

// Dependencies wires every adapter and service the API needs.
type Dependencies struct {
	Config *config.Config

	// Redis is non-nil only when a Redis URL was configured and reachable.
	Redis *cache.RedisCache
	Cache out.Cache
	LLM   *llm.Adapter

	Latency *metrics.LatencyRegistry

	ScoringEngine  *scoring.Engine
	Chain          *generation.Chain
	QualityGate    *generation.QualityGate
	MessageService *message.Service
}

// NewDependencies builds the full dependency graph. The returned cleanup
// releases resources in reverse construction order.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Cache: Redis when configured, in-memory otherwise. A failed Redis
	// connection degrades to memory so generation keeps working.
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("[Bootstrap] Redis connection failed, falling back to in-memory cache")
			deps.Cache = cache.NewMemoryCache()
		} else {
			deps.Redis = redisCache
			deps.Cache = redisCache
			cleanups = append(cleanups, func() { redisCache.Close() })
		}
	} else {
		logger.Info("[Bootstrap] No Redis URL configured, using in-memory cache")
		deps.Cache = cache.NewMemoryCache()
	}

	// LLM adapter. The API key is required, so this failure is fatal.
	llmAdapter, err := llm.NewAdapter(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: float32(cfg.LLMTemperature),
	})
	if err != nil {
		runCleanups(cleanups)
		return nil, nil, err
	}
	deps.LLM = llmAdapter

	deps.Latency = metrics.NewLatencyRegistry(latencyWindow)

	deps.ScoringEngine = scoring.NewDefaultEngine()
	deps.Chain = generation.NewChain(llmAdapter)

	gate, err := generation.NewQualityGate(deps.Chain, deps.ScoringEngine, generation.GateConfig{
		Threshold:   cfg.QualityThreshold,
		MaxAttempts: cfg.MaxGenerationAttempts,
	})
	if err != nil {
		runCleanups(cleanups)
		return nil, nil, err
	}
	deps.QualityGate = gate

	deps.MessageService = message.NewService(
		inference.NewSeniorityClassifier(),
		inference.NewICPMatcher(),
		inference.NewStrategySelector(),
		gate,
		deps.Cache,
		deps.Latency,
		message.Config{
			CacheTTL:            time.Duration(cfg.CacheTTLSec) * time.Second,
			CacheBelowThreshold: cfg.CacheBelowThreshold,
		},
	)

	cleanup := func() { runCleanups(cleanups) }
	return deps, cleanup, nil
}

func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
