package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/adapter/out/llm"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/metrics"
)

// HealthHandler serves liveness and runtime stats endpoints.
type HealthHandler struct {
	version string
	llm     *llm.Adapter
	latency *metrics.LatencyRegistry
}

// NewHealthHandler creates the handler. The LLM adapter and latency registry
// are optional; absent sections are reported as not configured.
func NewHealthHandler(version string, llmAdapter *llm.Adapter, latency *metrics.LatencyRegistry) *HealthHandler {
	return &HealthHandler{
		version: version,
		llm:     llmAdapter,
		latency: latency,
	}
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/stats", h.Stats)
}

// Health reports liveness. It never touches downstream dependencies so it
// stays green while the LLM or cache is having a bad day.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats exposes operation latencies, LLM spend, and circuit breaker state.
func (h *HealthHandler) Stats(c *fiber.Ctx) error {
	stats := fiber.Map{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.latency != nil {
		latencies := make(map[string]map[string]any)
		for operation, s := range h.latency.AllStats() {
			latencies[operation] = s.ToMap()
		}
		stats["latency"] = latencies
	}

	if h.llm != nil {
		stats["llm"] = fiber.Map{
			"model":         h.llm.Model(),
			"circuit_state": h.llm.CircuitState(),
			"costs":         h.llm.CostStats(),
		}
	}

	return c.JSON(stats)
}
