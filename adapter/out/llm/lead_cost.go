package llm

import (
	"sync"
	"time"
)

var modelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"gpt-4o-mini": {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4o":      {InputPer1M: 5.00, OutputPer1M: 15.00},
}

// CalculateCost estimates the dollar cost of a completion. Unknown models
// cost zero rather than guessing.
func CalculateCost(model string, promptTokens, completionTokens int) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}

	inputCost := float64(promptTokens) / 1_000_000 * pricing.InputPer1M
	outputCost := float64(completionTokens) / 1_000_000 * pricing.OutputPer1M

	return inputCost + outputCost
}

// CostTracker accumulates API spend across requests.
type CostTracker struct {
	mu           sync.RWMutex
	totalCost    float64
	totalTokens  int64
	requestCount int64
	dailyCost    map[string]float64
	modelUsage   map[string]int64
}

func NewCostTracker() *CostTracker {
	return &CostTracker{
		dailyCost:  make(map[string]float64),
		modelUsage: make(map[string]int64),
	}
}

// Track records one completion's usage and returns its estimated cost.
func (t *CostTracker) Track(model string, promptTokens, completionTokens int) float64 {
	cost := CalculateCost(model, promptTokens, completionTokens)

	t.mu.Lock()
	t.totalCost += cost
	t.totalTokens += int64(promptTokens + completionTokens)
	t.requestCount++

	today := time.Now().Format("2006-01-02")
	t.dailyCost[today] += cost
	t.modelUsage[model] += int64(promptTokens + completionTokens)
	t.mu.Unlock()

	return cost
}

// Stats returns a snapshot of accumulated spend.
func (t *CostTracker) Stats() CostStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	avg := 0.0
	if t.requestCount > 0 {
		avg = t.totalCost / float64(t.requestCount)
	}

	return CostStats{
		TotalCost:         t.totalCost,
		TodayCost:         t.dailyCost[time.Now().Format("2006-01-02")],
		TotalTokens:       t.totalTokens,
		RequestCount:      t.requestCount,
		AvgCostPerRequest: avg,
	}
}

type CostStats struct {
	TotalCost         float64 `json:"total_cost"`
	TodayCost         float64 `json:"today_cost"`
	TotalTokens       int64   `json:"total_tokens"`
	RequestCount      int64   `json:"request_count"`
	AvgCostPerRequest float64 `json:"avg_cost_per_request"`
}
