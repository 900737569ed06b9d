package http

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/adapter/out/llm"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/metrics"
)

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return resp.StatusCode, decoded
}

func TestHealthEndpoint(t *testing.T) {
	app := fiber.New()
	NewHealthHandler("1.2.3", nil, nil).Register(app.Group("/api/v1"))

	status, body := getJSON(t, app, "/api/v1/health")
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["version"] != "1.2.3" {
		t.Errorf("version = %v, want 1.2.3", body["version"])
	}
	if body["timestamp"] == "" || body["timestamp"] == nil {
		t.Error("timestamp is empty")
	}
}

func TestStatsEndpoint(t *testing.T) {
	adapter, err := llm.NewAdapter(llm.Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}

	latency := metrics.NewLatencyRegistry(64)
	latency.Record("generate_message", 1200*time.Millisecond)
	latency.Record("generate_message", 800*time.Millisecond)
	latency.Record("cache_hit", 2*time.Millisecond)

	app := fiber.New()
	NewHealthHandler("1.2.3", adapter, latency).Register(app.Group("/api/v1"))

	status, body := getJSON(t, app, "/api/v1/stats")
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}

	latencies, ok := body["latency"].(map[string]any)
	if !ok {
		t.Fatalf("latency section missing or wrong shape: %v", body["latency"])
	}
	if _, ok := latencies["generate_message"]; !ok {
		t.Error("latency section missing generate_message operation")
	}
	if _, ok := latencies["cache_hit"]; !ok {
		t.Error("latency section missing cache_hit operation")
	}

	llmSection, ok := body["llm"].(map[string]any)
	if !ok {
		t.Fatalf("llm section missing or wrong shape: %v", body["llm"])
	}
	if llmSection["model"] != llm.DefaultModel {
		t.Errorf("llm model = %v, want %s", llmSection["model"], llm.DefaultModel)
	}
	if llmSection["circuit_state"] != "closed" {
		t.Errorf("circuit_state = %v, want closed", llmSection["circuit_state"])
	}
	if _, ok := llmSection["costs"]; !ok {
		t.Error("llm section missing costs")
	}
}

func TestStatsEndpointWithoutDeps(t *testing.T) {
	app := fiber.New()
	NewHealthHandler("1.2.3", nil, nil).Register(app.Group("/api/v1"))

	status, body := getJSON(t, app, "/api/v1/stats")
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if _, ok := body["latency"]; ok {
		t.Error("latency section present without a registry")
	}
	if _, ok := body["llm"]; ok {
		t.Error("llm section present without an adapter")
	}
}
