package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
)

// fakeLLM replays scripted replies in call order and records every request.
type fakeLLM struct {
	script   []fakeReply
	calls    int
	requests []*out.CompletionRequest
}

type fakeReply struct {
	content string
	err     error
}

func (f *fakeLLM) Complete(ctx context.Context, req *out.CompletionRequest) (*out.CompletionResponse, error) {
	return f.next(req)
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, req *out.CompletionRequest) (*out.CompletionResponse, error) {
	return f.next(req)
}

func (f *fakeLLM) CountTokens(text string) int {
	return len(text) / 4
}

func (f *fakeLLM) next(req *out.CompletionRequest) (*out.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.calls >= len(f.script) {
		return nil, errors.New("fake llm: script exhausted")
	}
	reply := f.script[f.calls]
	f.calls++
	if reply.err != nil {
		return nil, reply.err
	}
	return &out.CompletionResponse{
		Content:        reply.content,
		PromptTokens:   10,
		ResponseTokens: 5,
		Model:          "gpt-4o-mini",
	}, nil
}

const (
	classifyReply = `{"role_type": "decision_maker", "confidence": 0.9, "reasoning": "CTO holds budget"}`
	inferReply    = `{"pain_points": ["slow deploys", "hiring backlog", "legacy migrations", "cloud spend"], ` +
		`"hooks": ["8 years at TechCorp", "recent platform talk", "open source work"], ` +
		`"talking_points": ["faster releases"]}`
	goodMessage = "Hi Maria, congrats on 5 years leading TechCorp. We help platform teams " +
		"reduce deploy friction without adding headcount, and your setup sounds like " +
		"the kind we do best with. Open to a short chat next week?"
)

func chainFixture(t *testing.T) ChainInput {
	t.Helper()

	lead, err := domain.NewLead(domain.Lead{
		FirstName:   "Maria",
		LastName:    "Garcia",
		JobTitle:    "CTO",
		CompanyName: "TechCorp",
	})
	if err != nil {
		t.Fatalf("NewLead() error = %v", err)
	}

	sender, err := domain.NewSender(domain.Sender{
		Name:        "Alex Rivera",
		Title:       "Account Executive",
		CompanyName: "DevTools Inc",
	})
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}

	playbook, err := domain.NewPlaybook(domain.Playbook{
		CommunicationStyle: "casual but professional",
		Products: []domain.Product{{
			Name:           "DeployBot",
			Category:       "CI/CD automation",
			KeyBenefits:    []string{"cut release time in half"},
			TargetProblems: []string{"slow deploys"},
		}},
	})
	if err != nil {
		t.Fatalf("NewPlaybook() error = %v", err)
	}

	return ChainInput{
		Lead:      lead,
		Sender:    sender,
		Playbook:  playbook,
		Seniority: domain.SeniorityCLevel,
		Strategy:  domain.StrategyBusinessValue,
		Channel:   domain.ChannelLinkedIn,
		Step:      domain.StepFirstContact,
	}
}

func fixtureICP(t *testing.T) *domain.ICPProfile {
	t.Helper()

	icp, err := domain.NewICPProfile(domain.ICPProfile{
		Name:             "Tech Leaders",
		TargetTitles:     []string{"cto"},
		TargetIndustries: []string{"saas"},
		PainPoints:       []string{"scaling costs", "deploy friction"},
	})
	if err != nil {
		t.Fatalf("NewICPProfile() error = %v", err)
	}
	return icp
}

func TestChainRunHappyPath(t *testing.T) {
	llm := &fakeLLM{script: []fakeReply{
		{content: classifyReply},
		{content: inferReply},
		{content: goodMessage},
	}}
	chain := NewChain(llm)

	result, err := chain.Run(context.Background(), chainFixture(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Content != goodMessage {
		t.Errorf("Content = %q, want the generated message", result.Content)
	}
	if result.TokensUsed != 45 {
		t.Errorf("TokensUsed = %d, want 45", result.TokensUsed)
	}
	if result.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", result.Model)
	}
	if llm.calls != 3 {
		t.Errorf("llm calls = %d, want 3", llm.calls)
	}
}

func TestChainRunRequestShapes(t *testing.T) {
	llm := &fakeLLM{script: []fakeReply{
		{content: classifyReply},
		{content: inferReply},
		{content: goodMessage},
	}}
	chain := NewChain(llm)

	if _, err := chain.Run(context.Background(), chainFixture(t)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(llm.requests) != 3 {
		t.Fatalf("recorded %d requests, want 3", len(llm.requests))
	}

	classify, infer, generate := llm.requests[0], llm.requests[1], llm.requests[2]

	if classify.SystemPrompt != classifyLeadSystem {
		t.Error("classify step did not use the classification system prompt")
	}
	if classify.Temperature != classifyTemperature {
		t.Errorf("classify Temperature = %v, want %v", classify.Temperature, classifyTemperature)
	}
	if infer.SystemPrompt != inferContextSystem {
		t.Error("infer step did not use the inference system prompt")
	}
	if generate.SystemPrompt != generateMessageSystem {
		t.Error("generate step did not use the copywriting system prompt")
	}
	if generate.Temperature != generateTemperature {
		t.Errorf("generate Temperature = %v, want %v", generate.Temperature, generateTemperature)
	}
	if generate.MaxTokens != generateMaxTokens {
		t.Errorf("generate MaxTokens = %d, want %d", generate.MaxTokens, generateMaxTokens)
	}
}

func TestChainRunFencedJSON(t *testing.T) {
	llm := &fakeLLM{script: []fakeReply{
		{content: "```json\n" + classifyReply + "\n```"},
		{content: "```\n" + inferReply + "\n```"},
		{content: goodMessage},
	}}
	chain := NewChain(llm)

	result, err := chain.Run(context.Background(), chainFixture(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Content != goodMessage {
		t.Errorf("Content = %q, want the generated message", result.Content)
	}
}

func TestChainRunAborts(t *testing.T) {
	tests := []struct {
		name      string
		script    []fakeReply
		wantCalls int
		wantErr   string
	}{
		{
			name:      "malformed classification payload",
			script:    []fakeReply{{content: "not json at all"}},
			wantCalls: 1,
			wantErr:   "classify lead",
		},
		{
			name:      "unknown role type",
			script:    []fakeReply{{content: `{"role_type": "boss", "confidence": 0.5}`}},
			wantCalls: 1,
			wantErr:   "unexpected role type",
		},
		{
			name: "backend error during inference",
			script: []fakeReply{
				{content: classifyReply},
				{err: errors.New("rate limited")},
			},
			wantCalls: 2,
			wantErr:   "infer context",
		},
		{
			name: "malformed context payload",
			script: []fakeReply{
				{content: classifyReply},
				{content: `{"pain_points": "oops"}`},
			},
			wantCalls: 2,
			wantErr:   "parse context response",
		},
		{
			name: "blank generated message",
			script: []fakeReply{
				{content: classifyReply},
				{content: inferReply},
				{content: "   "},
			},
			wantCalls: 3,
			wantErr:   "empty message content",
		},
		{
			name: "backend error during generation",
			script: []fakeReply{
				{content: classifyReply},
				{content: inferReply},
				{err: errors.New("rate limited")},
			},
			wantCalls: 3,
			wantErr:   "generate message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{script: tt.script}
			chain := NewChain(llm)

			result, err := chain.Run(context.Background(), chainFixture(t))
			if err == nil {
				t.Fatalf("Run() = %+v, want error", result)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Run() error = %q, want it to contain %q", err, tt.wantErr)
			}
			if llm.calls != tt.wantCalls {
				t.Errorf("llm calls = %d, want %d", llm.calls, tt.wantCalls)
			}
		})
	}
}

func TestChainRunMissingInput(t *testing.T) {
	llm := &fakeLLM{}
	chain := NewChain(llm)

	input := chainFixture(t)
	input.Lead = nil

	if _, err := chain.Run(context.Background(), input); err == nil {
		t.Fatal("Run() with nil lead succeeded, want error")
	}
	if llm.calls != 0 {
		t.Errorf("llm calls = %d, want 0", llm.calls)
	}
}

func TestBuildGeneratePrompt(t *testing.T) {
	input := chainFixture(t)
	input.ICP = fixtureICP(t)

	inferred := &inferredContext{
		PainPoints: []string{"slow deploys", "hiring backlog", "legacy migrations", "cloud spend"},
		Hooks:      []string{"8 years at TechCorp", "recent platform talk", "open source work"},
	}

	prompt := buildGeneratePrompt(input, inferred)

	wantFragments := []string{
		"Generate a linkedin message for first_contact.",
		"- Name: Maria Garcia",
		"- Title: CTO",
		"- Name: Alex Rivera",
		"STRATEGY: business_value - Focus on ROI and business metrics",
		"legacy migrations",
		"recent platform talk",
		"- Name: DeployBot",
		"- Key Benefit: cut release time in half",
		"TONE: casual but professional, introductory and curious",
		"MAX LENGTH: 300 characters",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}

	// Pain points cap at three, hooks at two.
	if strings.Contains(prompt, "cloud spend") {
		t.Error("prompt includes the fourth pain point")
	}
	if strings.Contains(prompt, "open source work") {
		t.Error("prompt includes the third hook")
	}
}

func TestBuildInferPrompt(t *testing.T) {
	input := chainFixture(t)
	icp := fixtureICP(t)

	withICP := buildInferPrompt(input.Lead, "decision_maker", input.Playbook, icp, domain.SeniorityCLevel)
	if !strings.Contains(withICP, "- Role Type: decision_maker") {
		t.Error("prompt missing the role type line")
	}
	if !strings.Contains(withICP, "- Industry: saas") {
		t.Error("prompt missing the industry line")
	}
	if !strings.Contains(withICP, "- Category: CI/CD automation") {
		t.Error("prompt missing the product category line")
	}
	// Executive relevance keeps "scaling costs" and drops "deploy friction".
	if !strings.Contains(withICP, "scaling costs") {
		t.Error("prompt missing the relevant known pain point")
	}
	if strings.Contains(withICP, "deploy friction") {
		t.Error("prompt includes a pain point outside the executive group")
	}

	withoutICP := buildInferPrompt(input.Lead, "decision_maker", input.Playbook, nil, domain.SeniorityCLevel)
	if strings.Contains(withoutICP, "Industry:") {
		t.Error("prompt without ICP still has an industry line")
	}
	if strings.Contains(withoutICP, "KNOWN PAIN POINTS") {
		t.Error("prompt without ICP still has a known pain points section")
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFences(tt.in); got != tt.want {
				t.Errorf("stripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
