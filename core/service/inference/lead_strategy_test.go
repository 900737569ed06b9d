package inference

import (
	"testing"
	"time"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

func TestStrategySelectorSelect(t *testing.T) {
	selector := NewStrategySelector()

	sender := &domain.Sender{Name: "Jose", CompanyName: "LeadAdapter"}
	coldLead := func(title string) *domain.Lead {
		return &domain.Lead{FirstName: "Maria", JobTitle: title, CompanyName: "TechCorp"}
	}

	tests := []struct {
		name      string
		lead      *domain.Lead
		sender    *domain.Sender
		icp       *domain.ICPProfile
		seniority domain.Seniority
		step      domain.SequenceStep
		want      domain.MessageStrategy
	}{
		{
			name:      "breakup always uses curiosity hook",
			lead:      coldLead("CEO"),
			sender:    sender,
			seniority: domain.SeniorityCLevel,
			step:      domain.StepBreakup,
			want:      domain.StrategyCuriosityHook,
		},
		{
			name: "positive prior response uses social proof",
			lead: &domain.Lead{
				FirstName:   "Maria",
				JobTitle:    "CTO",
				CompanyName: "TechCorp",
				CampaignHistory: &domain.CampaignHistory{
					TotalAttempts:         2,
					ResponsesReceived:     1,
					LastResponseSentiment: "positive",
				},
			},
			sender:    sender,
			seniority: domain.SeniorityCLevel,
			step:      domain.StepFollowUp1,
			want:      domain.StrategySocialProof,
		},
		{
			name: "negative prior response falls through to seniority default",
			lead: &domain.Lead{
				FirstName:   "Maria",
				JobTitle:    "CTO",
				CompanyName: "TechCorp",
				CampaignHistory: &domain.CampaignHistory{
					TotalAttempts:         2,
					ResponsesReceived:     1,
					LastResponseSentiment: "negative",
				},
			},
			sender:    sender,
			seniority: domain.SeniorityCLevel,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyBusinessValue,
		},
		{
			name:      "c-level defaults to business value",
			lead:      coldLead("CEO"),
			sender:    sender,
			seniority: domain.SeniorityCLevel,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyBusinessValue,
		},
		{
			name:      "vp defaults to business value",
			lead:      coldLead("VP of Engineering"),
			sender:    sender,
			seniority: domain.SeniorityVP,
			step:      domain.StepFollowUp2,
			want:      domain.StrategyBusinessValue,
		},
		{
			name:      "senior defaults to technical peer",
			lead:      coldLead("Senior Developer"),
			sender:    sender,
			seniority: domain.SenioritySenior,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyTechnicalPeer,
		},
		{
			name:      "manager defaults to problem solution",
			lead:      coldLead("Engineering Manager"),
			sender:    sender,
			seniority: domain.SeniorityManager,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyProblemSolution,
		},
		{
			name:      "unknown defaults to problem solution",
			lead:      coldLead("Something"),
			sender:    sender,
			seniority: domain.SeniorityUnknown,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyProblemSolution,
		},
		{
			name:      "manager with technical icp uses technical peer",
			lead:      coldLead("Engineering Manager"),
			sender:    sender,
			icp:       &domain.ICPProfile{Name: "Devs", TargetTitles: []string{"developer"}},
			seniority: domain.SeniorityManager,
			step:      domain.StepFollowUp1,
			want:      domain.StrategyTechnicalPeer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := selector.Select(tt.lead, tt.sender, tt.icp, tt.seniority, domain.ChannelLinkedIn, tt.step)
			if got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
			if reason == "" {
				t.Errorf("Select() returned empty reason")
			}
		})
	}
}

func TestStrategySelectorMutualConnection(t *testing.T) {
	selector := NewStrategySelector()

	sender := &domain.Sender{
		Name:           "Jose",
		CompanyName:    "LeadAdapter",
		CompanyHistory: []string{"Globant"},
	}
	lead := &domain.Lead{
		FirstName:   "Maria",
		JobTitle:    "CTO",
		CompanyName: "TechCorp",
		WorkExperience: []domain.WorkExperience{
			{Company: "Globant", Title: "Engineer", StartDate: time.Now().AddDate(-4, 0, 0)},
		},
	}

	// Shared employer on a cold first contact overrides the c-level default.
	got, _ := selector.Select(lead, sender, nil, domain.SeniorityCLevel, domain.ChannelLinkedIn, domain.StepFirstContact)
	if got != domain.StrategyMutualConnection {
		t.Errorf("Select() = %v, want MutualConnection on shared employer", got)
	}

	// Same lead on a later step keeps the seniority default.
	got, _ = selector.Select(lead, sender, nil, domain.SeniorityCLevel, domain.ChannelLinkedIn, domain.StepFollowUp1)
	if got != domain.StrategyBusinessValue {
		t.Errorf("Select() = %v, want BusinessValue on follow-up", got)
	}

	// Prior contact disables the mutual-connection override.
	contacted := *lead
	contacted.CampaignHistory = &domain.CampaignHistory{TotalAttempts: 1}
	got, _ = selector.Select(&contacted, sender, nil, domain.SeniorityCLevel, domain.ChannelLinkedIn, domain.StepFirstContact)
	if got != domain.StrategyBusinessValue {
		t.Errorf("Select() = %v, want BusinessValue when history exists", got)
	}

	// No shared employer keeps the default.
	stranger := &domain.Lead{FirstName: "Ana", JobTitle: "CTO", CompanyName: "Elsewhere"}
	got, _ = selector.Select(stranger, sender, nil, domain.SeniorityCLevel, domain.ChannelLinkedIn, domain.StepFirstContact)
	if got != domain.StrategyBusinessValue {
		t.Errorf("Select() = %v, want BusinessValue without shared employer", got)
	}
}

// TestStrategySelectorDeterminism verifies repeated calls with identical
// inputs return identical results.
func TestStrategySelectorDeterminism(t *testing.T) {
	selector := NewStrategySelector()
	sender := &domain.Sender{Name: "Jose", CompanyName: "LeadAdapter"}
	lead := &domain.Lead{FirstName: "Maria", JobTitle: "Senior Developer", CompanyName: "TechCorp"}

	first, firstReason := selector.Select(lead, sender, nil, domain.SenioritySenior, domain.ChannelEmail, domain.StepFollowUp1)
	for i := 0; i < 10; i++ {
		got, reason := selector.Select(lead, sender, nil, domain.SenioritySenior, domain.ChannelEmail, domain.StepFollowUp1)
		if got != first || reason != firstReason {
			t.Fatalf("Select() varied across calls: %v/%q vs %v/%q", got, reason, first, firstReason)
		}
	}
}
