package domain

import (
	"testing"
	"time"
)

func TestNewSender(t *testing.T) {
	if _, err := NewSender(Sender{Name: "Jose", CompanyName: "LeadAdapter"}); err != nil {
		t.Errorf("NewSender() unexpected error: %v", err)
	}
	if _, err := NewSender(Sender{CompanyName: "LeadAdapter"}); err == nil {
		t.Errorf("NewSender() expected error for missing name")
	}
	if _, err := NewSender(Sender{Name: "Jose"}); err == nil {
		t.Errorf("NewSender() expected error for missing company")
	}
}

func TestSenderSignature(t *testing.T) {
	tests := []struct {
		name   string
		sender Sender
		want   string
	}{
		{
			name:   "with title",
			sender: Sender{Name: "Jose Martinez", Title: "Founder", CompanyName: "LeadAdapter"},
			want:   "Jose Martinez, Founder @ LeadAdapter",
		},
		{
			name:   "without title",
			sender: Sender{Name: "Jose Martinez", CompanyName: "LeadAdapter"},
			want:   "Jose Martinez @ LeadAdapter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sender.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSenderSharedEmployers(t *testing.T) {
	sender := Sender{
		Name:           "Jose",
		CompanyName:    "LeadAdapter",
		CompanyHistory: []string{"Globant", "MercadoLibre"},
	}
	lead := Lead{
		FirstName:   "Maria",
		JobTitle:    "CTO",
		CompanyName: "TechCorp",
		WorkExperience: []WorkExperience{
			{Company: "TechCorp", Title: "CTO", StartDate: time.Now()},
			{Company: "globant", Title: "Engineer", StartDate: time.Now()},
		},
	}

	got := sender.SharedEmployers(&lead)
	if len(got) != 1 || got[0] != "Globant" {
		t.Errorf("SharedEmployers() = %v, want [Globant]", got)
	}

	if got := sender.SharedEmployers(nil); got != nil {
		t.Errorf("SharedEmployers(nil) = %v, want nil", got)
	}

	noHistory := Sender{Name: "Jose", CompanyName: "LeadAdapter"}
	if got := noHistory.SharedEmployers(&lead); got != nil {
		t.Errorf("SharedEmployers() = %v for sender without history, want nil", got)
	}
}
