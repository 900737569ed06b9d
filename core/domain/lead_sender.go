package domain

import (
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// Sender is the person the message is written on behalf of.
type Sender struct {
	Name           string   `json:"name"`
	Title          string   `json:"title,omitempty"`
	CompanyName    string   `json:"company_name"`
	CompanyHistory []string `json:"company_history,omitempty"`
	LinkedInURL    string   `json:"linkedin_url,omitempty"`
}

// NewSender validates and returns a Sender.
func NewSender(s Sender) (*Sender, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Title = strings.TrimSpace(s.Title)
	s.CompanyName = strings.TrimSpace(s.CompanyName)

	if s.Name == "" {
		return nil, apperr.Validation("sender.name", "cannot be empty")
	}
	if s.CompanyName == "" {
		return nil, apperr.Validation("sender.company_name", "cannot be empty")
	}

	return &s, nil
}

// Signature renders "Name, Title @ Company", omitting the title when absent.
func (s *Sender) Signature() string {
	if s.Title != "" {
		return s.Name + ", " + s.Title + " @ " + s.CompanyName
	}
	return s.Name + " @ " + s.CompanyName
}

// SharedEmployers returns the companies present both in the sender's history
// and in the lead's work experience, compared case-insensitively.
func (s *Sender) SharedEmployers(lead *Lead) []string {
	if len(s.CompanyHistory) == 0 || lead == nil || len(lead.WorkExperience) == 0 {
		return nil
	}

	leadCompanies := make(map[string]struct{}, len(lead.WorkExperience))
	for _, exp := range lead.WorkExperience {
		leadCompanies[strings.ToLower(strings.TrimSpace(exp.Company))] = struct{}{}
	}

	var shared []string
	for _, company := range s.CompanyHistory {
		if _, ok := leadCompanies[strings.ToLower(strings.TrimSpace(company))]; ok {
			shared = append(shared, company)
		}
	}
	return shared
}
