package domain

import (
	"strings"
	"time"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// Lead is the prospect a message is generated for. Immutable once built;
// construction validates the identity fields.
type Lead struct {
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name,omitempty"`
	JobTitle        string           `json:"job_title"`
	CompanyName     string           `json:"company_name"`
	WorkExperience  []WorkExperience `json:"work_experience,omitempty"`
	CampaignHistory *CampaignHistory `json:"campaign_history,omitempty"`
	Bio             string           `json:"bio,omitempty"`
	Skills          []string         `json:"skills,omitempty"`
	LinkedInURL     string           `json:"linkedin_url,omitempty"`
}

// NewLead validates and returns a Lead. Identity fields are trimmed; an empty
// first name, job title, or company name fails construction, as does any
// invalid work experience or campaign history entry.
func NewLead(lead Lead) (*Lead, error) {
	lead.FirstName = strings.TrimSpace(lead.FirstName)
	lead.LastName = strings.TrimSpace(lead.LastName)
	lead.JobTitle = strings.TrimSpace(lead.JobTitle)
	lead.CompanyName = strings.TrimSpace(lead.CompanyName)

	if lead.FirstName == "" {
		return nil, apperr.Validation("lead.first_name", "cannot be empty")
	}
	if lead.JobTitle == "" {
		return nil, apperr.Validation("lead.job_title", "cannot be empty")
	}
	if lead.CompanyName == "" {
		return nil, apperr.Validation("lead.company_name", "cannot be empty")
	}

	for i := range lead.WorkExperience {
		exp, err := NewWorkExperience(lead.WorkExperience[i])
		if err != nil {
			return nil, err
		}
		lead.WorkExperience[i] = *exp
	}
	if lead.CampaignHistory != nil {
		history, err := NewCampaignHistory(*lead.CampaignHistory)
		if err != nil {
			return nil, err
		}
		lead.CampaignHistory = history
	}

	return &lead, nil
}

// FullName returns first and last name, or just the first name when the last
// name is unknown.
func (l *Lead) FullName() string {
	if l.LastName != "" {
		return l.FirstName + " " + l.LastName
	}
	return l.FirstName
}

// YearsInCurrentRole derives tenure from the first work experience entry,
// which is assumed to be the most recent. Returns 0 when no history exists.
func (l *Lead) YearsInCurrentRole() int {
	if len(l.WorkExperience) == 0 {
		return 0
	}
	return l.WorkExperience[0].DurationYears()
}

// HasPreviousContact reports whether the lead was contacted in a prior campaign.
func (l *Lead) HasPreviousContact() bool {
	if l.CampaignHistory == nil {
		return false
	}
	return l.CampaignHistory.TotalAttempts > 0
}

// WorkExperience is one entry of a lead's employment history. Immutable.
type WorkExperience struct {
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// NewWorkExperience validates and returns a WorkExperience.
func NewWorkExperience(exp WorkExperience) (*WorkExperience, error) {
	exp.Company = strings.TrimSpace(exp.Company)
	exp.Title = strings.TrimSpace(exp.Title)

	if exp.Company == "" {
		return nil, apperr.Validation("work_experience.company", "cannot be empty")
	}
	if exp.Title == "" {
		return nil, apperr.Validation("work_experience.title", "cannot be empty")
	}
	if exp.EndDate != nil && exp.EndDate.Before(exp.StartDate) {
		return nil, apperr.Validation("work_experience.end_date", "cannot be before start_date")
	}

	return &exp, nil
}

// IsCurrent reports whether this is the lead's ongoing position.
func (w *WorkExperience) IsCurrent() bool {
	return w.EndDate == nil
}

// DurationYears returns the length of the position in whole years.
// Open positions are measured up to now.
func (w *WorkExperience) DurationYears() int {
	end := time.Now()
	if w.EndDate != nil {
		end = *w.EndDate
	}
	days := int(end.Sub(w.StartDate).Hours() / 24)
	return days / 365
}

// CampaignHistory records prior outreach to a lead. Immutable.
type CampaignHistory struct {
	TotalAttempts         int        `json:"total_attempts"`
	LastContactDate       *time.Time `json:"last_contact_date,omitempty"`
	LastChannel           *Channel   `json:"last_channel,omitempty"`
	ResponsesReceived     int        `json:"responses_received"`
	LastResponseSentiment string     `json:"last_response_sentiment,omitempty"`
}

// NewCampaignHistory validates and returns a CampaignHistory.
func NewCampaignHistory(h CampaignHistory) (*CampaignHistory, error) {
	if h.TotalAttempts < 0 {
		return nil, apperr.Validation("campaign_history.total_attempts", "cannot be negative")
	}
	if h.ResponsesReceived < 0 {
		return nil, apperr.Validation("campaign_history.responses_received", "cannot be negative")
	}
	if h.ResponsesReceived > h.TotalAttempts {
		return nil, apperr.Validation("campaign_history.responses_received", "cannot exceed total_attempts")
	}

	return &h, nil
}

// HasResponded reports whether the lead ever replied.
func (h *CampaignHistory) HasResponded() bool {
	return h.ResponsesReceived > 0
}

// ResponseRate returns responses over attempts, 0 when never contacted.
func (h *CampaignHistory) ResponseRate() float64 {
	if h.TotalAttempts == 0 {
		return 0.0
	}
	return float64(h.ResponsesReceived) / float64(h.TotalAttempts)
}

// DaysSinceLastContact returns the days since the last touch, -1 when unknown.
func (h *CampaignHistory) DaysSinceLastContact() int {
	if h.LastContactDate == nil {
		return -1
	}
	return int(time.Since(*h.LastContactDate).Hours() / 24)
}

// IsPositiveSentiment reports whether the last recorded response was positive.
func (h *CampaignHistory) IsPositiveSentiment() bool {
	return strings.EqualFold(strings.TrimSpace(h.LastResponseSentiment), "positive")
}
