package domain

import (
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// Role keyword filters used to pick the pain points an ICP cares about.
// Grouped by the rough altitude of the role: executives care about money and
// direction, managers about people and delivery, technical staff about the
// codebase itself.
var relevanceKeywords = map[string][]string{
	"executive": {
		"roi", "cost", "budget", "scale", "grow", "revenue", "investment",
		"competition", "market", "strategy", "vision", "roadmap",
	},
	"manager": {
		"team", "productivity", "deadline", "hiring", "retention", "talent",
		"coordination", "delivery", "resources", "capacity", "planning",
	},
	"technical": {
		"bug", "technical debt", "legacy", "performance", "documentation",
		"testing", "deploy", "integration", "tooling", "architecture", "code",
	},
}

// Markers that flag an ICP as targeting a technical audience.
var technicalMarkers = []string{"engineer", "developer", "technical", "devops", "architect"}

// Default company-size bounds applied when a profile leaves them unset.
const (
	defaultCompanySizeMin = 1
	defaultCompanySizeMax = 10000
)

// ICPProfile describes one ideal customer profile inside a playbook.
type ICPProfile struct {
	Name             string   `json:"name"`
	TargetTitles     []string `json:"target_titles"`
	TargetIndustries []string `json:"target_industries,omitempty"`
	CompanySizeMin   int      `json:"company_size_min,omitempty"`
	CompanySizeMax   int      `json:"company_size_max,omitempty"`
	PainPoints       []string `json:"pain_points,omitempty"`
	SectorKeywords   []string `json:"keywords_sector,omitempty"`
}

// NewICPProfile validates and returns an ICPProfile, filling in default
// company-size bounds when both are unset.
func NewICPProfile(p ICPProfile) (*ICPProfile, error) {
	p.Name = strings.TrimSpace(p.Name)

	if p.Name == "" {
		return nil, apperr.Validation("icp_profile.name", "cannot be empty")
	}
	if len(p.TargetTitles) == 0 {
		return nil, apperr.Validation("icp_profile.target_titles", "cannot be empty")
	}
	if p.CompanySizeMin == 0 && p.CompanySizeMax == 0 {
		p.CompanySizeMin = defaultCompanySizeMin
		p.CompanySizeMax = defaultCompanySizeMax
	}
	if p.CompanySizeMin > p.CompanySizeMax {
		return nil, apperr.Validation("icp_profile.company_size_min", "cannot exceed company_size_max")
	}

	return &p, nil
}

// MatchesTitle reports whether any target title fragment occurs in the job
// title, case-insensitively. No targets means no match.
func (p *ICPProfile) MatchesTitle(jobTitle string) bool {
	if len(p.TargetTitles) == 0 {
		return false
	}
	title := strings.ToLower(jobTitle)
	for _, target := range p.TargetTitles {
		if target == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(target)) {
			return true
		}
	}
	return false
}

// IsTechnical reports whether the profile targets a technical audience,
// derived from technical markers in its target titles and sector keywords.
func (p *ICPProfile) IsTechnical() bool {
	for _, term := range p.TargetTitles {
		if containsTechnicalMarker(term) {
			return true
		}
	}
	for _, term := range p.SectorKeywords {
		if containsTechnicalMarker(term) {
			return true
		}
	}
	return false
}

func containsTechnicalMarker(term string) bool {
	lower := strings.ToLower(term)
	for _, marker := range technicalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// RelevantPainPoints filters the profile's pain points down to those that
// mention a keyword tied to the seniority's role altitude. When nothing
// matches, every pain point is returned rather than none.
func (p *ICPProfile) RelevantPainPoints(seniority Seniority) []string {
	if len(p.PainPoints) == 0 {
		return nil
	}

	keywords := relevanceKeywords[seniorityRoleGroup(seniority)]
	var relevant []string
	for _, pain := range p.PainPoints {
		painLower := strings.ToLower(pain)
		for _, kw := range keywords {
			if strings.Contains(painLower, kw) {
				relevant = append(relevant, pain)
				break
			}
		}
	}

	if len(relevant) == 0 {
		return p.PainPoints
	}
	return relevant
}

// seniorityRoleGroup buckets a seniority into the keyword group that filters
// its pain points.
func seniorityRoleGroup(s Seniority) string {
	switch s {
	case SeniorityCLevel, SeniorityVP, SeniorityDirector:
		return "executive"
	case SeniorityManager:
		return "manager"
	default:
		return "technical"
	}
}

// Product is one offering a playbook can pitch.
type Product struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	KeyBenefits    []string `json:"key_benefits,omitempty"`
	TargetProblems []string `json:"target_problems,omitempty"`
}

// NewProduct validates and returns a Product.
func NewProduct(p Product) (*Product, error) {
	p.Name = strings.TrimSpace(p.Name)

	if p.Name == "" {
		return nil, apperr.Validation("product.name", "cannot be empty")
	}

	return &p, nil
}

// BenefitForPain returns the benefit aligned with the first target problem
// that contains the pain point. Unmatched pains fall back to the first
// benefit; a product without benefits returns "".
func (p *Product) BenefitForPain(painPoint string) string {
	if len(p.KeyBenefits) == 0 {
		return ""
	}

	painLower := strings.ToLower(painPoint)
	for i, problem := range p.TargetProblems {
		if strings.Contains(strings.ToLower(problem), painLower) {
			if i < len(p.KeyBenefits) {
				return p.KeyBenefits[i]
			}
			break
		}
	}
	return p.KeyBenefits[0]
}

// Playbook bundles the sales context for a campaign: how to talk, what to
// sell, and who to sell it to.
type Playbook struct {
	CommunicationStyle string       `json:"communication_style"`
	Products           []Product    `json:"products"`
	ICPProfiles        []ICPProfile `json:"icp_profiles,omitempty"`
	SuccessCases       []string     `json:"success_cases,omitempty"`
	CommonObjections   []string     `json:"common_objections,omitempty"`
	ValuePropositions  []string     `json:"value_propositions,omitempty"`
}

// NewPlaybook validates and returns a Playbook, including every product and
// ICP profile it carries.
func NewPlaybook(pb Playbook) (*Playbook, error) {
	pb.CommunicationStyle = strings.TrimSpace(pb.CommunicationStyle)

	if pb.CommunicationStyle == "" {
		return nil, apperr.Validation("playbook.communication_style", "cannot be empty")
	}
	if len(pb.Products) == 0 {
		return nil, apperr.Validation("playbook.products", "cannot be empty")
	}

	for i := range pb.Products {
		product, err := NewProduct(pb.Products[i])
		if err != nil {
			return nil, err
		}
		pb.Products[i] = *product
	}
	for i := range pb.ICPProfiles {
		profile, err := NewICPProfile(pb.ICPProfiles[i])
		if err != nil {
			return nil, err
		}
		pb.ICPProfiles[i] = *profile
	}

	return &pb, nil
}

// ProductForICP picks the product whose target problems overlap most with the
// profile's pain points. Overlap counts pairs where either string contains
// the other. Ties and empty pains fall back to the first product.
func (pb *Playbook) ProductForICP(profile *ICPProfile) *Product {
	if profile == nil || len(profile.PainPoints) == 0 {
		return &pb.Products[0]
	}

	best := &pb.Products[0]
	bestScore := 0
	for i := range pb.Products {
		product := &pb.Products[i]
		score := 0
		for _, pain := range profile.PainPoints {
			painLower := strings.ToLower(pain)
			for _, problem := range product.TargetProblems {
				problemLower := strings.ToLower(problem)
				if strings.Contains(problemLower, painLower) || strings.Contains(painLower, problemLower) {
					score++
				}
			}
		}
		if score > bestScore {
			best = product
			bestScore = score
		}
	}
	return best
}
