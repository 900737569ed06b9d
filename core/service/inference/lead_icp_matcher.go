package inference

import (
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

// Match score weights and acceptance threshold. Tunable policy, calibrated
// against known lead/profile pairs; not derived from anything deeper.
const (
	titleWeight   = 0.5
	keywordWeight = 0.3
	skillsWeight  = 0.2

	matchThreshold = 0.3
)

// ICPMatcher scores a lead against a playbook's ICP profiles and picks the
// best match.
type ICPMatcher struct{}

// NewICPMatcher creates a new ICP matcher.
func NewICPMatcher() *ICPMatcher {
	return &ICPMatcher{}
}

// Match returns the highest-scoring profile when its score reaches the match
// threshold, nil otherwise. Earlier profiles win ties.
func (m *ICPMatcher) Match(lead *domain.Lead, playbook *domain.Playbook) *domain.ICPProfile {
	if playbook == nil || len(playbook.ICPProfiles) == 0 {
		return nil
	}

	var best *domain.ICPProfile
	bestScore := 0.0
	for i := range playbook.ICPProfiles {
		profile := &playbook.ICPProfiles[i]
		if score := m.matchScore(lead, profile); score > bestScore {
			best = profile
			bestScore = score
		}
	}

	if bestScore < matchThreshold {
		return nil
	}
	return best
}

// matchScore computes the weighted compatibility between a lead and one
// profile, in [0, 1]. Title fragments and sector keywords are searched in the
// job title; sector keywords are additionally searched in the lead's skills.
// Each component is normalized by its own list length.
func (m *ICPMatcher) matchScore(lead *domain.Lead, icp *domain.ICPProfile) float64 {
	score := 0.0
	title := strings.ToLower(lead.JobTitle)

	if len(icp.TargetTitles) > 0 {
		matches := 0
		for _, target := range icp.TargetTitles {
			if strings.Contains(title, strings.ToLower(target)) {
				matches++
			}
		}
		score += titleWeight * float64(matches) / float64(len(icp.TargetTitles))
	}

	if len(icp.SectorKeywords) > 0 {
		matches := 0
		for _, kw := range icp.SectorKeywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				matches++
			}
		}
		score += keywordWeight * float64(matches) / float64(len(icp.SectorKeywords))
	}

	if len(lead.Skills) > 0 && len(icp.SectorKeywords) > 0 {
		matches := 0
		for _, skill := range lead.Skills {
			skillLower := strings.ToLower(skill)
			for _, kw := range icp.SectorKeywords {
				if strings.Contains(skillLower, strings.ToLower(kw)) {
					matches++
					break
				}
			}
		}
		score += skillsWeight * float64(matches) / float64(len(lead.Skills))
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}
