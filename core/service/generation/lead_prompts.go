package generation

import (
	"fmt"
	"strings"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
)

const classifyLeadSystem = `You are a B2B sales expert. Classify the lead's role type based on their job title and company context.

Role types:
- decision_maker: C-level, VP, Director with budget authority
- influencer: Manager, Lead who can influence decisions
- end_user: Individual contributor who would use the product
- gatekeeper: Admin, Assistant who controls access

Respond in JSON format:
{
  "role_type": "decision_maker|influencer|end_user|gatekeeper",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}`

const inferContextSystem = `You are a B2B sales research expert. Based on the lead's profile, infer likely pain points, personalization hooks, and talking points.

Consider:
1. Common challenges for this role/seniority
2. Industry-specific problems
3. Current tech trends affecting their work
4. Likely priorities based on role type

Be specific and actionable. Avoid generic statements.

Respond in JSON format:
{
  "pain_points": ["specific pain point 1", "specific pain point 2", "specific pain point 3"],
  "hooks": ["personalization hook 1", "personalization hook 2"],
  "talking_points": ["talking point 1", "talking point 2"]
}`

const generateMessageSystem = `You are an expert B2B copywriter. Generate personalized outreach messages that:
1. Feel genuine and human (not templated)
2. Reference specific details about the prospect
3. Have a clear value proposition
4. End with a soft call-to-action

NEVER use:
- Generic phrases like "game changer" or "market leader"
- Aggressive sales language
- False urgency

Respond with ONLY the message content, no explanations.`

func buildClassifyPrompt(lead *domain.Lead, seniority domain.Seniority) string {
	return fmt.Sprintf(`Classify this lead:

Job Title: %s
Company: %s
Inferred Seniority: %s

What is their role type?`, lead.JobTitle, lead.CompanyName, seniority)
}

func buildInferPrompt(lead *domain.Lead, roleType string, playbook *domain.Playbook, icp *domain.ICPProfile, seniority domain.Seniority) string {
	var sb strings.Builder

	sb.WriteString("Infer likely pain points and personalization opportunities for this lead:\n\n")
	sb.WriteString("LEAD PROFILE:\n")
	sb.WriteString(fmt.Sprintf("- Job Title: %s\n", lead.JobTitle))
	sb.WriteString(fmt.Sprintf("- Company: %s\n", lead.CompanyName))
	sb.WriteString(fmt.Sprintf("- Role Type: %s\n", roleType))
	if years := lead.YearsInCurrentRole(); years > 0 {
		sb.WriteString(fmt.Sprintf("- Years in role: %d\n", years))
	}
	if icp != nil && len(icp.TargetIndustries) > 0 {
		sb.WriteString(fmt.Sprintf("- Industry: %s\n", strings.Join(icp.TargetIndustries, ", ")))
	}

	product := playbook.ProductForICP(icp)
	if product != nil {
		sb.WriteString("\nPRODUCT CONTEXT:\n")
		if product.Category != "" {
			sb.WriteString(fmt.Sprintf("- Category: %s\n", product.Category))
		} else {
			sb.WriteString(fmt.Sprintf("- Name: %s\n", product.Name))
		}
	}

	if icp != nil {
		if pains := icp.RelevantPainPoints(seniority); len(pains) > 0 {
			sb.WriteString("\nKNOWN PAIN POINTS FOR THIS PROFILE:\n")
			for _, pain := range topN(pains, 3) {
				sb.WriteString(fmt.Sprintf("- %s\n", pain))
			}
		}
	}

	sb.WriteString("\nWhat are their likely pain points, personalization hooks, and talking points?")
	return sb.String()
}

func buildGeneratePrompt(input ChainInput, inferred *inferredContext) string {
	lead, sender, playbook := input.Lead, input.Sender, input.Playbook

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate a %s message for %s.\n\n", input.Channel, input.Step))

	sb.WriteString("LEAD:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", lead.FullName()))
	sb.WriteString(fmt.Sprintf("- Title: %s\n", lead.JobTitle))
	sb.WriteString(fmt.Sprintf("- Company: %s\n", lead.CompanyName))
	if years := lead.YearsInCurrentRole(); years > 0 {
		sb.WriteString(fmt.Sprintf("- Has been in their role for %d+ years\n", years))
	}

	sb.WriteString("\nSENDER:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", sender.Name))
	sb.WriteString(fmt.Sprintf("- Company: %s\n", sender.CompanyName))

	sb.WriteString(fmt.Sprintf("\nSTRATEGY: %s - %s\n", input.Strategy, input.Strategy.Description()))

	sb.WriteString("\nINFERRED PAIN POINTS:\n")
	for _, pain := range topN(inferred.PainPoints, 3) {
		sb.WriteString(fmt.Sprintf("- %s\n", pain))
	}

	sb.WriteString("\nPERSONALIZATION HOOKS:\n")
	for _, hook := range topN(inferred.Hooks, 2) {
		sb.WriteString(fmt.Sprintf("- %s\n", hook))
	}

	product := playbook.ProductForICP(input.ICP)
	if product != nil {
		sb.WriteString("\nPRODUCT TO MENTION:\n")
		sb.WriteString(fmt.Sprintf("- Name: %s\n", product.Name))
		if benefit := productBenefit(product, input.ICP, input.Seniority); benefit != "" {
			sb.WriteString(fmt.Sprintf("- Key Benefit: %s\n", benefit))
		}
	}

	sb.WriteString(fmt.Sprintf("\nTONE: %s, %s\n", playbook.CommunicationStyle, input.Step.MessageTone()))
	sb.WriteString(fmt.Sprintf("\nMAX LENGTH: %d characters\n", input.Channel.MaxLength()))
	sb.WriteString("\nWrite the message now:")
	return sb.String()
}

// productBenefit picks the benefit line for the prompt: the one mapped to the
// lead's most relevant pain point when an ICP matched, the product's first
// benefit otherwise.
func productBenefit(product *domain.Product, icp *domain.ICPProfile, seniority domain.Seniority) string {
	if icp != nil {
		if pains := icp.RelevantPainPoints(seniority); len(pains) > 0 {
			if benefit := product.BenefitForPain(pains[0]); benefit != "" {
				return benefit
			}
		}
	}
	if len(product.KeyBenefits) > 0 {
		return product.KeyBenefits[0]
	}
	return ""
}

func topN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
