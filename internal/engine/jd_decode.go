package engine

import (
	"strings"

	"github.com/nexusats/matchengine/internal/domain"
)

// rawJobProfile mirrors the JSON shape llm.JDExtractionSchema asks the
// extractor to produce (see internal/llm/extractor.go). It is the only
// place in this repository that knows that wire shape; everywhere else
// works against domain.JobSkillProfile.
type rawJobProfile struct {
	RoleContext          string                   `json:"role_context"`
	PrimaryDomain        string                   `json:"primary_domain"`
	SeniorityLevel       string                   `json:"seniority_level"`
	Requirements         []rawSkillRequirement    `json:"requirements"`
	CategoryRequirements []rawCategoryRequirement `json:"category_requirements"`
}

type rawSkillRequirement struct {
	RawSkill         string `json:"raw_skill"`
	RequirementLevel string `json:"requirement_level"`
	SkillTypeHint    string `json:"skill_type_hint"`
	MinMonths        int    `json:"min_months"`
}

type rawCategoryRequirement struct {
	Category         string   `json:"category"`
	MinRequired      int      `json:"min_required"`
	ExampleSkills    []string `json:"example_skills"`
	RequirementLevel string   `json:"requirement_level"`
}

// toDomain converts the raw extracted shape into a domain.JobSkillProfile.
// It performs no normalization of its own — that is jdprofile.PostProcess's
// job — only a direct field-for-field translation.
func (r rawJobProfile) toDomain() *domain.JobSkillProfile {
	requirements := make([]domain.Requirement, 0, len(r.Requirements)+len(r.CategoryRequirements))

	for _, sr := range r.Requirements {
		requirements = append(requirements, &domain.SkillRequirement{
			RawSkill:         sr.RawSkill,
			RequirementSrc:   domain.RequirementSourceExplicit,
			RequirementLvl:   parseRequirementLevel(sr.RequirementLevel),
			SkillTypeHint:    domain.SkillType(sr.SkillTypeHint),
			MinMonths:        sr.MinMonths,
			ExpectedEvidence: domain.EvidenceExpectSkillsSection,
		})
	}

	for _, cr := range r.CategoryRequirements {
		requirements = append(requirements, &domain.CategoryRequirement{
			Category:       cr.Category,
			MinRequired:    cr.MinRequired,
			ExampleSkills:  cr.ExampleSkills,
			RequirementLvl: parseRequirementLevel(cr.RequirementLevel),
			RequirementSrc: domain.RequirementSourceExplicit,
		})
	}

	return &domain.JobSkillProfile{
		RoleContext:    r.RoleContext,
		PrimaryDomain:  r.PrimaryDomain,
		SeniorityLevel: domain.SeniorityLevel(r.SeniorityLevel),
		Requirements:   requirements,
	}
}

// parseRequirementLevel maps the extractor's free-text level to the
// hard/soft enum, defaulting to hard: an extractor that omits the field
// entirely should not silently disqualify the requirement from gating.
func parseRequirementLevel(level string) domain.RequirementLevel {
	if strings.EqualFold(strings.TrimSpace(level), "soft") {
		return domain.RequirementSoft
	}
	return domain.RequirementHard
}
