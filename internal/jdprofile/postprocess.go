// Package jdprofile implements the JD parser post-processor (C7): a
// deterministic cleanup pass over an LLM-parsed JobSkillProfile. It never
// infers, adds, or removes requirements — it only normalizes the fields the
// extractor routinely gets wrong.
package jdprofile

import (
	"github.com/nexusats/matchengine/internal/domain"
)

// domainWhitelist is the fixed set of accepted primary domains, compiled
// into this package rather than loaded from the store; anything else falls
// back to "General" per the JD input contract (§6).
var domainWhitelist = map[string]bool{
	"Frontend": true,
	"Backend":  true,
	"FullStack": true,
	"DataEngineering": true,
	"DevOps":   true,
	"Mobile":   true,
	"General":  true,
}

// PostProcess cleans profile in place and returns it. Rules applied:
//
//   - min_months null (represented as a negative sentinel by callers that
//     distinguish "unset") normalizes to 0 — callers that already default
//     to 0 are unaffected;
//   - skill_type_hint == methodology forces min_months=0 and
//     expected_evidence=implicit;
//   - skill_type_hint == tool combined with requirement_level == hard
//     downgrades to soft with expected_evidence=project;
//   - CategoryRequirement.min_required is clamped to >= 1;
//   - primary_domain outside the whitelist falls back to "General".
func PostProcess(p *domain.JobSkillProfile) *domain.JobSkillProfile {
	if p == nil {
		return p
	}

	if !domainWhitelist[p.PrimaryDomain] {
		p.PrimaryDomain = "General"
	}

	for _, req := range p.Requirements {
		switch r := req.(type) {
		case *domain.SkillRequirement:
			if r.MinMonths < 0 {
				r.MinMonths = 0
			}
			if r.SkillTypeHint == domain.SkillTypeMethodology {
				r.MinMonths = 0
				r.ExpectedEvidence = domain.EvidenceExpectImplicit
			}
			if r.SkillTypeHint == domain.SkillTypeTool && r.RequirementLvl == domain.RequirementHard {
				r.RequirementLvl = domain.RequirementSoft
				r.ExpectedEvidence = domain.EvidenceExpectProject
			}
		case *domain.CategoryRequirement:
			if r.MinRequired < 1 {
				r.MinRequired = 1
			}
		}
	}

	return p
}
