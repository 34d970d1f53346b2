// Package aggregator implements the skill aggregator (C5): folding a
// candidate's per-role skill mentions into per-candidate accumulators with
// recency, seniority-band months, evidence strength, and blended
// confidence.
package aggregator

import (
	"context"
	"strings"
	"time"

	"github.com/nexusats/matchengine/internal/canon"
	"github.com/nexusats/matchengine/internal/domain"
)

// sourceWeight feeds both evidence_score and the blended confidence
// formula.
var sourceWeight = map[domain.MentionSource]float64{
	domain.SourceSkillsSection:  1.0,
	domain.SourceTechnologyList: 0.9,
	domain.SourceResponsibility: 0.7,
	domain.SourceImplicit:       0.0,
}

// evidenceStrength feeds max_evidence_strength.
var evidenceStrength = map[domain.MentionSource]domain.EvidenceStrength{
	domain.SourceResponsibility: domain.EvidenceResponsibility,
	domain.SourceRoleTitle:      domain.EvidenceRoleTitle,
	domain.SourceSkillsSection:  domain.EvidenceSkillsSection,
}

// RoleTitleSkillMap is a fixed table of job-title phrases (canonicalized,
// matched as a substring of the canonicalized title) to implied skill
// codes. Matching titles earn has_presence credit with source role_title,
// but no months — months come from the role's own duration via the
// mention loop.
var RoleTitleSkillMap = map[string][]string{
	"dot net developer":  {"framework_dotnet"},
	"java developer":     {"language_java"},
	"python developer":   {"language_python"},
	"frontend developer": {"web_html", "web_css", "language_javascript"},
	"backend developer":  {},
}

// seniorityRules classifies a canonicalized job title into a band. Checked
// in order; the first match wins.
var seniorityRules = []struct {
	contains []string
	band     domain.SeniorityBand
}{
	{[]string{"intern", "trainee", "junior", "associate"}, domain.BandJunior},
	{[]string{"senior", "lead", "principal"}, domain.BandSenior},
}

// InferSeniorityBand derives a role's credit band from its title.
func InferSeniorityBand(title string) domain.SeniorityBand {
	canonical := canon.CanonicalizeJobTitle(title)
	for _, rule := range seniorityRules {
		for _, phrase := range rule.contains {
			if strings.Contains(canonical, phrase) {
				return rule.band
			}
		}
	}
	return domain.BandMid
}

// Matcher is the subset of skillmatch.Matcher the aggregator depends on.
type Matcher interface {
	Match(ctx context.Context, rawName, contextText string, allowImplicit bool) domain.MatchResult
}

// Aggregator folds a candidate's roles into per-skill-code SkillMetrics.
type Aggregator struct {
	matcher Matcher
}

// New builds an Aggregator over the given matcher.
func New(matcher Matcher) *Aggregator {
	return &Aggregator{matcher: matcher}
}

// Aggregate processes every role for one candidate and returns the
// resulting skill_code -> SkillMetrics map. It never fails on an
// unresolved mention; such mentions are simply dropped.
func (a *Aggregator) Aggregate(ctx context.Context, candidateID string, roles []domain.CandidateRole) map[string]*domain.SkillMetrics {
	acc := make(map[string]*domain.SkillMetrics)

	for _, role := range roles {
		band := InferSeniorityBand(role.Title)
		a.applyRoleTitleCredit(role.Title, candidateID, acc)

		durationMonths := role.VerifiedDurationMonths

		for _, mention := range role.Mentions {
			match := a.matcher.Match(ctx, mention.RawName, mention.Context, true)
			if !match.Matched {
				continue
			}

			m := getOrCreate(acc, candidateID, match.Skill.SkillCode)
			applyBand(m, band, durationMonths)
			updateUsageRange(m, role.StartDate, role.EndDate)

			weight := sourceWeight[mention.Source]
			m.EvidenceScore += weight
			if m.EvidenceSources == nil {
				m.EvidenceSources = make(map[domain.MentionSource]bool)
			}
			m.EvidenceSources[mention.Source] = true
			if mention.Source == domain.SourceSkillsSection {
				m.HasPresence = true
			}
			if strength, ok := evidenceStrength[mention.Source]; ok && strength > m.MaxEvidenceStrength {
				m.MaxEvidenceStrength = strength
			}

			blended := (0.6*mention.Confidence + 0.4*match.Confidence) * weight
			m.ConfidenceScores = append(m.ConfidenceScores, blended)

			if match.Method.Stronger(m.NormalizationMethod) {
				m.NormalizationMethod = match.Method
			}
			if match.Confidence > m.NormalizationConfidence {
				m.NormalizationConfidence = match.Confidence
			}
		}
	}

	for _, m := range acc {
		m.TotalMonths = m.JuniorMonths + m.MidMonths + m.SeniorMonths
		m.MatchConfidence = mean(m.ConfidenceScores)
	}

	return acc
}

// applyRoleTitleCredit consults RoleTitleSkillMap before mention processing.
// A matching title flips has_presence and records role_title evidence for
// every implied skill, but grants no months of its own.
func (a *Aggregator) applyRoleTitleCredit(title, candidateID string, acc map[string]*domain.SkillMetrics) {
	canonical := canon.CanonicalizeJobTitle(title)
	for phrase, skillCodes := range RoleTitleSkillMap {
		if !strings.Contains(canonical, phrase) {
			continue
		}
		for _, code := range skillCodes {
			m := getOrCreate(acc, candidateID, code)
			m.HasPresence = true
			if m.EvidenceSources == nil {
				m.EvidenceSources = make(map[domain.MentionSource]bool)
			}
			m.EvidenceSources[domain.SourceRoleTitle] = true
			if domain.EvidenceRoleTitle > m.MaxEvidenceStrength {
				m.MaxEvidenceStrength = domain.EvidenceRoleTitle
			}
		}
	}
}

func getOrCreate(acc map[string]*domain.SkillMetrics, candidateID, skillCode string) *domain.SkillMetrics {
	if m, ok := acc[skillCode]; ok {
		return m
	}
	m := &domain.SkillMetrics{
		CandidateID:     candidateID,
		SkillCode:       skillCode,
		EvidenceSources: make(map[domain.MentionSource]bool),
		NormalizationMethod: domain.MethodNone,
	}
	acc[skillCode] = m
	return m
}

// applyBand adds durationMonths to the accumulator's band field.
func applyBand(m *domain.SkillMetrics, band domain.SeniorityBand, durationMonths int) {
	switch band {
	case domain.BandJunior:
		m.JuniorMonths += durationMonths
	case domain.BandSenior:
		m.SeniorMonths += durationMonths
	default:
		m.MidMonths += durationMonths
	}
}

// updateUsageRange widens [FirstUsed, LastUsed], treating a zero-valued
// FirstUsed as +inf and zero-valued LastUsed as -inf on first write.
func updateUsageRange(m *domain.SkillMetrics, start, end time.Time) {
	if m.FirstUsed.IsZero() || (!start.IsZero() && start.Before(m.FirstUsed)) {
		m.FirstUsed = start
	}
	if end.After(m.LastUsed) {
		m.LastUsed = end
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
