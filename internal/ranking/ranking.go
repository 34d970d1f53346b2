// Package ranking implements the ranker (C9): weighted per-requirement
// scoring of eligible candidates, normalized to a max possible score, with
// a templated reason and a separately reported competency score.
package ranking

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/skillmatch"
	"github.com/nexusats/matchengine/internal/store"
)

// DefaultLimit bounds the result list when the caller does not specify one.
const DefaultLimit = 50

// Matcher is the subset of skillmatch.Matcher the ranker depends on, to
// resolve a SkillRequirement's raw name to a skill_code.
type Matcher interface {
	Match(ctx context.Context, rawName, contextText string, allowImplicit bool) domain.MatchResult
}

var _ Matcher = (*skillmatch.Matcher)(nil)

// Ranker scores eligible candidates against a JobSkillProfile.
type Ranker struct {
	store   store.Store
	matcher Matcher
	weights *domain.WeightTables
}

// New builds a Ranker over the given store, matcher, and weight tables.
func New(s store.Store, matcher Matcher, weights *domain.WeightTables) *Ranker {
	return &Ranker{store: s, matcher: matcher, weights: weights}
}

// Breakdown is one requirement's contribution to a candidate's score.
type Breakdown struct {
	Name             string
	Matched          bool
	TotalMonths      int
	LastUsed         time.Time
	CompositeWeight  float64
	RecencyScorePct  float64
	CompetencyScorePct float64
	Method           string
	Reason           string
}

// CandidateScore is one row of ranker output.
type CandidateScore struct {
	CandidateID        string
	Name               string
	Score              float64
	Confidence         string
	Matches            []string
	SkillBreakdown     []Breakdown
	TotalJDSkills      int
	MatchedSkillCount  int
	UnmatchedSkillCount int
	UnmatchedSkills    []string
}

// requirementContext precomputes the per-requirement weights shared across
// every candidate.
type requirementContext struct {
	req             domain.Requirement
	name            string
	skillCode       string // resolved for SkillRequirement; "" for category
	category        string // set for CategoryRequirement
	compositeWeight float64
}

// Rank scores every candidate in eligibleIDs against profile's
// requirements (both hard and soft contribute to score; only hard
// requirements determine eligibility, computed upstream). now is the
// reference time for recency scoring. limit bounds the returned list; 0
// uses DefaultLimit.
func (r *Ranker) Rank(ctx context.Context, profile *domain.JobSkillProfile, eligibleIDs map[string]bool, now time.Time, limit int) ([]CandidateScore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	contexts := r.buildRequirementContexts(ctx, profile)

	var maxPossible float64
	for _, rc := range contexts {
		maxPossible += rc.compositeWeight
	}
	if maxPossible == 0 {
		maxPossible = 1
	}

	candidateIDs := make([]string, 0, len(eligibleIDs))
	for id := range eligibleIDs {
		candidateIDs = append(candidateIDs, id)
	}
	sort.Strings(candidateIDs)

	scores := make([]CandidateScore, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		cs, err := r.scoreCandidate(ctx, candidateID, contexts, maxPossible, now)
		if err != nil {
			// A faulted candidate is dropped from the result set, not
			// propagated.
			continue
		}
		scores = append(scores, cs)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return candidateTieBreak(scores[i]) > candidateTieBreak(scores[j])
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func candidateTieBreak(c CandidateScore) int {
	var totalMonths int
	for _, b := range c.SkillBreakdown {
		totalMonths += b.TotalMonths
	}
	return totalMonths
}

func (r *Ranker) buildRequirementContexts(ctx context.Context, profile *domain.JobSkillProfile) []requirementContext {
	contexts := make([]requirementContext, 0, len(profile.Requirements))

	for _, req := range profile.Requirements {
		jdWeight := 0.4
		if req.Level() == domain.RequirementHard {
			jdWeight = 1.0
		}

		switch reqT := req.(type) {
		case *domain.SkillRequirement:
			match := r.matcher.Match(ctx, reqT.RawSkill, "", false)
			skillCode := ""
			skillType := reqT.SkillTypeHint
			if match.Matched {
				skillCode = match.Skill.SkillCode
				if skillType == "" {
					skillType = match.Skill.SkillType
				}
			}
			skillWeight := r.weights.RoleWeight(profile.PrimaryDomain, profile.SeniorityLevel, skillType)
			contexts = append(contexts, requirementContext{
				req:             req,
				name:            reqT.RawSkill,
				skillCode:       skillCode,
				compositeWeight: jdWeight * skillWeight,
			})
		case *domain.CategoryRequirement:
			skillWeight := r.weights.RoleWeight(profile.PrimaryDomain, profile.SeniorityLevel, domain.SkillTypeFramework)
			contexts = append(contexts, requirementContext{
				req:             req,
				name:            reqT.Category,
				category:        reqT.Category,
				compositeWeight: jdWeight * skillWeight,
			})
		}
	}

	return contexts
}

func (r *Ranker) scoreCandidate(ctx context.Context, candidateID string, contexts []requirementContext, maxPossible float64, now time.Time) (CandidateScore, error) {
	candidate, err := r.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return CandidateScore{}, err
	}
	name := candidateID
	if candidate != nil {
		name = candidate.FullName
	}

	var total float64
	breakdowns := make([]Breakdown, 0, len(contexts))
	matches := make([]string, 0)
	unmatched := make([]string, 0)

	for _, rc := range contexts {
		var metrics *domain.SkillMetrics
		var skillCode string

		if rc.category != "" {
			m, err := r.store.BestCategorySkill(ctx, candidateID, rc.category)
			if err != nil {
				return CandidateScore{}, err
			}
			metrics = m
			if m != nil {
				skillCode = m.SkillCode
			}
		} else if rc.skillCode != "" {
			m, err := r.store.GetCandidateSkill(ctx, candidateID, rc.skillCode)
			if err != nil {
				return CandidateScore{}, err
			}
			metrics = m
			skillCode = rc.skillCode
		}

		if metrics == nil {
			unmatched = append(unmatched, rc.name)
			breakdowns = append(breakdowns, Breakdown{
				Name:            rc.name,
				Matched:         false,
				CompositeWeight: rc.compositeWeight,
				Method:          "Unmatched",
				Reason:          "no evidence found for " + rc.name,
			})
			continue
		}

		minMonths := 1
		if sr, ok := rc.req.(*domain.SkillRequirement); ok && sr.MinMonths > 0 {
			minMonths = sr.MinMonths
		}

		raw, competencyPct, recencyPct := scoreContribution(metrics, rc.compositeWeight, minMonths, now)
		total += raw

		matches = append(matches, skillCode)
		breakdowns = append(breakdowns, Breakdown{
			Name:               rc.name,
			Matched:            true,
			TotalMonths:        metrics.TotalMonths,
			LastUsed:           metrics.LastUsed,
			CompositeWeight:    rc.compositeWeight,
			RecencyScorePct:    recencyPct,
			CompetencyScorePct: competencyPct,
			Method:             string(metrics.NormalizationMethod),
			Reason:             buildReason(rc.name, metrics),
		})
	}

	score := math.Round(100*total/maxPossible*10000) / 10000

	return CandidateScore{
		CandidateID:         candidateID,
		Name:                name,
		Score:               score,
		Confidence:          confidenceLabel(score),
		Matches:             matches,
		SkillBreakdown:      breakdowns,
		TotalJDSkills:       len(contexts),
		MatchedSkillCount:   len(matches),
		UnmatchedSkillCount: len(unmatched),
		UnmatchedSkills:     unmatched,
	}, nil
}

// scoreContribution computes a single requirement's raw_contribution and
// its UI-facing competency/recency percentages per §4.9.
func scoreContribution(m *domain.SkillMetrics, compositeWeight float64, minMonths int, now time.Time) (raw, competencyPct, recencyPct float64) {
	expFactor := math.Min(1, math.Log(1+float64(m.TotalMonths)/float64(maxInt(minMonths, 1))))
	recencyFactor := rawRecencyFactor(m.LastUsed, now)
	evidenceFactor := math.Min(float64(m.MaxEvidenceStrength)/3, 1)
	normPenalty := 1.0
	if m.NormalizationMethod == domain.MethodVector {
		normPenalty = 0.85
	}

	raw = compositeWeight * expFactor * recencyFactor * evidenceFactor * normPenalty

	depth := math.Min(1, float64(m.TotalMonths)/36)
	competencyRecency := competencyRecencyFactor(m.LastUsed, now)
	competency := depth * competencyRecency
	final := competency * compositeWeight

	return raw, final * 100, recencyFactor * 100
}

// rawRecencyFactor is the raw-score piecewise recency discount.
func rawRecencyFactor(lastUsed, now time.Time) float64 {
	gap := monthsSince(lastUsed, now)
	switch {
	case gap <= 12:
		return 1.0
	case gap <= 36:
		return 0.8
	case gap <= 60:
		return 0.6
	default:
		return 0.3
	}
}

// competencyRecencyFactor is the distinct piecewise discount used only for
// the UI-facing competency score (§4.9 notes this differs from the raw
// scorer's thresholds).
func competencyRecencyFactor(lastUsed, now time.Time) float64 {
	gap := monthsSince(lastUsed, now)
	switch {
	case gap < 12:
		return 1.0
	case gap < 48:
		return 0.6
	default:
		return 0.25
	}
}

func monthsSince(t, now time.Time) int {
	if t.IsZero() {
		return 1 << 30
	}
	months := (now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
	if months < 0 {
		return 0
	}
	return months
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// confidenceLabel applies the Strong/Good/Partial/Weak thresholds.
func confidenceLabel(score float64) string {
	switch {
	case score >= 80:
		return "Strong Match"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Partial Match"
	default:
		return "Weak Match"
	}
}

// buildReason assembles a templated clause list in the spirit of the
// original matcher's explanation builder: months of experience, senior
// exposure, and provenance.
func buildReason(name string, m *domain.SkillMetrics) string {
	var clauses []string

	clauses = append(clauses, monthsClause(name, m.TotalMonths))
	if m.SeniorMonths > 0 {
		clauses = append(clauses, "includes senior-level exposure")
	}
	switch m.NormalizationMethod {
	case domain.MethodExact, domain.MethodAlias:
		clauses = append(clauses, "explicitly mentioned")
	case domain.MethodVector:
		clauses = append(clauses, "matched via semantic similarity")
	case domain.MethodRule:
		clauses = append(clauses, "matched via token rule")
	}
	if m.HasPresence {
		clauses = append(clauses, "listed in skills section or role title")
	}

	return strings.Join(clauses, "; ")
}

func monthsClause(name string, months int) string {
	if months == 1 {
		return name + ": 1 month of experience"
	}
	return name + ": " + strconv.Itoa(months) + " months of experience"
}
