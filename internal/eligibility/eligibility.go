// Package eligibility implements the eligibility gate (C8): the hard
// filter that narrows the candidate pool to those satisfying every hard
// requirement, using taxonomy and implication expansion, evidence
// strength, seniority thresholds, and a recency cutoff.
package eligibility

import (
	"context"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/skillmatch"
	"github.com/nexusats/matchengine/internal/store"
)

// DefaultRecencyMonthsLimit is the default cutoff for "last used"
// staleness, used when New is called without an explicit override.
const DefaultRecencyMonthsLimit = 36

// Taxonomy resolves a skill's acceptable-id set: its DAG subtree (via
// parent_skill_id) unioned with implication targets. Built once at engine
// construction from the immutable master skill list and implication
// graph. Skills are indexed by their integer skill_id in maps (parent to
// children, id to code, code to id) rather than in a contiguous slice;
// subtree expansion uses an explicit stack so deep taxonomies never
// recurse.
type Taxonomy struct {
	children     map[int64][]int64  // parent skill_id -> child skill_ids
	codeByID     map[int64]string
	idByCode     map[string]int64
	implications map[string][]string // from skill_code -> to skill_codes
}

// NewTaxonomy builds a Taxonomy from the master skill list and implication
// edges.
func NewTaxonomy(skills []*domain.MasterSkill, implications []domain.SkillImplication) *Taxonomy {
	t := &Taxonomy{
		children:     make(map[int64][]int64),
		codeByID:     make(map[int64]string, len(skills)),
		idByCode:     make(map[string]int64, len(skills)),
		implications: make(map[string][]string),
	}

	for _, s := range skills {
		t.codeByID[s.SkillID] = s.SkillCode
		t.idByCode[s.SkillCode] = s.SkillID
		if s.ParentSkillID != nil {
			t.children[*s.ParentSkillID] = append(t.children[*s.ParentSkillID], s.SkillID)
		}
	}

	for _, imp := range implications {
		t.implications[imp.FromSkillCode] = append(t.implications[imp.FromSkillCode], imp.ToSkillCode)
	}

	return t
}

// AcceptableSkillCodes returns the subtree rooted at skillCode (inclusive)
// unioned with the direct implication targets of skillCode; implications
// are not followed transitively. The subtree walk is iterative, using an
// explicit stack.
func (t *Taxonomy) AcceptableSkillCodes(skillCode string) map[string]bool {
	out := make(map[string]bool)
	rootID, ok := t.idByCode[skillCode]
	if !ok {
		out[skillCode] = true
		for _, target := range t.implications[skillCode] {
			out[target] = true
		}
		return out
	}

	stack := []int64{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		code, ok := t.codeByID[id]
		if !ok || out[code] {
			continue
		}
		out[code] = true
		stack = append(stack, t.children[id]...)
	}

	for _, target := range t.implications[skillCode] {
		out[target] = true
	}

	return out
}

// Matcher is the subset of skillmatch.Matcher the gate depends on, to
// resolve a requirement's raw skill name to a skill_code.
type Matcher interface {
	Match(ctx context.Context, rawName, contextText string, allowImplicit bool) domain.MatchResult
}

var _ Matcher = (*skillmatch.Matcher)(nil)

// Gate evaluates hard requirements against a candidate store.
type Gate struct {
	store             store.Store
	matcher           Matcher
	taxonomy          *Taxonomy
	recencyMonthsLimit int
}

// New builds a Gate over the given store, matcher, and taxonomy, using
// DefaultRecencyMonthsLimit as the staleness cutoff.
func New(s store.Store, matcher Matcher, taxonomy *Taxonomy) *Gate {
	return NewWithRecencyLimit(s, matcher, taxonomy, DefaultRecencyMonthsLimit)
}

// NewWithRecencyLimit is New with an explicit recency cutoff in months,
// wired from the engine's configured recency_months_limit.
func NewWithRecencyLimit(s store.Store, matcher Matcher, taxonomy *Taxonomy, recencyMonthsLimit int) *Gate {
	return &Gate{store: s, matcher: matcher, taxonomy: taxonomy, recencyMonthsLimit: recencyMonthsLimit}
}

// Eligible returns the set of candidate IDs satisfying every hard
// requirement in profile, evaluated against the given reference time
// (now) for the recency cutoff. If the running intersection becomes
// empty, it returns immediately.
func (g *Gate) Eligible(ctx context.Context, profile *domain.JobSkillProfile, now time.Time) (map[string]bool, error) {
	threshold, ok := domain.SeniorityThresholds[profile.SeniorityLevel]
	if !ok {
		threshold = domain.SeniorityThresholds[domain.SeniorityMid]
	}
	recencyCutoff := now.AddDate(0, 0, -g.recencyMonthsLimit*30)

	var eligible map[string]bool
	first := true

	for _, req := range profile.HardRequirements() {
		var set map[string]bool
		var err error

		switch r := req.(type) {
		case *domain.SkillRequirement:
			set, err = g.evalSkillRequirement(ctx, r, threshold, recencyCutoff)
		case *domain.CategoryRequirement:
			set, err = g.evalCategoryRequirement(ctx, r, threshold, recencyCutoff)
		}
		if err != nil {
			return nil, err
		}
		if set == nil {
			// Requirement skipped (e.g. unresolved skill name): it cannot
			// exclude anyone, so it does not narrow the running set.
			continue
		}

		if first {
			eligible = set
			first = false
		} else {
			eligible = intersect(eligible, set)
		}

		if len(eligible) == 0 {
			return eligible, nil
		}
	}

	if eligible == nil {
		eligible = make(map[string]bool)
	}
	return eligible, nil
}

func (g *Gate) evalSkillRequirement(ctx context.Context, r *domain.SkillRequirement, threshold domain.SeniorityThreshold, recencyCutoff time.Time) (map[string]bool, error) {
	match := g.matcher.Match(ctx, r.RawSkill, "", false)
	if !match.Matched {
		// A JD mentioning something unknown cannot exclude anyone.
		return nil, nil
	}

	acceptable := g.taxonomy.AcceptableSkillCodes(match.Skill.SkillCode)
	strength := hardStrength(r.RequirementLvl)

	return g.store.QueryEligibleCandidates(ctx, store.EligibilityQuery{
		AcceptableSkillIDs: acceptable,
		MinMonths:          r.MinMonths,
		RequiredStrength:   strength,
		MidThreshold:       threshold.MidMonths,
		SeniorThreshold:    threshold.SeniorMonths,
		RecencyCutoff:      recencyCutoff,
	})
}

func (g *Gate) evalCategoryRequirement(ctx context.Context, r *domain.CategoryRequirement, threshold domain.SeniorityThreshold, recencyCutoff time.Time) (map[string]bool, error) {
	strength := hardStrength(r.RequirementLvl)

	return g.store.QueryCategoryCandidates(ctx, store.CategoryQuery{
		Category:         r.Category,
		MinRequired:      r.MinRequired,
		RequiredStrength: strength,
		MidThreshold:     threshold.MidMonths,
		SeniorThreshold:  threshold.SeniorMonths,
		RecencyCutoff:    recencyCutoff,
	})
}

// hardStrength returns required_strength = 2 for hard requirements, 1 for
// soft, per §4.8.
func hardStrength(level domain.RequirementLevel) domain.EvidenceStrength {
	if level == domain.RequirementHard {
		return domain.EvidenceRoleTitle
	}
	return domain.EvidenceSkillsSection
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for k := range small {
		if large[k] {
			out[k] = true
		}
	}
	return out
}
