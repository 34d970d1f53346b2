package eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/store"
)

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr(id int64) *int64 { return &id }

func buildTaxonomy() *Taxonomy {
	skills := []*domain.MasterSkill{
		{SkillID: 1, SkillCode: "framework_dotnet", SkillName: ".NET"},
		{SkillID: 2, SkillCode: "framework_aspnet", SkillName: "ASP.NET", ParentSkillID: ptr(1)},
		{SkillID: 3, SkillCode: "language_go", SkillName: "Go"},
	}
	implications := []domain.SkillImplication{
		{FromSkillCode: "language_typescript", ToSkillCode: "language_javascript"},
	}
	return NewTaxonomy(skills, implications)
}

func TestTaxonomy_SubtreeIncludesChildren(t *testing.T) {
	tax := buildTaxonomy()
	out := tax.AcceptableSkillCodes("framework_dotnet")
	if !out["framework_dotnet"] || !out["framework_aspnet"] {
		t.Fatalf("expected subtree to include parent and child, got %v", out)
	}
	if out["language_go"] {
		t.Fatalf("expected unrelated skill excluded, got %v", out)
	}
}

func TestTaxonomy_ImplicationExpansion(t *testing.T) {
	tax := buildTaxonomy()
	out := tax.AcceptableSkillCodes("language_typescript")
	if !out["language_typescript"] || !out["language_javascript"] {
		t.Fatalf("expected implication target included, got %v", out)
	}
}

func TestTaxonomy_UnknownCodeReturnsItself(t *testing.T) {
	tax := buildTaxonomy()
	out := tax.AcceptableSkillCodes("language_rust")
	if len(out) != 1 || !out["language_rust"] {
		t.Fatalf("expected unknown code to resolve to itself, got %v", out)
	}
}

type fakeGateMatcher struct {
	results map[string]domain.MatchResult
}

func (f fakeGateMatcher) Match(_ context.Context, rawName, _ string, _ bool) domain.MatchResult {
	if r, ok := f.results[rawName]; ok {
		return r
	}
	return domain.NoMatch
}

func goMetrics(totalMonths int, strength domain.EvidenceStrength, lastUsed time.Time) *domain.SkillMetrics {
	return &domain.SkillMetrics{
		SkillCode:           "language_go",
		TotalMonths:         totalMonths,
		MidMonths:           totalMonths,
		MaxEvidenceStrength: strength,
		LastUsed:            lastUsed,
	}
}

func newGateForGo(t *testing.T) (*Gate, *store.MemoryStore) {
	t.Helper()
	skills := []*domain.MasterSkill{
		{SkillID: 1, SkillCode: "language_go", SkillName: "Go", Category: "languages"},
	}
	s := store.NewMemoryStore()
	s.SeedMasterSkills(skills)
	s.SeedImplications(nil)

	matcher := fakeGateMatcher{results: map[string]domain.MatchResult{
		"Go": {Matched: true, Skill: skills[0], Confidence: 1.0, Method: domain.MethodExact},
	}}
	tax := NewTaxonomy(skills, nil)
	return New(s, matcher, tax), s
}

func TestEligible_CandidatePassesMeetingThreshold(t *testing.T) {
	gate, s := newGateForGo(t)
	ctx := context.Background()
	require := func(err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require(s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go": goMetrics(24, domain.EvidenceSkillsSection, now),
	}))

	profile := &domain.JobSkillProfile{
		SeniorityLevel: domain.SeniorityMid,
		Requirements: []domain.Requirement{
			&domain.SkillRequirement{RawSkill: "Go", RequirementLvl: domain.RequirementHard, MinMonths: 6},
		},
	}

	eligible, err := gate.Eligible(ctx, profile, now)
	require(err)
	if !eligible["cand-1"] {
		t.Fatalf("expected cand-1 eligible, got %v", eligible)
	}
}

func TestEligible_CandidateFailsRecencyCutoff(t *testing.T) {
	gate, s := newGateForGo(t)
	ctx := context.Background()
	stale := now.AddDate(0, 0, -DefaultRecencyMonthsLimit*30-1)
	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go": goMetrics(24, domain.EvidenceSkillsSection, stale),
	}); err != nil {
		t.Fatal(err)
	}

	profile := &domain.JobSkillProfile{
		SeniorityLevel: domain.SeniorityMid,
		Requirements: []domain.Requirement{
			&domain.SkillRequirement{RawSkill: "Go", RequirementLvl: domain.RequirementHard, MinMonths: 6},
		},
	}

	eligible, err := gate.Eligible(ctx, profile, now)
	if err != nil {
		t.Fatal(err)
	}
	if eligible["cand-1"] {
		t.Fatalf("expected stale candidate excluded by recency cutoff, got %v", eligible)
	}
}

func TestEligible_UnresolvedRequirementDoesNotNarrowAlongsideResolvedOne(t *testing.T) {
	gate, s := newGateForGo(t)
	ctx := context.Background()
	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go": goMetrics(24, domain.EvidenceSkillsSection, now),
	}); err != nil {
		t.Fatal(err)
	}

	profile := &domain.JobSkillProfile{
		SeniorityLevel: domain.SeniorityMid,
		Requirements: []domain.Requirement{
			&domain.SkillRequirement{RawSkill: "Go", RequirementLvl: domain.RequirementHard, MinMonths: 6},
			&domain.SkillRequirement{RawSkill: "Cobol", RequirementLvl: domain.RequirementHard, MinMonths: 6},
		},
	}

	eligible, err := gate.Eligible(ctx, profile, now)
	if err != nil {
		t.Fatal(err)
	}
	if !eligible["cand-1"] {
		t.Fatalf("expected unresolved requirement to not further narrow an already-eligible candidate, got %v", eligible)
	}
}

func TestEligible_SoftRequirementsDoNotGate(t *testing.T) {
	gate, s := newGateForGo(t)
	ctx := context.Background()
	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{}); err != nil {
		t.Fatal(err)
	}

	profile := &domain.JobSkillProfile{
		SeniorityLevel: domain.SeniorityMid,
		Requirements: []domain.Requirement{
			&domain.SkillRequirement{RawSkill: "Go", RequirementLvl: domain.RequirementSoft, MinMonths: 60},
		},
	}

	eligible, err := gate.Eligible(ctx, profile, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(eligible) != 0 {
		t.Fatalf("expected empty eligible set (no hard requirements) rather than an error, got %v", eligible)
	}
}

func TestEligible_SeniorityFloorsGateMidAndSeniorMonths(t *testing.T) {
	gate, s := newGateForGo(t)
	ctx := context.Background()
	// Total months satisfy the raw MinMonths but all accrued at junior band,
	// so the seniority-level's MidMonths floor (12 for Mid) should exclude.
	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go": {
			SkillCode:           "language_go",
			TotalMonths:         24,
			JuniorMonths:        24,
			MaxEvidenceStrength: domain.EvidenceSkillsSection,
			LastUsed:            now,
		},
	}); err != nil {
		t.Fatal(err)
	}

	profile := &domain.JobSkillProfile{
		SeniorityLevel: domain.SeniorityMid,
		Requirements: []domain.Requirement{
			&domain.SkillRequirement{RawSkill: "Go", RequirementLvl: domain.RequirementHard, MinMonths: 6},
		},
	}

	eligible, err := gate.Eligible(ctx, profile, now)
	if err != nil {
		t.Fatal(err)
	}
	if eligible["cand-1"] {
		t.Fatalf("expected candidate excluded for lacking mid-band months, got %v", eligible)
	}
}
