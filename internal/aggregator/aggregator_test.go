package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
)

type fakeMatcher struct {
	results map[string]domain.MatchResult
}

func (f fakeMatcher) Match(_ context.Context, rawName, _ string, _ bool) domain.MatchResult {
	if r, ok := f.results[rawName]; ok {
		return r
	}
	return domain.NoMatch
}

func goSkill() *domain.MasterSkill {
	return &domain.MasterSkill{SkillCode: "language_go", SkillName: "Go"}
}

func TestAggregate_SkillsSectionMention(t *testing.T) {
	matcher := fakeMatcher{results: map[string]domain.MatchResult{
		"Go": {Matched: true, Skill: goSkill(), Confidence: 1.0, Method: domain.MethodExact},
	}}
	agg := New(matcher)

	roles := []domain.CandidateRole{
		{
			Title:                  "Software Engineer",
			VerifiedDurationMonths: 24,
			StartDate:              time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Mentions: []domain.SkillMention{
				{RawName: "Go", Source: domain.SourceSkillsSection, Confidence: 0.9},
			},
		},
	}

	got := agg.Aggregate(context.Background(), "cand-1", roles)
	m, ok := got["language_go"]
	if !ok {
		t.Fatalf("expected language_go in result, got %v", got)
	}
	if !m.HasPresence {
		t.Error("expected HasPresence true for a skills_section mention")
	}
	if m.TotalMonths != 24 || m.MidMonths != 24 {
		t.Errorf("expected 24 mid months, got total=%d mid=%d", m.TotalMonths, m.MidMonths)
	}
	if m.NormalizationMethod != domain.MethodExact {
		t.Errorf("expected exact method recorded, got %v", m.NormalizationMethod)
	}
	if m.MaxEvidenceStrength != domain.EvidenceSkillsSection {
		t.Errorf("expected max evidence strength skills_section, got %v", m.MaxEvidenceStrength)
	}
}

func TestAggregate_UnresolvedMentionDropped(t *testing.T) {
	matcher := fakeMatcher{results: map[string]domain.MatchResult{}}
	agg := New(matcher)

	roles := []domain.CandidateRole{
		{
			Title:                  "Engineer",
			VerifiedDurationMonths: 12,
			Mentions: []domain.SkillMention{
				{RawName: "Cobol", Source: domain.SourceSkillsSection},
			},
		},
	}

	got := agg.Aggregate(context.Background(), "cand-1", roles)
	if len(got) != 0 {
		t.Fatalf("expected no skills recorded for an unresolved mention, got %v", got)
	}
}

func TestAggregate_SeniorityBandsMonths(t *testing.T) {
	matcher := fakeMatcher{results: map[string]domain.MatchResult{
		"Go": {Matched: true, Skill: goSkill(), Confidence: 1.0, Method: domain.MethodExact},
	}}
	agg := New(matcher)

	roles := []domain.CandidateRole{
		{
			Title:                  "Junior Software Engineer",
			VerifiedDurationMonths: 6,
			Mentions:               []domain.SkillMention{{RawName: "Go", Source: domain.SourceSkillsSection}},
		},
		{
			Title:                  "Senior Software Engineer",
			VerifiedDurationMonths: 18,
			Mentions:               []domain.SkillMention{{RawName: "Go", Source: domain.SourceSkillsSection}},
		},
	}

	got := agg.Aggregate(context.Background(), "cand-1", roles)
	m := got["language_go"]
	if m.JuniorMonths != 6 || m.SeniorMonths != 18 || m.TotalMonths != 24 {
		t.Errorf("expected junior=6 senior=18 total=24, got junior=%d senior=%d total=%d", m.JuniorMonths, m.SeniorMonths, m.TotalMonths)
	}
}

func TestAggregate_RoleTitleCreditNoMonths(t *testing.T) {
	agg := New(fakeMatcher{})

	roles := []domain.CandidateRole{
		{Title: "Python Developer", VerifiedDurationMonths: 36},
	}

	got := agg.Aggregate(context.Background(), "cand-1", roles)
	m, ok := got["language_python"]
	if !ok {
		t.Fatalf("expected language_python credited via role-title map, got %v", got)
	}
	if !m.HasPresence {
		t.Error("expected HasPresence true from role-title credit")
	}
	if m.TotalMonths != 0 {
		t.Errorf("expected role-title credit to grant no months, got %d", m.TotalMonths)
	}
	if !m.EvidenceSources[domain.SourceRoleTitle] {
		t.Error("expected role_title evidence source recorded")
	}
}

func TestAggregate_BlendedConfidence(t *testing.T) {
	matcher := fakeMatcher{results: map[string]domain.MatchResult{
		"Go": {Matched: true, Skill: goSkill(), Confidence: 0.8, Method: domain.MethodAlias},
	}}
	agg := New(matcher)

	roles := []domain.CandidateRole{
		{
			VerifiedDurationMonths: 12,
			Mentions: []domain.SkillMention{
				{RawName: "Go", Source: domain.SourceSkillsSection, Confidence: 1.0},
			},
		},
	}

	got := agg.Aggregate(context.Background(), "cand-1", roles)
	m := got["language_go"]
	// blended = (0.6*1.0 + 0.4*0.8) * sourceWeight[skills_section=1.0] = 0.92
	want := 0.92
	if diff := m.MatchConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected blended confidence %v, got %v", want, m.MatchConfidence)
	}
}

func TestInferSeniorityBand(t *testing.T) {
	cases := map[string]domain.SeniorityBand{
		"Senior Software Engineer": domain.BandSenior,
		"Junior Developer":         domain.BandJunior,
		"Software Engineer":        domain.BandMid,
		"Engineering Intern":       domain.BandJunior,
		"Principal Architect":      domain.BandSenior,
	}
	for title, want := range cases {
		if got := InferSeniorityBand(title); got != want {
			t.Errorf("InferSeniorityBand(%q) = %v, want %v", title, got, want)
		}
	}
}
