package store

import (
	"context"
	"testing"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
)

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMemoryStore_UpsertAndGetCandidate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if got, err := s.GetCandidate(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil, nil for unknown candidate, got %v, %v", got, err)
	}

	c := &domain.Candidate{CandidateID: "cand-1", FullName: "Ada Lovelace"}
	if err := s.UpsertCandidate(ctx, c); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCandidate(ctx, "cand-1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.FullName != "Ada Lovelace" {
		t.Fatalf("expected stored candidate, got %v", got)
	}
}

func TestMemoryStore_UpsertCandidateSkillsOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go":     {SkillCode: "language_go", TotalMonths: 12},
		"language_python": {SkillCode: "language_python", TotalMonths: 6},
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"language_go": {SkillCode: "language_go", TotalMonths: 24},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCandidateSkill(ctx, "cand-1", "language_go")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.TotalMonths != 24 {
		t.Fatalf("expected overwritten row with 24 months, got %v", got)
	}

	stale, err := s.GetCandidateSkill(ctx, "cand-1", "language_python")
	if err != nil {
		t.Fatal(err)
	}
	if stale != nil {
		t.Fatalf("expected python row dropped by full overwrite, got %v", stale)
	}
}

func TestMemoryStore_QueryEligibleCandidates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.UpsertCandidateSkills(ctx, "eligible", map[string]*domain.SkillMetrics{
		"language_go": {SkillCode: "language_go", TotalMonths: 24, MaxEvidenceStrength: domain.EvidenceSkillsSection, LastUsed: now},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertCandidateSkills(ctx, "insufficient", map[string]*domain.SkillMetrics{
		"language_go": {SkillCode: "language_go", TotalMonths: 2, MaxEvidenceStrength: domain.EvidenceSkillsSection, LastUsed: now},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.QueryEligibleCandidates(ctx, EligibilityQuery{
		AcceptableSkillIDs: map[string]bool{"language_go": true},
		MinMonths:          6,
		RequiredStrength:   domain.EvidenceSkillsSection,
		RecencyCutoff:      now.AddDate(-3, 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got["eligible"] || got["insufficient"] {
		t.Fatalf("expected only 'eligible' candidate, got %v", got)
	}
}

func TestMemoryStore_QueryCategoryCandidates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.SeedMasterSkills([]*domain.MasterSkill{
		{SkillID: 1, SkillCode: "db_postgres", SkillName: "PostgreSQL", Category: "databases"},
		{SkillID: 2, SkillCode: "db_mysql", SkillName: "MySQL", Category: "databases"},
	})

	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"db_postgres": {SkillCode: "db_postgres", TotalMonths: 12, MaxEvidenceStrength: domain.EvidenceSkillsSection, LastUsed: now},
		"db_mysql":    {SkillCode: "db_mysql", TotalMonths: 12, MaxEvidenceStrength: domain.EvidenceSkillsSection, LastUsed: now},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.QueryCategoryCandidates(ctx, CategoryQuery{
		Category:         "databases",
		MinRequired:      2,
		RequiredStrength: domain.EvidenceSkillsSection,
		RecencyCutoff:    now.AddDate(-3, 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got["cand-1"] {
		t.Fatalf("expected cand-1 to satisfy 2-of-category requirement, got %v", got)
	}

	got, err = s.QueryCategoryCandidates(ctx, CategoryQuery{
		Category:         "databases",
		MinRequired:      3,
		RequiredStrength: domain.EvidenceSkillsSection,
		RecencyCutoff:    now.AddDate(-3, 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got["cand-1"] {
		t.Fatalf("expected cand-1 to fail a 3-of-category requirement it can't meet, got %v", got)
	}
}

func TestMemoryStore_BestCategorySkill(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.SeedMasterSkills([]*domain.MasterSkill{
		{SkillID: 1, SkillCode: "db_postgres", SkillName: "PostgreSQL", Category: "databases"},
		{SkillID: 2, SkillCode: "db_mysql", SkillName: "MySQL", Category: "databases"},
	})
	if err := s.UpsertCandidateSkills(ctx, "cand-1", map[string]*domain.SkillMetrics{
		"db_postgres": {SkillCode: "db_postgres", TotalMonths: 36},
		"db_mysql":    {SkillCode: "db_mysql", TotalMonths: 12},
	}); err != nil {
		t.Fatal(err)
	}

	best, err := s.BestCategorySkill(ctx, "cand-1", "databases")
	if err != nil {
		t.Fatal(err)
	}
	if best == nil || best.SkillCode != "db_postgres" {
		t.Fatalf("expected db_postgres as best (36 months), got %v", best)
	}
}

func TestMemoryStore_EmbeddingCache(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := s.EmbeddingCacheGet(ctx, "react"); err != nil || ok {
		t.Fatalf("expected cache miss for unseeded key, got ok=%v err=%v", ok, err)
	}

	if err := s.EmbeddingCachePut(ctx, "react", []float64{0.1, 0.2}); err != nil {
		t.Fatal(err)
	}

	vec, ok, err := s.EmbeddingCacheGet(ctx, "react")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(vec) != 2 {
		t.Fatalf("expected cache hit with 2-dim vector, got ok=%v vec=%v", ok, vec)
	}
}
