// Package store defines the persistence interface (C10): a narrow
// contract for master skills, candidate skills, weight tables, and the
// embedding cache. It is deliberately a contract, not a schema — the
// logical layout in §6 of the specification informs the Postgres
// implementation but callers only ever see this interface.
package store

import (
	"context"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
)

// Store is the abstract persistence contract the engine is built against.
type Store interface {
	// LoadMasterSkills returns the full taxonomy, read once at engine
	// construction and treated as immutable thereafter.
	LoadMasterSkills(ctx context.Context) ([]*domain.MasterSkill, error)

	// LoadImplications returns the SkillImplication edges used only by the
	// eligibility gate.
	LoadImplications(ctx context.Context) ([]domain.SkillImplication, error)

	// LoadVectorIndex returns every master skill's decoded embedding with
	// its back-reference, for building the in-memory vector index.
	LoadVectorIndex(ctx context.Context) ([]domain.VectorEntry, error)

	// LoadWeightTables returns the base and role-adjusted skill-type
	// weight tables the ranker consults.
	LoadWeightTables(ctx context.Context) (*domain.WeightTables, error)

	// UpsertCandidateSkills overwrites the candidate's skill rows with the
	// given skill_code -> SkillMetrics map. Re-ingestion of the same
	// resume is idempotent: a second call with identical metrics leaves
	// the stored rows unchanged.
	UpsertCandidateSkills(ctx context.Context, candidateID string, metrics map[string]*domain.SkillMetrics) error

	// GetCandidate returns a candidate's stored record, or nil if absent.
	GetCandidate(ctx context.Context, candidateID string) (*domain.Candidate, error)

	// UpsertCandidate stores the candidate's identity row.
	UpsertCandidate(ctx context.Context, c *domain.Candidate) error

	// GetCandidateSkill returns the stored SkillMetrics for
	// (candidateID, skillCode), or nil if the candidate has no evidence
	// for that skill.
	GetCandidateSkill(ctx context.Context, candidateID, skillCode string) (*domain.SkillMetrics, error)

	// QueryEligibleCandidates returns the set of candidate IDs with at
	// least one row among acceptableSkillIDs satisfying the evidence,
	// seniority, and recency predicates of §4.8.
	QueryEligibleCandidates(ctx context.Context, q EligibilityQuery) (map[string]bool, error)

	// QueryCategoryCandidates returns the set of candidate IDs with at
	// least minRequired distinct skill codes in category satisfying the
	// same predicates.
	QueryCategoryCandidates(ctx context.Context, q CategoryQuery) (map[string]bool, error)

	// BestCategorySkill returns the candidate's best-evidenced skill row
	// within category (by (total_months, max_evidence_strength)
	// descending), for the ranker's per-candidate breakdown.
	BestCategorySkill(ctx context.Context, candidateID, category string) (*domain.SkillMetrics, error)

	// EmbeddingCacheGet retrieves a cached embedding for text, if present.
	EmbeddingCacheGet(ctx context.Context, text string) ([]float64, bool, error)

	// EmbeddingCachePut stores an embedding for text. Duplicate puts for
	// the same key are safe no-ops or overwrites; both are acceptable.
	EmbeddingCachePut(ctx context.Context, text string, embedding []float64) error
}

// EligibilityQuery bundles QueryEligibleCandidates' parameters.
type EligibilityQuery struct {
	AcceptableSkillIDs map[string]bool // skill codes
	MinMonths          int
	RequiredStrength   domain.EvidenceStrength
	MidThreshold       int
	SeniorThreshold    int
	RecencyCutoff      time.Time
}

// CategoryQuery bundles QueryCategoryCandidates' parameters.
type CategoryQuery struct {
	Category         string
	MinRequired      int
	RequiredStrength domain.EvidenceStrength
	MidThreshold     int
	SeniorThreshold  int
	RecencyCutoff    time.Time
}
