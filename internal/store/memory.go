package store

import (
	"context"
	"sync"
	"time"

	"github.com/nexusats/matchengine/internal/domain"
)

// candidatePasses evaluates the shared evidence/seniority/recency predicate
// from §4.8 against a single candidate skill row.
func candidatePasses(m *domain.SkillMetrics, minMonths int, requiredStrength domain.EvidenceStrength, midThreshold, seniorThreshold int, recencyCutoff time.Time) bool {
	if m.TotalMonths < minMonths && m.MaxEvidenceStrength < requiredStrength {
		return false
	}
	if m.MidMonths < midThreshold || m.SeniorMonths < seniorThreshold {
		return false
	}
	if m.LastUsed.Before(recencyCutoff) {
		return false
	}
	return true
}

// MemoryStore is an in-process Store implementation backed by plain maps
// guarded by a mutex. It is the reference implementation used by tests and
// by the CLI's file-driven commands; MemoryStore satisfies the exact same
// contract PostgresStore does; it holds the engine's single shared
// mutable structure in the concurrency model (§5): the embedding cache.
type MemoryStore struct {
	mu sync.RWMutex

	masterSkills  []*domain.MasterSkill
	implications  []domain.SkillImplication
	vectorIndex   []domain.VectorEntry
	weightTables  *domain.WeightTables
	candidates    map[string]*domain.Candidate
	candidateSkills map[string]map[string]*domain.SkillMetrics // candidateID -> skillCode -> metrics
	embeddingCache  map[string][]float64
}

// NewMemoryStore builds an empty MemoryStore. Seed* helpers populate the
// read-mostly configuration tables.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates:      make(map[string]*domain.Candidate),
		candidateSkills: make(map[string]map[string]*domain.SkillMetrics),
		embeddingCache:  make(map[string][]float64),
	}
}

// SeedMasterSkills loads the taxonomy. Call once at construction.
func (s *MemoryStore) SeedMasterSkills(skills []*domain.MasterSkill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masterSkills = skills
}

// SeedImplications loads the implication graph.
func (s *MemoryStore) SeedImplications(implications []domain.SkillImplication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.implications = implications
}

// SeedVectorIndex loads the embedding table used to build the vector index.
func (s *MemoryStore) SeedVectorIndex(entries []domain.VectorEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectorIndex = entries
}

// SeedWeightTables loads the ranker's weight tables.
func (s *MemoryStore) SeedWeightTables(tables *domain.WeightTables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weightTables = tables
}

func (s *MemoryStore) LoadMasterSkills(ctx context.Context) ([]*domain.MasterSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.MasterSkill, len(s.masterSkills))
	copy(out, s.masterSkills)
	return out, nil
}

func (s *MemoryStore) LoadImplications(ctx context.Context) ([]domain.SkillImplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SkillImplication, len(s.implications))
	copy(out, s.implications)
	return out, nil
}

func (s *MemoryStore) LoadVectorIndex(ctx context.Context) ([]domain.VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.VectorEntry, len(s.vectorIndex))
	copy(out, s.vectorIndex)
	return out, nil
}

func (s *MemoryStore) LoadWeightTables(ctx context.Context) (*domain.WeightTables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weightTables, nil
}

func (s *MemoryStore) GetCandidate(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidates[candidateID], nil
}

func (s *MemoryStore) UpsertCandidate(ctx context.Context, c *domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.CandidateID] = c
	return nil
}

// UpsertCandidateSkills overwrites the candidate's entire skill row set,
// matching the idempotent re-ingestion contract in §3's lifecycle note.
func (s *MemoryStore) UpsertCandidateSkills(ctx context.Context, candidateID string, metrics map[string]*domain.SkillMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]*domain.SkillMetrics, len(metrics))
	for code, m := range metrics {
		copied[code] = m
	}
	s.candidateSkills[candidateID] = copied
	return nil
}

func (s *MemoryStore) GetCandidateSkill(ctx context.Context, candidateID, skillCode string) (*domain.SkillMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	skills, ok := s.candidateSkills[candidateID]
	if !ok {
		return nil, nil
	}
	return skills[skillCode], nil
}

func (s *MemoryStore) QueryEligibleCandidates(ctx context.Context, q EligibilityQuery) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]bool)
	for candidateID, skills := range s.candidateSkills {
		for skillCode, m := range skills {
			if !q.AcceptableSkillIDs[skillCode] {
				continue
			}
			if candidatePasses(m, q.MinMonths, q.RequiredStrength, q.MidThreshold, q.SeniorThreshold, q.RecencyCutoff) {
				result[candidateID] = true
				break
			}
		}
	}
	return result, nil
}

func (s *MemoryStore) QueryCategoryCandidates(ctx context.Context, q CategoryQuery) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skillToCategory := make(map[string]string, len(s.masterSkills))
	for _, sk := range s.masterSkills {
		skillToCategory[sk.SkillCode] = sk.Category
	}

	result := make(map[string]bool)
	for candidateID, skills := range s.candidateSkills {
		distinct := make(map[string]bool)
		for skillCode, m := range skills {
			if skillToCategory[skillCode] != q.Category {
				continue
			}
			if candidatePasses(m, 0, q.RequiredStrength, q.MidThreshold, q.SeniorThreshold, q.RecencyCutoff) {
				distinct[skillCode] = true
			}
		}
		if len(distinct) >= q.MinRequired {
			result[candidateID] = true
		}
	}
	return result, nil
}

func (s *MemoryStore) BestCategorySkill(ctx context.Context, candidateID, category string) (*domain.SkillMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skillToCategory := make(map[string]string, len(s.masterSkills))
	for _, sk := range s.masterSkills {
		skillToCategory[sk.SkillCode] = sk.Category
	}

	skills, ok := s.candidateSkills[candidateID]
	if !ok {
		return nil, nil
	}

	var best *domain.SkillMetrics
	for skillCode, m := range skills {
		if skillToCategory[skillCode] != category {
			continue
		}
		if best == nil || betterCategoryCandidate(m, best) {
			best = m
		}
	}
	return best, nil
}

// betterCategoryCandidate implements the lexicographic
// (total_months, max_evidence_strength) tie-break §4.9 specifies for
// picking a CategoryRequirement's representative skill.
func betterCategoryCandidate(a, b *domain.SkillMetrics) bool {
	if a.TotalMonths != b.TotalMonths {
		return a.TotalMonths > b.TotalMonths
	}
	return a.MaxEvidenceStrength > b.MaxEvidenceStrength
}

func (s *MemoryStore) EmbeddingCacheGet(ctx context.Context, text string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.embeddingCache[text]
	return v, ok, nil
}

func (s *MemoryStore) EmbeddingCachePut(ctx context.Context, text string, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddingCache[text] = embedding
	return nil
}
