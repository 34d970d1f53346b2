package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexusats/matchengine/internal/domain"
)

// PostgresStore is the Postgres-backed Store implementation, following the
// logical layout of §6: MasterSkills (with JSON-encoded aliases, tokens,
// rules, and a vector column), SkillImplications, Candidates,
// CandidateSkills, SkillTypeWeights, RoleSkillTypeWeights, EmbeddingCache.
// It wraps pgxpool the way the teacher's internal/db.DB does: a thin struct
// over a pool, hand-written SQL, fmt.Errorf(...: %w) wrapping.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool against databaseURL and verifies it
// with a ping, mirroring the teacher's db.Connect.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var _ Store = (*PostgresStore)(nil)

// disambiguationRulesJSON and the aliases/tokens slices are persisted as
// jsonb columns; masterSkillRow mirrors the MasterSkills table's shape for
// scanning.
type masterSkillRow struct {
	aliasesJSON json.RawMessage
	tokensJSON  json.RawMessage
	rulesJSON   json.RawMessage
	vectorJSON  json.RawMessage
}

func (s *PostgresStore) LoadMasterSkills(ctx context.Context) ([]*domain.MasterSkill, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT skill_id, skill_code, skill_name, skill_type, category,
		       parent_skill_id, aliases, tokens, disambiguation_rules, embedding
		FROM master_skills`)
	if err != nil {
		return nil, fmt.Errorf("load master skills: %w", err)
	}
	defer rows.Close()

	var out []*domain.MasterSkill
	for rows.Next() {
		var sk domain.MasterSkill
		var skillType string
		var parentID *int64
		var aliasesJSON, tokensJSON, rulesJSON, vectorJSON []byte

		if err := rows.Scan(&sk.SkillID, &sk.SkillCode, &sk.SkillName, &skillType,
			&sk.Category, &parentID, &aliasesJSON, &tokensJSON, &rulesJSON, &vectorJSON); err != nil {
			return nil, fmt.Errorf("scan master skill: %w", err)
		}

		sk.SkillType = domain.SkillType(skillType)
		sk.ParentSkillID = parentID

		if len(aliasesJSON) > 0 {
			if err := json.Unmarshal(aliasesJSON, &sk.Aliases); err != nil {
				return nil, fmt.Errorf("decode aliases for %s: %w", sk.SkillCode, err)
			}
		}
		if len(tokensJSON) > 0 {
			if err := json.Unmarshal(tokensJSON, &sk.Tokens); err != nil {
				return nil, fmt.Errorf("decode tokens for %s: %w", sk.SkillCode, err)
			}
		}
		if len(rulesJSON) > 0 && string(rulesJSON) != "null" {
			var rules domain.DisambiguationRules
			if err := json.Unmarshal(rulesJSON, &rules); err != nil {
				// Malformed rules for one skill fail open rather than
				// aborting the load: a nil DisambiguationRules makes
				// disambiguate.Passes allow unconditionally for this skill.
				log.Printf("skillmatch: malformed disambiguation_rules for %s, failing open: %v", sk.SkillCode, err)
			} else {
				sk.DisambiguationRules = &rules
			}
		}
		if len(vectorJSON) > 0 {
			if err := json.Unmarshal(vectorJSON, &sk.Embedding); err != nil {
				return nil, fmt.Errorf("decode embedding for %s: %w", sk.SkillCode, err)
			}
		}

		out = append(out, &sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate master skills: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) LoadImplications(ctx context.Context) ([]domain.SkillImplication, error) {
	rows, err := s.pool.Query(ctx, `SELECT from_skill_code, to_skill_code FROM skill_implications`)
	if err != nil {
		return nil, fmt.Errorf("load skill implications: %w", err)
	}
	defer rows.Close()

	var out []domain.SkillImplication
	for rows.Next() {
		var imp domain.SkillImplication
		if err := rows.Scan(&imp.FromSkillCode, &imp.ToSkillCode); err != nil {
			return nil, fmt.Errorf("scan skill implication: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LoadVectorIndex(ctx context.Context) ([]domain.VectorEntry, error) {
	skills, err := s.LoadMasterSkills(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VectorEntry, 0, len(skills))
	for _, sk := range skills {
		if len(sk.Embedding) == 0 {
			continue
		}
		out = append(out, domain.VectorEntry{Skill: sk, Embedding: sk.Embedding})
	}
	return out, nil
}

func (s *PostgresStore) LoadWeightTables(ctx context.Context) (*domain.WeightTables, error) {
	tables := &domain.WeightTables{
		SkillTypeWeight:     make(map[domain.SkillType]float64),
		RoleSkillTypeWeight: make(map[domain.RoleWeightKey]map[domain.SkillType]float64),
	}

	baseRows, err := s.pool.Query(ctx, `SELECT skill_type, base_weight FROM skill_type_weights`)
	if err != nil {
		return nil, fmt.Errorf("load base weights: %w", err)
	}
	for baseRows.Next() {
		var skillType string
		var weight float64
		if err := baseRows.Scan(&skillType, &weight); err != nil {
			baseRows.Close()
			return nil, fmt.Errorf("scan base weight: %w", err)
		}
		tables.SkillTypeWeight[domain.SkillType(skillType)] = weight
	}
	baseRows.Close()
	if err := baseRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate base weights: %w", err)
	}

	roleRows, err := s.pool.Query(ctx, `
		SELECT primary_domain, seniority_level, skill_type, multiplier FROM role_skill_type_weights`)
	if err != nil {
		return nil, fmt.Errorf("load role weights: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var primaryDomain, seniority, skillType string
		var multiplier float64
		if err := roleRows.Scan(&primaryDomain, &seniority, &skillType, &multiplier); err != nil {
			return nil, fmt.Errorf("scan role weight: %w", err)
		}
		key := domain.RoleWeightKey{PrimaryDomain: primaryDomain, SeniorityLevel: domain.SeniorityLevel(seniority)}
		if tables.RoleSkillTypeWeight[key] == nil {
			tables.RoleSkillTypeWeight[key] = make(map[domain.SkillType]float64)
		}
		tables.RoleSkillTypeWeight[key][domain.SkillType(skillType)] = multiplier
	}
	return tables, roleRows.Err()
}

func (s *PostgresStore) GetCandidate(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	var c domain.Candidate
	err := s.pool.QueryRow(ctx,
		`SELECT candidate_id, full_name, raw_experience FROM candidates WHERE candidate_id = $1`,
		candidateID,
	).Scan(&c.CandidateID, &c.FullName, &c.RawExperience)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate %s: %w", candidateID, err)
	}
	return &c, nil
}

func (s *PostgresStore) UpsertCandidate(ctx context.Context, c *domain.Candidate) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO candidates (candidate_id, full_name, raw_experience)
		VALUES ($1, $2, $3)
		ON CONFLICT (candidate_id) DO UPDATE SET full_name = $2, raw_experience = $3`,
		c.CandidateID, c.FullName, c.RawExperience)
	if err != nil {
		return fmt.Errorf("upsert candidate %s: %w", c.CandidateID, err)
	}
	return nil
}

// UpsertCandidateSkills overwrites the candidate's skill rows in a single
// transaction: a delete-then-insert pass, matching the idempotent
// re-ingestion contract in §3 ("re-ingesting the same resume overwrites
// per-candidate skill rows for that candidate").
func (s *PostgresStore) UpsertCandidateSkills(ctx context.Context, candidateID string, metrics map[string]*domain.SkillMetrics) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert candidate skills tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op if already committed

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("clear candidate skills for %s: %w", candidateID, err)
	}

	for skillCode, m := range metrics {
		evidenceSources, err := json.Marshal(m.SortedEvidenceSources())
		if err != nil {
			return fmt.Errorf("encode evidence sources for %s/%s: %w", candidateID, skillCode, err)
		}
		confidenceScores, err := json.Marshal(m.ConfidenceScores)
		if err != nil {
			return fmt.Errorf("encode confidence scores for %s/%s: %w", candidateID, skillCode, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO candidate_skills (
				candidate_id, skill_code, junior_months, mid_months, senior_months,
				total_months, first_used, last_used, evidence_score, evidence_sources,
				max_evidence_strength, confidence_scores, match_confidence,
				normalization_method, normalization_confidence, has_presence
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			candidateID, skillCode, m.JuniorMonths, m.MidMonths, m.SeniorMonths,
			m.TotalMonths, nullableTime(m.FirstUsed), nullableTime(m.LastUsed),
			m.EvidenceScore, evidenceSources, int(m.MaxEvidenceStrength), confidenceScores,
			m.MatchConfidence, string(m.NormalizationMethod), m.NormalizationConfidence, m.HasPresence)
		if err != nil {
			return fmt.Errorf("insert candidate skill %s/%s: %w", candidateID, skillCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert candidate skills tx: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (s *PostgresStore) GetCandidateSkill(ctx context.Context, candidateID, skillCode string) (*domain.SkillMetrics, error) {
	m := &domain.SkillMetrics{CandidateID: candidateID, SkillCode: skillCode}
	var firstUsed, lastUsed *time.Time
	var evidenceSources, confidenceScores []byte
	var method string
	var strength int

	err := s.pool.QueryRow(ctx, `
		SELECT junior_months, mid_months, senior_months, total_months, first_used, last_used,
		       evidence_score, evidence_sources, max_evidence_strength, confidence_scores,
		       match_confidence, normalization_method, normalization_confidence, has_presence
		FROM candidate_skills WHERE candidate_id = $1 AND skill_code = $2`,
		candidateID, skillCode,
	).Scan(&m.JuniorMonths, &m.MidMonths, &m.SeniorMonths, &m.TotalMonths, &firstUsed, &lastUsed,
		&m.EvidenceScore, &evidenceSources, &strength, &confidenceScores,
		&m.MatchConfidence, &method, &m.NormalizationConfidence, &m.HasPresence)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate skill %s/%s: %w", candidateID, skillCode, err)
	}

	if firstUsed != nil {
		m.FirstUsed = *firstUsed
	}
	if lastUsed != nil {
		m.LastUsed = *lastUsed
	}
	m.MaxEvidenceStrength = domain.EvidenceStrength(strength)
	m.NormalizationMethod = domain.NormalizationMethod(method)
	m.EvidenceSources = decodeEvidenceSources(evidenceSources)
	_ = json.Unmarshal(confidenceScores, &m.ConfidenceScores)

	return m, nil
}

func decodeEvidenceSources(raw []byte) map[domain.MentionSource]bool {
	var list []string
	_ = json.Unmarshal(raw, &list)
	out := make(map[domain.MentionSource]bool, len(list))
	for _, s := range list {
		out[domain.MentionSource(s)] = true
	}
	return out
}

// QueryEligibleCandidates runs the evidence/seniority/recency predicate of
// §4.8 directly in SQL: any(acceptable skill ids) with the three conditions
// ANDed, DISTINCT candidate_id.
func (s *PostgresStore) QueryEligibleCandidates(ctx context.Context, q EligibilityQuery) (map[string]bool, error) {
	codes := sortedKeys(q.AcceptableSkillIDs)
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT candidate_id
		FROM candidate_skills
		WHERE skill_code = ANY($1)
		  AND (total_months >= $2 OR max_evidence_strength >= $3)
		  AND mid_months >= $4
		  AND senior_months >= $5
		  AND last_used >= $6`,
		codes, q.MinMonths, int(q.RequiredStrength), q.MidThreshold, q.SeniorThreshold, q.RecencyCutoff)
	if err != nil {
		return nil, fmt.Errorf("query eligible candidates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan eligible candidate: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// QueryCategoryCandidates counts distinct qualifying skill codes per
// candidate within category and keeps those meeting min_required.
func (s *PostgresStore) QueryCategoryCandidates(ctx context.Context, q CategoryQuery) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cs.candidate_id
		FROM candidate_skills cs
		JOIN master_skills ms ON ms.skill_code = cs.skill_code
		WHERE ms.category = $1
		  AND cs.max_evidence_strength >= $2
		  AND cs.mid_months >= $3
		  AND cs.senior_months >= $4
		  AND cs.last_used >= $5
		GROUP BY cs.candidate_id
		HAVING COUNT(DISTINCT cs.skill_code) >= $6`,
		q.Category, int(q.RequiredStrength), q.MidThreshold, q.SeniorThreshold, q.RecencyCutoff, q.MinRequired)
	if err != nil {
		return nil, fmt.Errorf("query category candidates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category candidate: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (s *PostgresStore) BestCategorySkill(ctx context.Context, candidateID, category string) (*domain.SkillMetrics, error) {
	var skillCode string
	err := s.pool.QueryRow(ctx, `
		SELECT cs.skill_code
		FROM candidate_skills cs
		JOIN master_skills ms ON ms.skill_code = cs.skill_code
		WHERE cs.candidate_id = $1 AND ms.category = $2
		ORDER BY cs.total_months DESC, cs.max_evidence_strength DESC
		LIMIT 1`,
		candidateID, category,
	).Scan(&skillCode)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("best category skill for %s/%s: %w", candidateID, category, err)
	}
	return s.GetCandidateSkill(ctx, candidateID, skillCode)
}

func (s *PostgresStore) EmbeddingCacheGet(ctx context.Context, text string) ([]float64, bool, error) {
	var embeddingJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT embedding FROM embedding_cache WHERE input_text = $1`, text,
	).Scan(&embeddingJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("embedding cache get: %w", err)
	}

	var vec []float64
	if err := json.Unmarshal(embeddingJSON, &vec); err != nil {
		return nil, false, fmt.Errorf("decode cached embedding: %w", err)
	}

	_, _ = s.pool.Exec(ctx, `
		UPDATE embedding_cache SET access_count = access_count + 1, last_access = NOW()
		WHERE input_text = $1`, text)

	return vec, true, nil
}

// EmbeddingCachePut is at-most-once per key: a conflicting insert is a
// no-op overwrite, both of which are acceptable per §5.
func (s *PostgresStore) EmbeddingCachePut(ctx context.Context, text string, embedding []float64) error {
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("encode embedding for cache: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO embedding_cache (input_text, embedding, access_count, last_access)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (input_text) DO UPDATE SET embedding = $2`,
		text, embeddingJSON)
	if err != nil {
		return fmt.Errorf("embedding cache put: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
