// Package skillmatch implements the four-tier skill matcher (C2): exact,
// alias, token/rule, and vector resolution of a raw mention against the
// master skill table, gated by the disambiguator on any positive hit.
package skillmatch

import (
	"context"
	"math"

	"github.com/nexusats/matchengine/internal/canon"
	"github.com/nexusats/matchengine/internal/disambiguate"
	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/vectorindex"
)

// DefaultVectorThreshold is the minimum accepted cosine similarity for a
// vector match used when New is called without an explicit override.
const DefaultVectorThreshold = 0.92

// Embedder produces a query embedding for a canonicalized skill mention.
// It is the only point at which the matcher touches an external
// collaborator; the ranking core never calls it directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Matcher resolves raw skill mentions against a fixed master skill table.
// Exact and alias lookups are served from precomputed maps; rule matching
// scans the master list; vector matching delegates to the vector index.
type Matcher struct {
	bySkillName     map[string]*domain.MasterSkill
	byAlias         map[string]*domain.MasterSkill
	ruleSkills      []*domain.MasterSkill
	index           *vectorindex.Index
	embedder        Embedder
	vectorThreshold float64
}

// New builds a Matcher over the given master skill table and vector index,
// using DefaultVectorThreshold as the vector-tier acceptance cutoff.
// embedder may be nil, in which case the vector tier is skipped.
func New(skills []*domain.MasterSkill, index *vectorindex.Index, embedder Embedder) *Matcher {
	return NewWithThreshold(skills, index, embedder, DefaultVectorThreshold)
}

// NewWithThreshold is New with an explicit vector-match threshold, wired
// from the engine's configured vector_match_threshold.
func NewWithThreshold(skills []*domain.MasterSkill, index *vectorindex.Index, embedder Embedder, vectorThreshold float64) *Matcher {
	m := &Matcher{
		bySkillName:     make(map[string]*domain.MasterSkill, len(skills)),
		byAlias:         make(map[string]*domain.MasterSkill),
		index:           index,
		embedder:        embedder,
		vectorThreshold: vectorThreshold,
	}

	for _, s := range skills {
		m.bySkillName[canon.Canonicalize(s.SkillName)] = s
		for _, alias := range s.Aliases {
			key := canon.Canonicalize(alias)
			if _, exists := m.byAlias[key]; !exists {
				m.byAlias[key] = s
			}
		}
		if len(s.Tokens) > 0 {
			m.ruleSkills = append(m.ruleSkills, s)
		}
	}

	return m
}

// Match resolves rawName against the master skill table. contextText is the
// surrounding text used by the disambiguator. allowImplicit is accepted for
// contract symmetry with the spec but does not change matcher behavior: it
// only affects whether the caller later grants evidence credit (the
// aggregator's concern), since the matcher itself never fabricates implicit
// mentions.
func (m *Matcher) Match(ctx context.Context, rawName, contextText string, allowImplicit bool) domain.MatchResult {
	_ = allowImplicit
	canonicalRaw := canon.Canonicalize(rawName)
	canonicalContext := canon.Canonicalize(contextText)
	if canonicalRaw == "" {
		return domain.NoMatch
	}

	if skill, ok := m.bySkillName[canonicalRaw]; ok {
		return m.finalize(skill, 1.00, domain.MethodExact, canonicalRaw, canonicalContext)
	}

	if skill, ok := m.byAlias[canonicalRaw]; ok {
		return m.finalize(skill, 0.95, domain.MethodAlias, canonicalRaw, canonicalContext)
	}

	rawTokens := canon.Tokenize(canonicalRaw)
	if skill := m.matchRule(rawTokens, canonicalRaw); skill != nil {
		return m.finalize(skill, 0.90, domain.MethodRule, canonicalRaw, canonicalContext)
	}

	if m.index != nil && m.embedder != nil {
		if result, ok := m.matchVector(ctx, canonicalRaw, canonicalContext); ok {
			return result
		}
	}

	return domain.NoMatch
}

// matchRule looks for a MasterSkill whose token list is a subset of the raw
// mention's tokens. The single-character guardrail skips a rule whose
// token list contains a length-1 token (e.g. "c", "r") unless the raw
// mention canonicalizes to exactly one token, preventing "c" from matching
// a multi-word mention such as "objective c". Tokens are compared as whole
// words, so "c" never matches inside a word like "architecture".
func (m *Matcher) matchRule(rawTokens map[string]bool, canonicalRaw string) *domain.MasterSkill {
	for _, skill := range m.ruleSkills {
		hasSingleCharToken := false
		for _, t := range skill.Tokens {
			if len(t) == 1 {
				hasSingleCharToken = true
				break
			}
		}
		if hasSingleCharToken && len(canon.Tokenize(canonicalRaw)) != 1 {
			continue
		}

		allPresent := true
		for _, t := range skill.Tokens {
			if !rawTokens[t] {
				allPresent = false
				break
			}
		}
		if allPresent {
			return skill
		}
	}
	return nil
}

func (m *Matcher) matchVector(ctx context.Context, canonicalRaw, canonicalContext string) (domain.MatchResult, bool) {
	vec, err := m.embedder.Embed(ctx, canonicalRaw)
	if err != nil || len(vec) == 0 {
		return domain.MatchResult{}, false
	}

	entry, score := m.index.Search(vec)
	if entry == nil || score < m.vectorThreshold {
		return domain.MatchResult{}, false
	}

	confidence := math.Round(score*1000) / 1000
	result := m.finalize(entry.Skill, confidence, domain.MethodVector, canonicalRaw, canonicalContext)
	return result, result.Matched
}

// finalize applies the disambiguator after a positive tier match. A blocked
// match reports MethodDisambiguationBlocked with zero confidence, per the
// matcher's documented no_match/disambiguation_blocked contract.
func (m *Matcher) finalize(skill *domain.MasterSkill, confidence float64, method domain.NormalizationMethod, canonicalRaw, canonicalContext string) domain.MatchResult {
	if !disambiguate.Passes(skill.DisambiguationRules, canonicalRaw, canonicalContext) {
		return domain.MatchResult{Matched: false, Method: domain.MethodDisambiguationBlocked}
	}
	return domain.MatchResult{Matched: true, Skill: skill, Confidence: confidence, Method: method}
}
