// Package domain holds the data model shared across the matching engine:
// the master skill taxonomy, candidates and their skill accumulators, job
// requirement sets, and the weight tables the ranker consults. Nothing in
// this package performs I/O; it is the vocabulary the rest of the engine
// is written against.
package domain

import (
	"sort"
	"time"
)

// SkillType enumerates the kind of a master skill, used to look up
// role-adjusted weights in the ranker.
type SkillType string

const (
	SkillTypeProgramming SkillType = "programming"
	SkillTypeFramework   SkillType = "framework"
	SkillTypeCloud       SkillType = "cloud"
	SkillTypeDatabase    SkillType = "database"
	SkillTypeTool        SkillType = "tool"
	SkillTypePlatform    SkillType = "platform"
	SkillTypeMethodology SkillType = "methodology"
	SkillTypeOther       SkillType = "other"
)

// DisambiguationRules gates a positive match on surrounding context. Missing
// or malformed rules fail open (allow).
type DisambiguationRules struct {
	BlockIfContains []string `json:"block_if_contains,omitempty"`
	AllowIfContains []string `json:"allow_if_contains,omitempty"`
}

// MasterSkill is a taxonomy node. parent_skill_id forms a DAG, never a
// cycle; skill_code is the stable, unique key other tables reference.
type MasterSkill struct {
	SkillID            int64
	SkillCode          string
	SkillName          string
	SkillType          SkillType
	Category           string
	ParentSkillID      *int64
	Aliases            []string
	Tokens             []string
	DisambiguationRules *DisambiguationRules
	Embedding          []float64
}

// SkillImplication is a directed edge: demonstrated experience in From
// implies credit for To (e.g. framework_aspnet -> framework_dotnet). Used
// only by the eligibility gate.
type SkillImplication struct {
	FromSkillCode string
	ToSkillCode   string
}

// Candidate is created once per resume ingestion.
type Candidate struct {
	CandidateID    string
	FullName       string
	RawExperience  string
}

// SeniorityBand buckets a role's months into junior/mid/senior credit.
type SeniorityBand string

const (
	BandJunior SeniorityBand = "junior"
	BandMid    SeniorityBand = "mid"
	BandSenior SeniorityBand = "senior"
)

// CandidateRole is one parsed employment entry from a resume.
type CandidateRole struct {
	Title                  string
	VerifiedDurationMonths int
	StartDate              time.Time
	EndDate                time.Time
	RawTechnologies        []string
	Domains                []string
	Mentions               []SkillMention
}

// MentionSource identifies where in a role a skill mention was observed.
type MentionSource string

const (
	SourceSkillsSection  MentionSource = "skills_section"
	SourceTechnologyList MentionSource = "technology_list"
	SourceResponsibility MentionSource = "responsibility"
	SourceImplicit       MentionSource = "implicit"
	SourceRoleTitle      MentionSource = "role_title"
)

// SkillMention is a single observed reference to a skill within a role.
type SkillMention struct {
	RawName    string
	Source     MentionSource
	Confidence float64
	Context    string
}

// NormalizationMethod is the matcher tier that produced a match. Priority
// for monotonicity and tie-breaking is exact > alias > rule > vector > none.
type NormalizationMethod string

const (
	MethodNone   NormalizationMethod = "none"
	MethodVector NormalizationMethod = "vector"
	MethodRule   NormalizationMethod = "rule"
	MethodAlias  NormalizationMethod = "alias"
	MethodExact  NormalizationMethod = "exact"
)

// methodPriority ranks methods so the strongest observed one wins when
// folding multiple mentions onto the same skill.
var methodPriority = map[NormalizationMethod]int{
	MethodNone:   0,
	MethodVector: 1,
	MethodRule:   2,
	MethodAlias:  3,
	MethodExact:  4,
}

// Priority returns m's rank in the exact > alias > rule > vector > none
// ordering; higher is stronger.
func (m NormalizationMethod) Priority() int {
	return methodPriority[m]
}

// Stronger reports whether m outranks other in the method priority order.
func (m NormalizationMethod) Stronger(other NormalizationMethod) bool {
	return m.Priority() > other.Priority()
}

// EvidenceStrength is an ordinal measure of how load-bearing a mention is.
type EvidenceStrength int

const (
	EvidenceNone           EvidenceStrength = 0
	EvidenceSkillsSection  EvidenceStrength = 1
	EvidenceRoleTitle      EvidenceStrength = 2
	EvidenceResponsibility EvidenceStrength = 3
)

// SkillMetrics is the per-candidate, per-master-skill accumulator built by
// the aggregator and consumed by the eligibility gate and ranker.
//
// Invariants: TotalMonths == JuniorMonths+MidMonths+SeniorMonths;
// FirstUsed <= LastUsed; if EvidenceSources is empty then TotalMonths == 0;
// MaxEvidenceStrength is consistent with the observed EvidenceSources.
type SkillMetrics struct {
	CandidateID           string
	SkillCode             string
	JuniorMonths          int
	MidMonths             int
	SeniorMonths          int
	TotalMonths           int
	FirstUsed             time.Time
	LastUsed              time.Time
	EvidenceScore         float64
	EvidenceSources       map[MentionSource]bool
	MaxEvidenceStrength   EvidenceStrength
	ConfidenceScores      []float64
	MatchConfidence       float64
	NormalizationMethod   NormalizationMethod
	NormalizationConfidence float64
	HasPresence           bool
}

// SortedEvidenceSources returns EvidenceSources as a sorted slice so
// persistence and equality checks are stable across runs.
func (m *SkillMetrics) SortedEvidenceSources() []string {
	out := make([]string, 0, len(m.EvidenceSources))
	for s := range m.EvidenceSources {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}
