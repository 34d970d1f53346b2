// Package ingestion models the external collaborators the matching engine
// sits downstream of: PDF-to-chunks extraction and the LLM-driven identity
// and raw-experience extraction. Per the specification's scope (§1), these
// are out of scope for this repository — only their interface contracts are
// given here, so the worker pool and profile builder have something concrete
// to depend on without pulling in a PDF parser or owning prompt plumbing
// that belongs to internal/llm.
package ingestion

import "context"

// Chunk is one extracted unit of text from a source document, in document
// order. A concrete PDF extractor would populate Page for provenance; the
// matching core never inspects it.
type Chunk struct {
	Text string
	Page int
}

// DocumentExtractor turns a raw PDF byte stream into an ordered list of text
// chunks. The concrete implementation (PDF parsing, layout reconstruction)
// lives outside this repository; this interface is what the worker pool
// depends on to stay decoupled from it.
type DocumentExtractor interface {
	ExtractChunks(ctx context.Context, pdf []byte) ([]Chunk, error)
}

// RawExtractedSkill is one skill mention as tagged by the extractor, per the
// ingestion input contract (§6). Source mirrors domain.MentionSource's
// string values but is kept independent here since this package must not
// import domain: it describes an external contract, not engine state.
type RawExtractedSkill struct {
	RawName string
	Source  string // technology_list | skills_section | responsibility | implicit
}

// RawExperienceItem is one parsed employment entry as produced by the
// LLM-driven raw-experience extractor (§6 "Ingestion input contract").
// EndDateRaw is "Present" for an ongoing role (an empty value is treated
// the same way); callers resolve "Present"/"N/A" via
// internal/profile.ResolveDate.
type RawExperienceItem struct {
	JobTitle         string
	Organization     string
	StartDateRaw     string
	EndDateRaw       string
	Technologies     []string
	Domains          []string
	Responsibilities []string
	ExtractedSkills  []RawExtractedSkill
}

// IdentityExtractor resolves a candidate's full name from raw resume text.
// The LLM-backed implementation lives in cmd/matchengine/llm_adapters.go.
type IdentityExtractor interface {
	ExtractIdentity(ctx context.Context, resumeText string) (fullName string, err error)
}

// ExperienceExtractor turns raw resume text into a list of RawExperienceItem
// entries. A concrete implementation wraps the structured LLM extractor in
// internal/llm (see llm.RawExperienceSchema) with a specific prompt and
// response-parsing strategy; the LLM-backed implementation lives in
// cmd/matchengine/llm_adapters.go.
type ExperienceExtractor interface {
	ExtractExperience(ctx context.Context, resumeText string) ([]RawExperienceItem, error)
}

// JDExtractor turns raw job-description text into a domain-shaped profile.
// It is deliberately untyped on the return value (an external collaborator
// returns the JSON the LLM produced) because internal/engine decodes this
// raw shape into a domain.JobSkillProfile and internal/jdprofile then
// applies the deterministic post-processing step to it.
type JDExtractor interface {
	ExtractJD(ctx context.Context, jobDescriptionText string) (rawJSON []byte, err error)
}
