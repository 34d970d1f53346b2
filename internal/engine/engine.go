// Package engine wires the matching core's components (C1-C10) into the
// two job pipelines the HTTP surface exposes: candidate ingestion and
// employer matching. Nothing here implements ranking logic itself — it
// only sequences calls into skillmatch, aggregator, profile, eligibility,
// and ranking, running each job on the fixed-size worker pool.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexusats/matchengine/internal/aggregator"
	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/eligibility"
	"github.com/nexusats/matchengine/internal/ingestion"
	"github.com/nexusats/matchengine/internal/jdprofile"
	"github.com/nexusats/matchengine/internal/profile"
	"github.com/nexusats/matchengine/internal/ranking"
	"github.com/nexusats/matchengine/internal/server"
	"github.com/nexusats/matchengine/internal/skillmatch"
	"github.com/nexusats/matchengine/internal/store"
	"github.com/nexusats/matchengine/internal/vectorindex"
	"github.com/nexusats/matchengine/internal/worker"
)

var _ server.Engine = (*Engine)(nil)

// CandidateIngestResult is the worker.Job.Result shape for a completed
// candidate-ingestion job.
type CandidateIngestResult struct {
	CandidateID string `json:"candidate_id"`
	FullName    string `json:"full_name"`
	SkillsFound int    `json:"skills_found"`
}

// MatchResult is the worker.Job.Result shape for a completed
// employer-match job.
type MatchResult struct {
	Profile    *domain.JobSkillProfile `json:"-"`
	Candidates []ranking.CandidateScore `json:"candidates"`
}

// Engine ties the persistence layer, the four-tier matcher, the
// aggregator, the eligibility gate, and the ranker into the two job
// pipelines described in §5/§6. A server.Engine adapter is just this type.
type Engine struct {
	store      store.Store
	matcher    *skillmatch.Matcher
	aggregator *aggregator.Aggregator
	gate       *eligibility.Gate
	ranker     *ranking.Ranker
	pool       *worker.Pool

	docs       ingestion.DocumentExtractor
	identity   ingestion.IdentityExtractor
	experience ingestion.ExperienceExtractor
	jd         ingestion.JDExtractor

	referenceDate time.Time
	rankLimit     int
}

// Config bundles the engine's external collaborators and tuning knobs.
// Every extractor is a collaborator outside this repository's scope; New
// panics on a nil Store or Pool since those two are load-bearing for every
// operation, but tolerates nil extractors, failing individual jobs
// instead if one is actually invoked without its collaborator wired.
type Config struct {
	Store      store.Store
	Matcher    *skillmatch.Matcher
	Gate       *eligibility.Gate
	Ranker     *ranking.Ranker
	Pool       *worker.Pool
	Docs       ingestion.DocumentExtractor
	Identity   ingestion.IdentityExtractor
	Experience ingestion.ExperienceExtractor
	JD         ingestion.JDExtractor

	ReferenceDate time.Time
	RankLimit     int
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	if cfg.Store == nil {
		panic("engine: Config.Store is required")
	}
	if cfg.Pool == nil {
		panic("engine: Config.Pool is required")
	}

	referenceDate := cfg.ReferenceDate
	if referenceDate.IsZero() {
		referenceDate = profile.DefaultReferenceDate
	}

	return &Engine{
		store:         cfg.Store,
		matcher:       cfg.Matcher,
		aggregator:    aggregator.New(cfg.Matcher),
		gate:          cfg.Gate,
		ranker:        cfg.Ranker,
		pool:          cfg.Pool,
		docs:          cfg.Docs,
		identity:      cfg.Identity,
		experience:    cfg.Experience,
		jd:            cfg.JD,
		referenceDate: referenceDate,
		rankLimit:     cfg.RankLimit,
	}
}

// Bootstrap loads the immutable taxonomy, weight tables, and vector index
// from s and builds the matcher, eligibility gate, and ranker over them.
// vectorMatchThreshold and recencyMonthsLimit come from the engine's
// configuration (config.Config.VectorMatchThreshold,
// config.Config.RecencyMonthsLimit). Call this once at process start; the
// resulting components are safe for concurrent use by every subsequent job.
func Bootstrap(ctx context.Context, s store.Store, embedder skillmatch.Embedder, vectorMatchThreshold float64, recencyMonthsLimit int) (*skillmatch.Matcher, *eligibility.Gate, *ranking.Ranker, error) {
	skills, err := s.LoadMasterSkills(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load master skills: %w", err)
	}

	implications, err := s.LoadImplications(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load skill implications: %w", err)
	}

	vectorEntries, err := s.LoadVectorIndex(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load vector index: %w", err)
	}

	weights, err := s.LoadWeightTables(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load weight tables: %w", err)
	}

	index := vectorindex.New(vectorEntries)
	matcher := skillmatch.NewWithThreshold(skills, index, embedder, vectorMatchThreshold)
	taxonomy := eligibility.NewTaxonomy(skills, implications)
	gate := eligibility.NewWithRecencyLimit(s, matcher, taxonomy, recencyMonthsLimit)
	ranker := ranking.New(s, matcher, weights)

	return matcher, gate, ranker, nil
}

// SubmitCandidateIngestion runs the resume pipeline: document extraction,
// identity and experience extraction, profile building, and skill
// aggregation, persisting the result under a freshly minted candidate id.
func (e *Engine) SubmitCandidateIngestion(ctx context.Context, pdf []byte, now time.Time) *worker.Job {
	return e.pool.Submit(ctx, worker.JobTypeCandidate, now, func(taskCtx context.Context, report worker.Reporter) (any, error) {
		if e.docs == nil || e.identity == nil || e.experience == nil {
			return nil, &domain.ExtractionError{Cause: fmt.Errorf("no ingestion extractors configured")}
		}

		report(5, "extracting document text")
		chunks, err := e.docs.ExtractChunks(taskCtx, pdf)
		if err != nil {
			return nil, &domain.ExtractionError{Cause: err}
		}
		text := joinChunks(chunks)

		report(20, "extracting identity")
		fullName, err := e.identity.ExtractIdentity(taskCtx, text)
		if err != nil {
			return nil, &domain.ExtractionError{Cause: err}
		}

		report(35, "extracting experience")
		items, err := e.experience.ExtractExperience(taskCtx, text)
		if err != nil {
			return nil, &domain.ExtractionError{Cause: err}
		}

		report(55, "aggregating skills")
		result, err := e.IngestExtracted(taskCtx, fullName, text, items)
		if err != nil {
			return nil, err
		}
		report(80, "persisted candidate")
		return result, nil
	})
}

// IngestFromText runs identity and experience extraction over already
// plain-text resume content (skipping document chunking, since the
// caller already has text rather than a raw upload) and then
// IngestExtracted. It returns an error if no identity/experience
// extractor is configured.
func (e *Engine) IngestFromText(ctx context.Context, resumeText string) (CandidateIngestResult, error) {
	if e.identity == nil || e.experience == nil {
		return CandidateIngestResult{}, &domain.ExtractionError{Cause: fmt.Errorf("no identity/experience extractor configured")}
	}

	fullName, err := e.identity.ExtractIdentity(ctx, resumeText)
	if err != nil {
		return CandidateIngestResult{}, &domain.ExtractionError{Cause: err}
	}

	items, err := e.experience.ExtractExperience(ctx, resumeText)
	if err != nil {
		return CandidateIngestResult{}, &domain.ExtractionError{Cause: err}
	}

	return e.IngestExtracted(ctx, fullName, resumeText, items)
}

// IngestExtracted runs the aggregation and persistence half of the
// candidate pipeline directly over already-extracted data, skipping
// document/identity/experience extraction. It is exported so a caller
// holding pre-extracted data (the CLI's file-driven ingest path, or a
// test) can drive the same logic SubmitCandidateIngestion uses internally.
func (e *Engine) IngestExtracted(ctx context.Context, fullName, rawText string, items []ingestion.RawExperienceItem) (CandidateIngestResult, error) {
	candidateID := uuid.NewString()
	roles := buildCandidateRoles(items, e.referenceDate)
	metrics := e.aggregator.Aggregate(ctx, candidateID, roles)

	candidate := &domain.Candidate{
		CandidateID:   candidateID,
		FullName:      fullName,
		RawExperience: rawText,
	}
	if err := e.store.UpsertCandidate(ctx, candidate); err != nil {
		return CandidateIngestResult{}, &domain.PersistenceError{Operation: "upsert_candidate", Cause: err}
	}
	if err := e.store.UpsertCandidateSkills(ctx, candidateID, metrics); err != nil {
		return CandidateIngestResult{}, &domain.PersistenceError{Operation: "upsert_candidate_skills", Cause: err}
	}

	return CandidateIngestResult{
		CandidateID: candidateID,
		FullName:    fullName,
		SkillsFound: len(metrics),
	}, nil
}

// SubmitEmployerMatch runs the matching pipeline: JD extraction and
// post-processing, the eligibility gate, and the ranker.
func (e *Engine) SubmitEmployerMatch(ctx context.Context, jobDescription string, now time.Time) *worker.Job {
	return e.pool.Submit(ctx, worker.JobTypeEmployer, now, func(taskCtx context.Context, report worker.Reporter) (any, error) {
		report(10, "extracting job profile")
		result, err := e.MatchFromText(taskCtx, jobDescription, now, func(pct int, msg string) {
			report(10+pct*9/10, msg)
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// MatchFromText extracts a job profile from raw job-posting text via the
// configured JDExtractor, then runs MatchExtracted. progress may be nil.
func (e *Engine) MatchFromText(ctx context.Context, jobDescriptionText string, now time.Time, progress func(pct int, msg string)) (MatchResult, error) {
	if e.jd == nil {
		return MatchResult{}, &domain.ExtractionError{Cause: fmt.Errorf("no JD extractor configured")}
	}

	rawJSON, err := e.jd.ExtractJD(ctx, jobDescriptionText)
	if err != nil {
		return MatchResult{}, &domain.ExtractionError{Cause: err}
	}

	return e.MatchExtracted(ctx, rawJSON, now, progress)
}

// MatchExtracted runs JD decoding, post-processing, eligibility, and
// ranking directly over an already-extracted raw JSON profile (the shape
// llm.JDExtractionSchema asks an extractor to produce). It is exported so
// the CLI's file-driven match path can drive the same logic
// SubmitEmployerMatch uses internally. progress may be nil.
func (e *Engine) MatchExtracted(ctx context.Context, rawJSON []byte, now time.Time, progress func(pct int, msg string)) (MatchResult, error) {
	report := progress
	if report == nil {
		report = func(int, string) {}
	}

	var raw rawJobProfile
	if err := json.Unmarshal(rawJSON, &raw); err != nil {
		return MatchResult{}, &domain.ExtractionError{Cause: fmt.Errorf("decode job profile: %w", err)}
	}

	jobProfile := jdprofile.PostProcess(raw.toDomain())
	if len(jobProfile.HardRequirements()) == 0 {
		return MatchResult{}, &domain.InputValidationError{
			Field:   "requirements",
			Message: "job description yields no hard requirements",
		}
	}

	report(10, "evaluating eligibility gate")
	eligible, err := e.gate.Eligible(ctx, jobProfile, now)
	if err != nil {
		return MatchResult{}, fmt.Errorf("eligibility gate: %w", err)
	}
	if len(eligible) == 0 {
		return MatchResult{Profile: jobProfile}, nil
	}

	report(60, "ranking eligible candidates")
	scores, err := e.ranker.Rank(ctx, jobProfile, eligible, now, e.rankLimit)
	if err != nil {
		return MatchResult{}, fmt.Errorf("ranking: %w", err)
	}

	return MatchResult{Profile: jobProfile, Candidates: scores}, nil
}

// GetJob returns a job's current status and, once complete, its result.
func (e *Engine) GetJob(jobID string) (*worker.Job, bool) {
	return e.pool.Get(jobID)
}

func joinChunks(chunks []ingestion.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}

// buildCandidateRoles resolves dates via internal/profile and converts raw
// extracted skill mentions into domain.SkillMention, keyed by each role's
// concatenated responsibilities as disambiguation context.
func buildCandidateRoles(items []ingestion.RawExperienceItem, referenceDate time.Time) []domain.CandidateRole {
	rawRoles := make([]profile.RawRole, len(items))
	for i, item := range items {
		rawRoles[i] = profile.RawRole{
			Title:        item.JobTitle,
			StartDateRaw: item.StartDateRaw,
			EndDateRaw:   item.EndDateRaw,
		}
	}
	built := profile.Build(rawRoles, referenceDate)

	roles := make([]domain.CandidateRole, len(items))
	for i, item := range items {
		context := strings.Join(item.Responsibilities, " ")

		mentions := make([]domain.SkillMention, 0, len(item.ExtractedSkills))
		for _, s := range item.ExtractedSkills {
			mentions = append(mentions, domain.SkillMention{
				RawName:    s.RawName,
				Source:     domain.MentionSource(s.Source),
				Confidence: 1.0,
				Context:    context,
			})
		}

		roles[i] = domain.CandidateRole{
			Title:                  item.JobTitle,
			VerifiedDurationMonths: built[i].VerifiedDurationMonths,
			StartDate:              built[i].StartDate,
			EndDate:                built[i].EndDate,
			RawTechnologies:        item.Technologies,
			Domains:                item.Domains,
			Mentions:               mentions,
		}
	}
	return roles
}
