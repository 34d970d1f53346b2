package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexusats/matchengine/internal/engine"
	"github.com/nexusats/matchengine/internal/ingestion"
)

var (
	ingestConfigPath     string
	ingestResumeFile     string
	ingestExperienceJSON string
	ingestFullName       string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest-candidate",
	Short: "Ingest one candidate resume into the store",
	Long: "Runs the skill aggregator (C5) over a candidate's employment history and persists the result (C10).\n" +
		"Provide either --resume (raw text, requires an LLM API key) or --experience-json plus --full-name (pre-extracted roles).",
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestConfigPath, "config", "", "Path to a JSON config file")
	ingestCmd.Flags().StringVar(&ingestResumeFile, "resume", "", "Path to a raw resume text file")
	ingestCmd.Flags().StringVar(&ingestExperienceJSON, "experience-json", "", "Path to a pre-extracted employment history JSON array")
	ingestCmd.Flags().StringVar(&ingestFullName, "full-name", "", "Candidate full name (required with --experience-json)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	useText := ingestResumeFile != ""
	useJSON := ingestExperienceJSON != ""
	if useText == useJSON {
		return fmt.Errorf("provide exactly one of --resume or --experience-json")
	}
	if useJSON && ingestFullName == "" {
		return fmt.Errorf("--full-name is required with --experience-json")
	}

	cfg, err := loadConfig(ingestConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	handle, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer handle.Cleanup()

	var result engine.CandidateIngestResult
	if useJSON {
		result, err = ingestFromJSON(ctx, handle.Engine, ingestExperienceJSON, ingestFullName)
	} else {
		result, err = ingestFromResumeFile(ctx, handle.Engine, ingestResumeFile)
	}
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintf(os.Stdout, "ingested candidate %s (%s): %d skills recorded\n", result.CandidateID, result.FullName, result.SkillsFound)
	return nil
}

func ingestFromResumeFile(ctx context.Context, e *engine.Engine, path string) (engine.CandidateIngestResult, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return engine.CandidateIngestResult{}, fmt.Errorf("read resume: %w", err)
	}
	return e.IngestFromText(ctx, string(text))
}

func ingestFromJSON(ctx context.Context, e *engine.Engine, path, fullName string) (engine.CandidateIngestResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.CandidateIngestResult{}, fmt.Errorf("read experience JSON: %w", err)
	}

	var wire []rawExperienceWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return engine.CandidateIngestResult{}, fmt.Errorf("decode experience JSON: %w", err)
	}

	items := make([]ingestion.RawExperienceItem, len(wire))
	for i, w := range wire {
		skills := make([]ingestion.RawExtractedSkill, len(w.ExtractedSkills))
		for j, s := range w.ExtractedSkills {
			skills[j] = ingestion.RawExtractedSkill{RawName: s.RawName, Source: s.Source}
		}
		items[i] = ingestion.RawExperienceItem{
			JobTitle:         w.JobTitle,
			Organization:     w.Organization,
			StartDateRaw:     w.StartDateRaw,
			EndDateRaw:       w.EndDateRaw,
			Technologies:     w.Technologies,
			Domains:          w.Domains,
			Responsibilities: w.Responsibilities,
			ExtractedSkills:  skills,
		}
	}

	return e.IngestExtracted(ctx, fullName, string(raw), items)
}
