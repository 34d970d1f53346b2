package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexusats/matchengine/internal/engine"
	"github.com/nexusats/matchengine/internal/observability"
)

var (
	matchConfigPath          string
	matchJobDescriptionFile  string
	matchProfileJSONFile     string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the stored candidate pool against a job posting",
	Long: "Runs the eligibility gate and ranker (C8/C9) against a job posting, printing the ranked candidate list.\n" +
		"Provide either --job-description (raw text, requires an LLM API key) or --profile-json (a pre-extracted job profile).",
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchConfigPath, "config", "", "Path to a JSON config file")
	matchCmd.Flags().StringVar(&matchJobDescriptionFile, "job-description", "", "Path to a raw job posting text file")
	matchCmd.Flags().StringVar(&matchProfileJSONFile, "profile-json", "", "Path to a pre-extracted job profile JSON file")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	useText := matchJobDescriptionFile != ""
	useJSON := matchProfileJSONFile != ""
	if useText == useJSON {
		return fmt.Errorf("provide exactly one of --job-description or --profile-json")
	}

	cfg, err := loadConfig(matchConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	handle, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer handle.Cleanup()

	referenceDate, err := cfg.ParsedReferenceDate()
	if err != nil {
		return err
	}

	var result engine.MatchResult
	if useJSON {
		rawJSON, readErr := os.ReadFile(matchProfileJSONFile)
		if readErr != nil {
			return fmt.Errorf("read profile JSON: %w", readErr)
		}
		result, err = handle.Engine.MatchExtracted(ctx, rawJSON, referenceDate, nil)
		if err != nil {
			return fmt.Errorf("match: %w", err)
		}
	} else {
		text, readErr := os.ReadFile(matchJobDescriptionFile)
		if readErr != nil {
			return fmt.Errorf("read job description: %w", readErr)
		}
		result, err = handle.Engine.MatchFromText(ctx, string(text), referenceDate, nil)
		if err != nil {
			return fmt.Errorf("match: %w", err)
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintJobProfile(result.Profile)
	printer.PrintRankedCandidates(result.Candidates)
	return nil
}
