package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nexusats/matchengine/internal/ingestion"
	"github.com/nexusats/matchengine/internal/llm"
)

// passthroughDocumentExtractor treats the uploaded bytes as already being
// UTF-8 resume text rather than performing real PDF layout extraction,
// which this repository's scope (§1) places outside the matching engine.
// It exists so the end-to-end pipeline has something concrete to run
// against; a production deployment replaces it with a real PDF-to-text
// collaborator without touching anything downstream.
type passthroughDocumentExtractor struct{}

func (passthroughDocumentExtractor) ExtractChunks(ctx context.Context, pdf []byte) ([]ingestion.Chunk, error) {
	return []ingestion.Chunk{{Text: string(pdf), Page: 1}}, nil
}

// llmIdentityExtractor asks the LLM for just the candidate's full name.
type llmIdentityExtractor struct {
	client llm.Client
}

func (x *llmIdentityExtractor) ExtractIdentity(ctx context.Context, resumeText string) (string, error) {
	schema := llm.ExtractionSchema{
		Name:        "CandidateIdentity",
		Description: "Identify the candidate whose resume this is.",
		Fields: []llm.SchemaField{
			{Name: "full_name", Type: "\"string\"", Description: "The candidate's full name as written at the top of the resume", Required: true},
		},
	}
	prompt := llm.BuildExtractionPrompt(schema, resumeText)

	raw, err := x.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("identity extraction: %w", err)
	}

	var out struct {
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("decode identity response: %w", err)
	}
	return out.FullName, nil
}

// llmExperienceExtractor asks the LLM for the candidate's employment
// history as a JSON array, one element per role, shaped per
// llm.RawExperienceSchema.
type llmExperienceExtractor struct {
	client llm.Client
}

type rawExperienceWire struct {
	JobTitle         string                    `json:"job_title"`
	Organization     string                    `json:"organization"`
	StartDateRaw     string                    `json:"start_date_raw"`
	EndDateRaw       string                    `json:"end_date_raw"`
	Technologies     []string                  `json:"technologies"`
	Domains          []string                  `json:"domains"`
	Responsibilities []string                  `json:"responsibilities"`
	ExtractedSkills  []rawExtractedSkillWire   `json:"extracted_skills"`
}

type rawExtractedSkillWire struct {
	RawName string `json:"raw_name"`
	Source  string `json:"source"`
}

func (x *llmExperienceExtractor) ExtractExperience(ctx context.Context, resumeText string) ([]ingestion.RawExperienceItem, error) {
	prompt := buildListExtractionPrompt(llm.RawExperienceSchema(), resumeText)

	raw, err := x.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("experience extraction: %w", err)
	}

	var wire []rawExperienceWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode experience response: %w", err)
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
	return items, nil
}

// llmJDExtractor asks the LLM to turn a job posting into the raw profile
// shape internal/engine decodes into a domain.JobSkillProfile.
type llmJDExtractor struct {
	client llm.Client
}

func (x *llmJDExtractor) ExtractJD(ctx context.Context, jobDescriptionText string) ([]byte, error) {
	prompt := llm.BuildExtractionPrompt(llm.JDExtractionSchema(), jobDescriptionText)

	raw, err := x.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("job description extraction: %w", err)
	}
	return []byte(raw), nil
}

// buildListExtractionPrompt is llm.BuildExtractionPrompt's structure
// adapted for a top-level JSON array, for schemas describing one element
// of a repeated structure (a resume has many roles; a JD has one profile).
func buildListExtractionPrompt(schema llm.ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY a valid JSON array. Each element must match this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- One array element per distinct role/entry found in the text.\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
