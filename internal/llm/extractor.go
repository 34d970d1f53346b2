// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"

	"github.com/nexusats/matchengine/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobSkillProfile", "RawExperience")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
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

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---
//
// These schemas describe the LLM-driven extraction stages that sit outside the
// matching core (see spec: the LLM is a structured extractor only, it never
// participates in ranking). They exist here so that a job-submission front end
// can hand the raw text to the external collaborator and receive the exact
// shape the ranking core's post-processors expect.

// JDExtractionSchema returns the extraction schema for employer job postings.
// The output maps directly onto a domain.JobSkillProfile before C7 post-processing.
func JDExtractionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobSkillProfile",
		Description: prompts.MustGet("jd_extraction.json", "jd-extraction-description"),
		Fields: []SchemaField{
			{
				Name:        "role_context",
				Type:        "\"string\"",
				Description: "Job title or role summary as stated in the posting",
				Required:    true,
			},
			{
				Name:        "primary_domain",
				Type:        "\"string\"",
				Description: "Primary domain of the role, e.g. Backend, Frontend, DataEngineering, DevOps, Mobile, FullStack",
				Required:    true,
			},
			{
				Name:        "seniority_level",
				Type:        "\"string\"",
				Description: "One of: Junior, Mid, Senior, Lead",
				Required:    true,
			},
			{
				Name:        "requirements",
				Type:        "[{\"raw_skill\": \"string\", \"requirement_level\": \"string\", \"skill_type_hint\": \"string\", \"min_months\": 0}]",
				Description: "Individual named-skill requirements, copied as close to verbatim as possible",
				Required:    true,
			},
			{
				Name:        "category_requirements",
				Type:        "[{\"category\": \"string\", \"min_required\": 1, \"example_skills\": [\"string\"], \"requirement_level\": \"string\"}]",
				Description: "Any-of-category requirements, such as 'experience with a major cloud provider'",
				Required:    false,
			},
		},
	}
}

// RawExperienceSchema returns the extraction schema for candidate resumes.
// The output is a list of RawExperienceItem entries consumed by the profile
// builder (C6) and skill aggregator (C5) during ingestion.
func RawExperienceSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "RawExperience",
		Description: prompts.MustGet("jd_extraction.json", "raw-experience-description"),
		Fields: []SchemaField{
			{
				Name:        "job_title",
				Type:        "\"string\"",
				Description: "Exact job title as written",
				Required:    true,
			},
			{
				Name:        "organization",
				Type:        "\"string\"",
				Description: "Employer or organization name",
				Required:    false,
			},
			{
				Name:        "start_date_raw",
				Type:        "\"string\"",
				Description: "Start date as written in the source document",
				Required:    true,
			},
			{
				Name:        "end_date_raw",
				Type:        "\"string\"",
				Description: "End date as written, or \"Present\" for current roles",
				Required:    true,
			},
			{
				Name:        "technologies",
				Type:        "[\"string\"]",
				Description: "Technologies listed for this role",
				Required:    false,
			},
			{
				Name:        "domains",
				Type:        "[\"string\"]",
				Description: "Domains this role touched, from the fixed domain whitelist",
				Required:    true,
			},
			{
				Name:        "responsibilities",
				Type:        "[\"string\"]",
				Description: "Day-to-day responsibilities, copied verbatim",
				Required:    true,
			},
			{
				Name:        "extracted_skills",
				Type:        "[{\"raw_name\": \"string\", \"source\": \"string\"}]",
				Description: "Skill mentions tagged with where they were observed: technology_list, skills_section, responsibility, or implicit",
				Required:    true,
			},
		},
	}
}
