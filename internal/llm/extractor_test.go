package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJDExtractionSchema(t *testing.T) {
	schema := JDExtractionSchema()

	assert.Equal(t, "JobSkillProfile", schema.Name)
	assert.NotEmpty(t, schema.Description)

	var names []string
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "role_context")
	assert.Contains(t, names, "primary_domain")
	assert.Contains(t, names, "seniority_level")
	assert.Contains(t, names, "requirements")
	assert.Contains(t, names, "category_requirements")
}

func TestRawExperienceSchema(t *testing.T) {
	schema := RawExperienceSchema()

	assert.Equal(t, "RawExperience", schema.Name)
	assert.NotEmpty(t, schema.Description)

	var names []string
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "start_date_raw")
	assert.Contains(t, names, "end_date_raw")
	assert.Contains(t, names, "extracted_skills")
}

func TestBuildExtractionPrompt(t *testing.T) {
	schema := ExtractionSchema{
		Name:        "Test",
		Description: "Extract test data.",
		Fields: []SchemaField{
			{Name: "foo", Type: "\"string\"", Description: "a foo", Required: true},
		},
	}

	prompt := BuildExtractionPrompt(schema, "some input text")

	assert.True(t, strings.HasPrefix(prompt, "Extract test data."))
	assert.Contains(t, prompt, "\"foo\": \"string\" (required)")
	assert.Contains(t, prompt, "some input text")
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}
