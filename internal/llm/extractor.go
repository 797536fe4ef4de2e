// Package llm - extractor.go builds prompts that ask the model for structured JSON.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object the model should return.
type ExtractionSchema struct {
	Name        string
	Description string // system preamble describing the task
	Fields      []SchemaField
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string
	Type        string // type hint shown to the model, e.g. "string", "[\"string\"]"
	Description string
	Required    bool
}

// BuildExtractionPrompt returns the system and user prompts for a structured extraction over inputText.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) (system, user string) {
	var sb strings.Builder
	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every value on the input text; do not invent details.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.")

	return sb.String(), "Input text:\n\"\"\"\n" + inputText + "\n\"\"\"\n"
}

// ResumeProfileSchema extracts profile fields from resume text.
func ResumeProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeProfile",
		Description: `You are an expert technical recruiter. Read the resume and fill in a career profile.
Rate each skill you find from 0 (absent) to 10 (expert) based only on the evidence in the resume.`,
		Fields: []SchemaField{
			{Name: "name", Type: `"string"`, Description: "Candidate full name", Required: true},
			{Name: "career_field", Type: `"string"`, Description: "Best matching career field, e.g. 'Data Science'", Required: true},
			{Name: "experience_level", Type: `"Beginner" | "Intermediate" | "Advanced" | "Expert"`, Required: true},
			{Name: "goals", Type: `"string"`, Description: "Stated objective, if any"},
			{Name: "skills", Type: `{"skill": 0-10}`, Description: "Skill name to estimated level", Required: true},
		},
	}
}
