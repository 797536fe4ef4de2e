package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		key      string
		contains string
		errorMsg string
	}{
		{name: "evaluation rubric", file: InterviewFile, key: "eval-system", contains: "Score: [X/10]"},
		{name: "chat persona", file: AdvisorFile, key: "chat-system", contains: "{{.Domain}}"},
		{name: "unknown file", file: "nonexistent.json", key: "eval-system", errorMsg: "unknown prompt file"},
		{name: "unknown key", file: InterviewFile, key: "nonexistent-key", errorMsg: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(tt.file, tt.key)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "fills every placeholder",
			template: "Generate question #{{.Number}} for a {{.Role}}",
			data:     map[string]string{"Number": "3", "Role": "Data Scientist"},
			want:     "Generate question #3 for a Data Scientist",
		},
		{
			name:     "repeated placeholder",
			template: "{{.Role}} or {{.Role}}",
			data:     map[string]string{"Role": "SRE"},
			want:     "SRE or SRE",
		},
		{
			name:     "missing value stays",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "values are not expanded again",
			template: "Answer: {{.Answer}}",
			data:     map[string]string{"Answer": "{{.Role}}", "Role": "x"},
			want:     "Answer: {{.Role}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Role", "Number"}, Placeholders("{{.Role}} #{{.Number}} {{.Role}}"))
	assert.Empty(t, Placeholders("plain text"))
}

func TestList(t *testing.T) {
	keys, err := List(InterviewFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"eval-system", "eval-user",
		"question-system", "question-user",
		"summary-system", "summary-user",
	}, keys)
}

func TestRender(t *testing.T) {
	out, err := Render(InterviewFile, "question-user", map[string]string{
		"Number": "2", "Role": "DevOps Engineer", "Type": "System Design",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Generate interview question #2 for a **DevOps Engineer** position.")
	assert.Contains(t, out, "Question type: **System Design**")
	assert.NotContains(t, out, "{{.")
}

func TestRender_MissingValues(t *testing.T) {
	_, err := Render(InterviewFile, "question-user", map[string]string{"Role": "DevOps Engineer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing values for Number, Type")
}

func TestAdvisorPromptsPresent(t *testing.T) {
	for _, key := range []string{
		"roadmap-system", "roadmap-user",
		"resume-system", "resume-user",
		"projects-system", "projects-user",
		"skills-system", "skills-assessment-user", "skills-recommendations-user",
		"progress-user", "chat-system",
	} {
		prompt, err := Get(AdvisorFile, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}
