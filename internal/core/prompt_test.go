package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUnderBudget(t *testing.T) {
	text := "short rfp text"
	assert.Equal(t, text, Truncate(text))

	exact := strings.Repeat("a", MaxPromptChars)
	assert.Equal(t, exact, Truncate(exact))
}

func TestTruncateOverBudget(t *testing.T) {
	text := strings.Repeat("a", MaxPromptChars+500)
	got := Truncate(text)
	assert.Equal(t, text[:MaxPromptChars]+"\n...[TRUNCATED]...", got)
}

func TestGenerationPromptSections(t *testing.T) {
	prompt := GenerationPrompt("Build a website")

	assert.Contains(t, prompt, "Build a website")
	for _, section := range []string{
		"Project Background and Context",
		"Objectives and Scope",
		"Key Deliverables",
		"Stakeholders and Roles",
		"High-Level Approach and Timeline",
		"Risks and Assumptions",
		"Success Criteria",
	} {
		assert.Contains(t, prompt, section)
	}
}

func TestGenerationPromptTruncatesRFP(t *testing.T) {
	prompt := GenerationPrompt(strings.Repeat("a", MaxPromptChars+1))
	assert.Contains(t, prompt, "...[TRUNCATED]...")
}

func TestRefinementPrompt(t *testing.T) {
	prompt := RefinementPrompt("Draft PID", "Expand risks")

	assert.Contains(t, prompt, "Draft PID")
	assert.Contains(t, prompt, "Expand risks")
	assert.Contains(t, prompt, "Return ONLY the updated PID text")
	assert.Contains(t, prompt, "Maintain the existing markdown formatting")
}

func TestRefinementPromptTruncatesPIDNotInstruction(t *testing.T) {
	longPID := strings.Repeat("p", MaxPromptChars+1)
	prompt := RefinementPrompt(longPID, "Expand risks")
	assert.Contains(t, prompt, "...[TRUNCATED]...")
	assert.Contains(t, prompt, "Expand risks")
}
