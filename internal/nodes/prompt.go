package nodes

import (
	"strings"
	"yara_assistant/pkg"
)

// Persona is the instruction placed ahead of every generation prompt
const Persona = "You are Yara, a friendly, enthusiastic, and helpful AI assistant. " +
	"Always be warm, encouraging, and use emojis to make conversations enjoyable. " +
	"Be genuinely interested in helping users and show enthusiasm for their questions."

// generationHeadroom is added to the prompt's word count to bound a generation
const generationHeadroom = 50

// PromptInput is everything that goes into one generation prompt
type PromptInput struct {
	Utterance string
	Context   string
	Memory    string
	History   string
}

// BuildPrompt renders the generation prompt, one part per line
func BuildPrompt(in PromptInput) string {
	parts := make([]string, 0, 6)
	if in.Context != "" {
		parts = append(parts, "Context: "+in.Context)
	}
	if in.Memory != "" {
		parts = append(parts, "Memory: "+in.Memory)
	}
	parts = append(parts, Persona)
	if in.History != "" {
		parts = append(parts, in.History)
	}
	parts = append(parts, "User: "+in.Utterance)
	parts = append(parts, pkg.AssistantName+":")
	return strings.Join(parts, "\n")
}

// MaxLength is the generation budget for prompt
func MaxLength(prompt string) int {
	return len(strings.Fields(prompt)) + generationHeadroom
}

// ExtractResponse returns the text after the last assistant marker of a
// generated output, or the whole output when no marker is present.
func ExtractResponse(output string) string {
	for _, marker := range []string{pkg.AssistantName + ":", "Assistant:"} {
		if idx := strings.LastIndex(output, marker); idx >= 0 {
			return strings.TrimSpace(output[idx+len(marker):])
		}
	}
	return strings.TrimSpace(output)
}
