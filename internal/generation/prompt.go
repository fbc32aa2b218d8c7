package generation

import (
	"strings"

	"github.com/phrazzld/scry-relay/internal/domain"
)

const tutorInstructions = `You are an expert tutor who writes concise study flashcards.
Write 10 flashcards that teach the topic the user gives you, from fundamentals to practical details.
Output format rules:
- Output one JSON object per line (NDJSON). Do not wrap the objects in an array.
- Each object has exactly the string keys "front", "back" and "code".
- "front" is a short question, "back" is a clear answer of one to three sentences.
- "code" is a short illustrative code snippet, or "" when code does not help.
- Escape newlines inside strings as \n so that every object stays on a single line.
- Do not use markdown, code fences, numbering or commentary.`

// SystemInstruction builds the system prompt for req. When req carries prior
// context, the prompt tells the model not to repeat those concepts.
func SystemInstruction(req domain.GenerationRequest) string {
	if len(req.Context) == 0 {
		return tutorInstructions
	}

	var b strings.Builder
	b.WriteString(tutorInstructions)
	b.WriteString("\n\nThe learner has already studied the following concepts. ")
	b.WriteString("Do not repeat these concepts: ")
	b.WriteString(strings.Join(req.Context, ", "))
	b.WriteString(".")
	return b.String()
}

// UserPrompt builds the user turn for req.
func UserPrompt(req domain.GenerationRequest) string {
	return "Topic: " + req.Topic
}
