package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior engineer running technical interviews.

Rules:
- Write high-end technical interview questions ranging from medium to hard.
- Every question is multiple choice with exactly 4 options and exactly one correct option.
- correctAnswer must be copied from options exactly as written.
- Keep each explanation to a few sentences.
- Respond with JSON only: {"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "...", "explanation": "..."}]}`

func buildUserMessage(input Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)
	b.WriteString("Return exactly that many questions, no other text.")
	return b.String()
}
