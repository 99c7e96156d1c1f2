package quizgen

import "context"

// Question is one multiple-choice interview question.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Input selects what to generate.
type Input struct {
	Topic string
	Count int
}

// Generator produces quiz questions.
type Generator interface {
	// Generate returns exactly input.Count validated questions in the
	// order the model produced them.
	Generate(ctx context.Context, input Input) ([]Question, error)
}
