package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every batch; the first failure stops
	// the pipeline.
	Validators []Validator

	// TokensPerQuestion sizes the response budget.
	TokensPerQuestion int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&CountValidator{},
			&StructuralValidator{},
			&AnswerInOptionsValidator{},
		},
		TokensPerQuestion: 320,
		Temperature:       0.7,
	}
}
