package quiz

import (
	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/quizgen"
)

// questionsReadyMsg carries the batch generated for Request.
type questionsReadyMsg struct {
	Request   quiz.GenerateRequest
	Questions []quizgen.Question
	Err       error
}
