package domain

// Question is a single immutable quiz question. CorrectIndex is zero-based
// into Options.
type Question struct {
	ID           int      `json:"id"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswer"`
}

// IsCorrect reports whether the submitted option index matches the stored
// correct index. Out-of-range submissions are simply incorrect.
func (q Question) IsCorrect(answerIndex int) bool {
	return answerIndex == q.CorrectIndex
}

// QuestionSource is an ordered, read-only sequence of questions. The engine
// never mutates it and never reads past Len()-1.
type QuestionSource interface {
	Len() int
	At(i int) Question
}
