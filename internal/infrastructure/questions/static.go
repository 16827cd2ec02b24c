package questions

import (
	"github.com/quizdash/quizdash/internal/domain"
)

// Static is an immutable in-memory question set. It satisfies
// domain.QuestionSource and is safe for concurrent use.
type Static struct {
	questions []domain.Question
}

func NewStatic(qs []domain.Question) *Static {
	return &Static{questions: qs}
}

func (s *Static) Len() int {
	return len(s.questions)
}

func (s *Static) At(i int) domain.Question {
	return s.questions[i]
}

// Default returns the built-in ten-question general knowledge set.
func Default() *Static {
	return NewStatic([]domain.Question{
		{
			ID:           1,
			Prompt:       "What is the capital of France?",
			Options:      []string{"London", "Berlin", "Paris", "Madrid"},
			CorrectIndex: 2,
		},
		{
			ID:           2,
			Prompt:       "Which planet is known as the Red Planet?",
			Options:      []string{"Venus", "Mars", "Jupiter", "Saturn"},
			CorrectIndex: 1,
		},
		{
			ID:           3,
			Prompt:       "Who painted the Mona Lisa?",
			Options:      []string{"Van Gogh", "Picasso", "Da Vinci", "Rembrandt"},
			CorrectIndex: 2,
		},
		{
			ID:           4,
			Prompt:       "What is the largest ocean on Earth?",
			Options:      []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			CorrectIndex: 3,
		},
		{
			ID:           5,
			Prompt:       "In what year did World War II end?",
			Options:      []string{"1943", "1944", "1945", "1946"},
			CorrectIndex: 2,
		},
		{
			ID:           6,
			Prompt:       "What is the smallest prime number?",
			Options:      []string{"0", "1", "2", "3"},
			CorrectIndex: 2,
		},
		{
			ID:           7,
			Prompt:       "Which element has the chemical symbol 'O'?",
			Options:      []string{"Gold", "Oxygen", "Osmium", "Silver"},
			CorrectIndex: 1,
		},
		{
			ID:           8,
			Prompt:       "How many continents are there?",
			Options:      []string{"5", "6", "7", "8"},
			CorrectIndex: 2,
		},
		{
			ID:           9,
			Prompt:       "What is the speed of light?",
			Options:      []string{"300,000 km/s", "150,000 km/s", "450,000 km/s", "200,000 km/s"},
			CorrectIndex: 0,
		},
		{
			ID:           10,
			Prompt:       "Who wrote 'Romeo and Juliet'?",
			Options:      []string{"Dickens", "Shakespeare", "Austen", "Hemingway"},
			CorrectIndex: 1,
		},
	})
}
