package questions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizdash/quizdash/internal/domain"
)

// LoadFile reads a question set from a JSON file so deployments can swap
// out the built-in set without a rebuild. The file is an array of question
// objects in the same shape as domain.Question.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var qs []domain.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse questions file: %w", err)
	}

	if len(qs) == 0 {
		return nil, fmt.Errorf("questions file %s contains no questions", path)
	}

	for i, q := range qs {
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d has an empty prompt", i)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d needs at least two options", i)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %d has correct answer index %d out of range", i, q.CorrectIndex)
		}
	}

	return NewStatic(qs), nil
}
