package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	req := require.New(t)

	src := Default()
	req.Equal(10, src.Len())

	for i := 0; i < src.Len(); i++ {
		q := src.At(i)
		req.NotEmpty(q.Prompt)
		req.GreaterOrEqual(len(q.Options), 2)
		req.GreaterOrEqual(q.CorrectIndex, 0)
		req.Less(q.CorrectIndex, len(q.Options))
	}
}

func TestLoadFile(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "questions.json")
	data := `[
		{"id": 1, "question": "2+2?", "options": ["3", "4"], "correctAnswer": 1},
		{"id": 2, "question": "3+3?", "options": ["6", "7"], "correctAnswer": 0}
	]`
	req.NoError(os.WriteFile(path, []byte(data), 0o644))

	src, err := LoadFile(path)
	req.NoError(err)
	req.Equal(2, src.Len())
	req.Equal("2+2?", src.At(0).Prompt)
	req.Equal(1, src.At(0).CorrectIndex)
}

func TestLoadFile_Missing(t *testing.T) {
	req := require.New(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	req.Error(err)
}

func TestLoadFile_Invalid(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	cases := map[string]string{
		"empty set":           `[]`,
		"missing prompt":      `[{"id": 1, "question": "", "options": ["a", "b"], "correctAnswer": 0}]`,
		"too few options":     `[{"id": 1, "question": "q", "options": ["a"], "correctAnswer": 0}]`,
		"answer out of range": `[{"id": 1, "question": "q", "options": ["a", "b"], "correctAnswer": 2}]`,
		"not json":            `{`,
	}

	for name, data := range cases {
		path := filepath.Join(dir, name+".json")
		req.NoError(os.WriteFile(path, []byte(data), 0o644))

		_, err := LoadFile(path)
		req.Error(err, "case %q should fail", name)
	}
}
