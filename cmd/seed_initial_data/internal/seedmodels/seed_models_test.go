package seedmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `
admin:
  username: root
  email: root@example.com
  password: change-me
questions:
  - question: "Which keyword starts a goroutine?"
    options: ["go", "async", "spawn", "thread"]
    correct_option: 0
  - question: "What does len return for a nil slice?"
    options: ["panic", "-1", "0", "nil"]
    correct_option: 2
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)
	require.NotNil(t, f.Admin)
	assert.Equal(t, "root", f.Admin.Username)
	require.Len(t, f.Questions, 2)
	assert.Equal(t, 2, f.Questions[1].CorrectOption)

	_, err = Parse([]byte("questions: []\nunknown_key: 1\n"))
	assert.Error(t, err)
}

func TestSeedQuestion_ToDomain(t *testing.T) {
	q, err := SeedQuestion{Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectOption: 3}.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, "d", q.Options[3])
	assert.Equal(t, 3, q.CorrectOption)

	_, err = SeedQuestion{Question: "Q?", Options: []string{"a", "b"}}.ToDomain()
	assert.ErrorContains(t, err, "expected 4 options")

	_, err = SeedQuestion{Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectOption: 4}.ToDomain()
	assert.Error(t, err)

	_, err = SeedQuestion{Question: " ", Options: []string{"a", "b", "c", "d"}}.ToDomain()
	assert.Error(t, err)
}
