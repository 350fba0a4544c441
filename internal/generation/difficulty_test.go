package generation

import (
	"testing"

	"openlearner_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustDifficulty(t *testing.T) {
	cases := []struct {
		in       Difficulty
		feedback model.FeedbackDifficulty
		want     Difficulty
	}{
		{Intermediate, model.TooHard, Beginner},
		{Beginner, model.TooHard, Beginner},
		{Intermediate, model.TooEasy, Advanced},
		{Advanced, model.TooEasy, Advanced},
		{Advanced, model.JustRight, Advanced},
		{Beginner, "", Beginner},
		{"", model.TooEasy, Advanced},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AdjustDifficulty(c.in, c.feedback), "%s/%s", c.in, c.feedback)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Intermediate, d)

	d, err = ParseDifficulty(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, Advanced, d)

	_, err = ParseDifficulty("impossible")
	assert.Error(t, err)
}
