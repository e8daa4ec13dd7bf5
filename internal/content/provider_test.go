package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

func q(prompt string, correct int) mission.Question {
	return mission.Question{
		Prompt:             prompt,
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: correct,
		Explanation:        "because",
	}
}

func TestPrepare_PadsShortResult(t *testing.T) {
	b, err := Prepare(mission.Briefing{Topic: "Mars", Questions: []mission.Question{q("first", 1)}}, 3)
	require.NoError(t, err)

	require.Len(t, b.Questions, 3)
	assert.Equal(t, b.Questions[0], b.Questions[1])
	assert.Equal(t, b.Questions[0], b.Questions[2])
	assert.Equal(t, 2, b.Padded)
	assert.Equal(t, "Mars", b.Topic)
}

func TestPrepare_DropsMalformedAndTrims(t *testing.T) {
	bad := q("bad", 9)
	noPrompt := q(" ", 0)
	b, err := Prepare(mission.Briefing{Questions: []mission.Question{bad, q("one", 0), noPrompt, q("two", 1), q("three", 2), q("four", 3)}}, 3)
	require.NoError(t, err)

	require.Len(t, b.Questions, 3)
	assert.Equal(t, "one", b.Questions[0].Prompt)
	assert.Equal(t, "three", b.Questions[2].Prompt)
	assert.Zero(t, b.Padded)
}

func TestPrepare_NothingUsable(t *testing.T) {
	_, err := Prepare(mission.Briefing{Questions: []mission.Question{q("bad", -1)}}, 3)
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = Prepare(mission.Briefing{}, 3)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestOffline_EveryDestination(t *testing.T) {
	for _, id := range galaxy.IDs() {
		b, err := Offline{}.FetchQuestions(context.Background(), id, mission.Hard, 5)
		require.NoError(t, err, id)
		assert.Len(t, b.Questions, 5)
		assert.NotEmpty(t, b.Fact)
		for _, qq := range b.Questions {
			assert.True(t, qq.Valid(), qq.Prompt)
		}
	}

	b, err := Offline{}.FetchQuestions(context.Background(), galaxy.Art, mission.Easy, 3)
	require.NoError(t, err)
	assert.Len(t, b.Questions, 3)
}

func TestOffline_UnknownDestination(t *testing.T) {
	_, err := Offline{}.FetchQuestions(context.Background(), "PLUTO", mission.Easy, 3)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestSubtopicAndInstruction(t *testing.T) {
	assert.Contains(t, subtopics[galaxy.Ocean], Subtopic(galaxy.Ocean))
	assert.Equal(t, "General Knowledge", Subtopic("PLUTO"))
	assert.Contains(t, DifficultyInstruction(mission.Hard), "HARD")
	assert.Contains(t, DifficultyInstruction("whatever"), "EASY")
}
