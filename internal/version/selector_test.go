package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restud-replication-packages/restud/internal/render"
)

func TestSelectTemplate_FirstRound(t *testing.T) {
	id, err := SelectTemplate(ActionResponse, 1)
	require.NoError(t, err)
	assert.Equal(t, render.TemplateResponse1, id)

	id, err = SelectTemplate(ActionAccept, 1)
	require.NoError(t, err)
	assert.Equal(t, render.TemplateAccept1, id)
}

func TestSelectTemplate_LaterRounds(t *testing.T) {
	// Every round past the first shares the follow-up template.
	for _, round := range []int{2, 3, 10, 99} {
		id, err := SelectTemplate(ActionResponse, round)
		require.NoError(t, err)
		assert.Equal(t, render.TemplateResponse2, id)

		id, err = SelectTemplate(ActionAccept, round)
		require.NoError(t, err)
		assert.Equal(t, render.TemplateAccept2, id)
	}
}

func TestSelectTemplate_InvalidRound(t *testing.T) {
	for _, round := range []int{0, -1} {
		_, err := SelectTemplate(ActionResponse, round)
		require.Error(t, err)

		var invalidErr *InvalidRoundError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, round, invalidErr.Round)
	}
}

func TestSelectTemplate_UnknownAction(t *testing.T) {
	_, err := SelectTemplate(Action("shred"), 1)
	assert.Error(t, err)
}
