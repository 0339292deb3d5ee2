package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess_viewer/internal/errors"
)

func TestReplayConsistency(t *testing.T) {
	rules := openingRules()
	timeline := NewTimeline(rules, "p0")
	timeline.RecordMove("e4")
	timeline.RecordMove("e5")
	timeline.RecordMove("Nf3")

	expected := []string{"p0", "p1", "p2", "p3"}
	for ply := 0; ply <= 3; ply++ {
		require.NoError(t, timeline.JumpTo(ply))
		position, lastMove, err := timeline.CurrentPosition()
		require.NoError(t, err)
		assert.Equal(t, expected[ply], position, "ply %d", ply)
		if ply == 0 {
			assert.Nil(t, lastMove)
		} else {
			require.NotNil(t, lastMove)
			assert.Equal(t, timeline.History()[ply-1], lastMove.San)
		}
	}
}

func TestJumpToIdempotent(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")
	timeline.RecordMove("e5")
	require.NoError(t, timeline.JumpTo(1))

	before, _, err := timeline.CurrentPosition()
	require.NoError(t, err)

	require.NoError(t, timeline.JumpTo(timeline.Cursor()))

	after, _, err := timeline.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"e4", "e5"}, timeline.History())
	assert.Equal(t, 1, timeline.Cursor())
}

func TestJumpToOutOfRange(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")

	assert.ErrorIs(t, timeline.JumpTo(-1), errors.ErrNavigationOutOfRange)
	assert.ErrorIs(t, timeline.JumpTo(2), errors.ErrNavigationOutOfRange)
	assert.Equal(t, 1, timeline.Cursor())
}

func TestRecordMoveBranchesAtCursor(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")
	timeline.RecordMove("e5")
	timeline.RecordMove("Nf3")
	require.NoError(t, timeline.JumpTo(1))

	timeline.RecordMove("c5")

	assert.Equal(t, []string{"e4", "c5"}, timeline.History())
	assert.Equal(t, 2, timeline.Cursor())
}

// Сценарий из спеки: ход с нулевого слоя отбрасывает всю старую историю,
// и выброшенные ходы больше нигде не всплывают.
func TestBranchFromStartDiscardsFuture(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")
	timeline.RecordMove("e5")
	require.NoError(t, timeline.JumpTo(0))

	timeline.RecordMove("d4")

	assert.Equal(t, []string{"d4"}, timeline.History())
	assert.Equal(t, 1, timeline.Cursor())

	position, lastMove, err := timeline.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, "p4", position)
	require.NotNil(t, lastMove)
	assert.Equal(t, "d4", lastMove.San)
}

func TestImportFailureLeavesTimelineUntouched(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")

	_, err := timeline.ImportMoves("p0", []string{"e4", "e5", "Qh8"})

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 3, importErr.FailingIndex)
	assert.Equal(t, "Qh8", importErr.FailingToken)
	require.Len(t, importErr.Applied, 2)
	assert.Equal(t, "e4", importErr.Applied[0].San)
	assert.Equal(t, "e5", importErr.Applied[1].San)

	// таймлайн не изменился
	assert.Equal(t, "p0", timeline.Base())
	assert.Equal(t, []string{"e4"}, timeline.History())
	assert.Equal(t, 1, timeline.Cursor())
}

func TestImportSuccessLandsAtStart(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p4")

	applied, err := timeline.ImportMoves("p0", []string{"e4", "e5", "Nf3"})
	require.NoError(t, err)
	require.Len(t, applied, 3)

	assert.Equal(t, "p0", timeline.Base())
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, timeline.History())
	assert.Equal(t, 0, timeline.Cursor())

	position, lastMove, err := timeline.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, "p0", position)
	assert.Nil(t, lastMove)
}

func TestStepBounds(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	assert.False(t, timeline.CanStepBack())
	assert.False(t, timeline.CanStepForward())

	timeline.RecordMove("e4")
	assert.True(t, timeline.CanStepBack())
	assert.False(t, timeline.CanStepForward())

	require.NoError(t, timeline.JumpTo(0))
	assert.False(t, timeline.CanStepBack())
	assert.True(t, timeline.CanStepForward())
}

func TestPositionAtClampsPly(t *testing.T) {
	rules := openingRules()
	position, lastMove, err := positionAt(rules, "p0", []string{"e4", "e5"}, 99)
	require.NoError(t, err)
	assert.Equal(t, "p2", position)
	require.NotNil(t, lastMove)
	assert.Equal(t, "e5", lastMove.San)

	position, lastMove, err = positionAt(rules, "p0", []string{"e4", "e5"}, -5)
	require.NoError(t, err)
	assert.Equal(t, "p0", position)
	assert.Nil(t, lastMove)
}

func TestHistoryIsACopy(t *testing.T) {
	timeline := NewTimeline(openingRules(), "p0")
	timeline.RecordMove("e4")

	history := timeline.History()
	history[0] = "h4"

	assert.Equal(t, []string{"e4"}, timeline.History())
}
