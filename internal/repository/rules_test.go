package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chess_viewer/internal/domain/game"
)

func newTestRules() *ChessRules {
	return NewChessRules(zap.NewNop().Sugar())
}

func TestApplyMoveSAN(t *testing.T) {
	rules := newTestRules()

	applied, err := rules.ApplyMove(game.StandardStartFEN, "e4")
	require.NoError(t, err)

	assert.Equal(t, "e4", applied.San)
	assert.Equal(t, "e2", applied.From)
	assert.Equal(t, "e4", applied.To)
	assert.True(t, strings.HasPrefix(applied.FEN, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"))
}

func TestApplyMoveSquarePair(t *testing.T) {
	rules := newTestRules()

	applied, err := rules.ApplyMove(game.StandardStartFEN, "g1f3")
	require.NoError(t, err)

	assert.Equal(t, "Nf3", applied.San)
	assert.Equal(t, "g1", applied.From)
	assert.Equal(t, "f3", applied.To)
}

func TestApplyMoveIllegal(t *testing.T) {
	rules := newTestRules()

	_, err := rules.ApplyMove(game.StandardStartFEN, "Ke2")
	assert.Error(t, err)

	_, err = rules.ApplyMove(game.StandardStartFEN, "e2e5")
	assert.Error(t, err)
}

func TestApplyMoveSequence(t *testing.T) {
	rules := newTestRules()

	position := game.StandardStartFEN
	for _, move := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5"} {
		applied, err := rules.ApplyMove(position, move)
		require.NoError(t, err, move)
		assert.Equal(t, move, applied.San)
		position = applied.FEN
	}
}

func TestValidatePosition(t *testing.T) {
	rules := newTestRules()

	assert.NoError(t, rules.ValidatePosition(game.StandardStartFEN))
	assert.NoError(t, rules.ValidatePosition("8/8/8/8/8/8/8/K6k w - - 0 40"))
	assert.Error(t, rules.ValidatePosition("this is not a fen"))
	assert.Error(t, rules.ValidatePosition(""))
}

func TestLegalMovesFrom(t *testing.T) {
	rules := newTestRules()

	targets, err := rules.LegalMovesFrom(game.StandardStartFEN, "e2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e3", "e4"}, targets)

	targets, err = rules.LegalMovesFrom(game.StandardStartFEN, "g1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f3", "h3"}, targets)

	targets, err = rules.LegalMovesFrom(game.StandardStartFEN, "e5")
	require.NoError(t, err)
	assert.Empty(t, targets)
}
