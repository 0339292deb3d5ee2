package viewer

import (
	"fmt"

	"chess_viewer/internal/domain/game"
)

// ImportError reports the first token of an import the rules authority
// rejected. FailingIndex is 1-based; Applied holds every move that was
// successfully applied before the failure.
type ImportError struct {
	FailingIndex int
	FailingToken string
	Applied      []game.AppliedMove
	Cause        error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("move %d (%s) was rejected: %v", e.FailingIndex, e.FailingToken, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// applyAll walks moves left to right from base. It stops on the first
// rejection and returns an *ImportError with the valid prefix; the caller
// decides whether that prefix is worth anything.
func applyAll(rules RulesAuthority, baseFEN string, moves []string) ([]game.AppliedMove, error) {
	applied := make([]game.AppliedMove, 0, len(moves))
	position := baseFEN
	for i, move := range moves {
		result, err := rules.ApplyMove(position, move)
		if err != nil {
			return nil, &ImportError{
				FailingIndex: i + 1,
				FailingToken: move,
				Applied:      applied,
				Cause:        err,
			}
		}
		applied = append(applied, result)
		position = result.FEN
	}
	return applied, nil
}

// positionAt replays the first ply moves (clamped to [0, len(moves)]) and
// returns the resulting position plus the move that produced it, nil at
// ply 0. This is the single source of truth for the board state.
func positionAt(rules RulesAuthority, baseFEN string, moves []string, ply int) (string, *game.AppliedMove, error) {
	if ply < 0 {
		ply = 0
	}
	if ply > len(moves) {
		ply = len(moves)
	}
	applied, err := applyAll(rules, baseFEN, moves[:ply])
	if err != nil {
		return "", nil, err
	}
	if len(applied) == 0 {
		return baseFEN, nil, nil
	}
	last := applied[len(applied)-1]
	return last.FEN, &last, nil
}
