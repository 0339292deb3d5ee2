package viewer

import (
	"chess_viewer/internal/domain/game"
)

// RulesAuthority is the external collaborator that knows move legality and
// position serialization. The viewer never re-implements movement rules; it
// only orchestrates calls to this interface, so tests can substitute a fake
// with canned transitions.
type RulesAuthority interface {
	// ApplyMove applies a move given either in algebraic notation ("Nf3")
	// or as an origin-destination square pair ("e2e4").
	ApplyMove(positionFEN string, move string) (game.AppliedMove, error)
	ValidatePosition(positionFEN string) error
	LegalMovesFrom(positionFEN string, square string) ([]string, error)
}
