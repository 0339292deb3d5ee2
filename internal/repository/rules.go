package repository

import (
	"fmt"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"chess_viewer/internal/domain/game"
)

// ChessRules реализует RulesAuthority поверх движка notnil/chess.
// Движок трактуется как чистая функция (позиция, ход) -> позиция.
type ChessRules struct {
	log *zap.SugaredLogger
}

func NewChessRules(log *zap.SugaredLogger) *ChessRules {
	return &ChessRules{log: log}
}

func (c *ChessRules) ApplyMove(positionFEN string, move string) (game.AppliedMove, error) {
	g, err := gameFromFEN(positionFEN)
	if err != nil {
		return game.AppliedMove{}, err
	}

	position := g.Position()

	decoded, err := chess.AlgebraicNotation{}.Decode(position, move)
	if err != nil {
		// интерактивный ввод присылает пару клеток ("e2e4")
		decoded, err = chess.UCINotation{}.Decode(position, move)
		if err != nil {
			return game.AppliedMove{}, fmt.Errorf("move %q is not applicable: %w", move, err)
		}
	}

	canonical := chess.AlgebraicNotation{}.Encode(position, decoded)

	if err := g.Move(decoded); err != nil {
		return game.AppliedMove{}, fmt.Errorf("move %q is not legal: %w", move, err)
	}

	return game.AppliedMove{
		San:  canonical,
		From: decoded.S1().String(),
		To:   decoded.S2().String(),
		FEN:  g.Position().String(),
	}, nil
}

func (c *ChessRules) ValidatePosition(positionFEN string) error {
	_, err := chess.FEN(positionFEN)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", positionFEN, err)
	}
	return nil
}

func (c *ChessRules) LegalMovesFrom(positionFEN string, square string) ([]string, error) {
	g, err := gameFromFEN(positionFEN)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0)
	for _, valid := range g.ValidMoves() {
		if valid.S1().String() == square {
			targets = append(targets, valid.S2().String())
		}
	}
	return targets, nil
}

func gameFromFEN(positionFEN string) (*chess.Game, error) {
	fenOption, err := chess.FEN(positionFEN)
	if err != nil {
		return nil, fmt.Errorf("invalid position %q: %w", positionFEN, err)
	}
	return chess.NewGame(fenOption), nil
}
