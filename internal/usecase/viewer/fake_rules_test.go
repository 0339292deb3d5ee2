package viewer

import (
	"fmt"

	"chess_viewer/internal/domain/game"
)

// fakeRules is a rules authority with canned transitions, so the timeline
// tests do not depend on real move-legality logic.
type fakeRules struct {
	transitions map[string]map[string]game.AppliedMove
	badFENs     map[string]bool
	applyCalls  int
}

func newFakeRules() *fakeRules {
	return &fakeRules{
		transitions: make(map[string]map[string]game.AppliedMove),
		badFENs:     make(map[string]bool),
	}
}

func (f *fakeRules) allow(fromFEN string, inputs []string, result game.AppliedMove) {
	byMove, ok := f.transitions[fromFEN]
	if !ok {
		byMove = make(map[string]game.AppliedMove)
		f.transitions[fromFEN] = byMove
	}
	for _, input := range inputs {
		byMove[input] = result
	}
}

func (f *fakeRules) ApplyMove(positionFEN string, move string) (game.AppliedMove, error) {
	f.applyCalls++
	if byMove, ok := f.transitions[positionFEN]; ok {
		if result, ok := byMove[move]; ok {
			return result, nil
		}
	}
	return game.AppliedMove{}, fmt.Errorf("move %q is not legal at %q", move, positionFEN)
}

func (f *fakeRules) ValidatePosition(positionFEN string) error {
	if f.badFENs[positionFEN] {
		return fmt.Errorf("invalid position %q", positionFEN)
	}
	return nil
}

func (f *fakeRules) LegalMovesFrom(positionFEN string, square string) ([]string, error) {
	targets := make([]string, 0)
	seen := make(map[string]bool)
	for _, result := range f.transitions[positionFEN] {
		if result.From == square && !seen[result.To] {
			seen[result.To] = true
			targets = append(targets, result.To)
		}
	}
	return targets, nil
}

// openingRules builds a small canned game tree:
//
//	p0 --e4--> p1 --e5--> p2 --Nf3--> p3
//	p0 --d4--> p4
func openingRules() *fakeRules {
	rules := newFakeRules()
	rules.allow("p0", []string{"e4", "e2e4"}, game.AppliedMove{San: "e4", From: "e2", To: "e4", FEN: "p1"})
	rules.allow("p1", []string{"e5", "e7e5"}, game.AppliedMove{San: "e5", From: "e7", To: "e5", FEN: "p2"})
	rules.allow("p2", []string{"Nf3", "g1f3"}, game.AppliedMove{San: "Nf3", From: "g1", To: "f3", FEN: "p3"})
	rules.allow("p0", []string{"d4", "d2d4"}, game.AppliedMove{San: "d4", From: "d2", To: "d4", FEN: "p4"})
	return rules
}
