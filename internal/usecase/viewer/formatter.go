package viewer

import (
	"strconv"
	"strings"

	"chess_viewer/internal/domain/game"
)

// PairUp groups a flat history two plies at a time for numbered display:
// even index is the first-side move, odd index the second-side move. A pair
// with only a first-side move is legal when the history length is odd.
func PairUp(applied []game.AppliedMove) []game.MovePair {
	return PairUpFrom(applied, 1)
}

// PairUpFrom numbers the pairs starting from the base position's move number.
func PairUpFrom(applied []game.AppliedMove, startNumber int) []game.MovePair {
	pairs := make([]game.MovePair, 0, (len(applied)+1)/2)
	for i := 0; i < len(applied); i += 2 {
		pair := game.MovePair{Number: startNumber + i/2}
		white := applied[i]
		pair.White = &white
		if i+1 < len(applied) {
			black := applied[i+1]
			pair.Black = &black
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// StartingNumber reads the fullmove field out of a FEN key. The field is
// advisory display data only, so anything absent or malformed falls back
// to 1 instead of failing.
func StartingNumber(positionFEN string) int {
	fields := strings.Fields(positionFEN)
	if len(fields) < 6 {
		return 1
	}
	number, err := strconv.Atoi(fields[5])
	if err != nil || number < 1 {
		return 1
	}
	return number
}
