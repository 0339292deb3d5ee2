package viewer

import (
	"chess_viewer/internal/domain/game"
	"chess_viewer/internal/errors"
)

// Timeline owns the base position, the linear move history and the cursor.
// Invariant: the exported position is always replay(base, history[:cursor]);
// nothing here caches a board independently of that replay.
type Timeline struct {
	rules   RulesAuthority
	base    string
	history []string
	cursor  int
}

func NewTimeline(rules RulesAuthority, baseFEN string) *Timeline {
	return &Timeline{
		rules: rules,
		base:  baseFEN,
	}
}

// LoadBase resets the timeline onto a new base position.
func (t *Timeline) LoadBase(baseFEN string) {
	t.base = baseFEN
	t.history = nil
	t.cursor = 0
}

// RecordMove appends a canonical notation at the cursor. Anything recorded
// beyond the cursor is discarded first: a new move from a non-tip ply
// invalidates the previously recorded future.
func (t *Timeline) RecordMove(notation string) {
	branched := make([]string, t.cursor, t.cursor+1)
	copy(branched, t.history[:t.cursor])
	t.history = append(branched, notation)
	t.cursor = len(t.history)
}

// JumpTo moves the cursor; history stays as is.
func (t *Timeline) JumpTo(ply int) error {
	if ply < 0 || ply > len(t.history) {
		return errors.ErrNavigationOutOfRange
	}
	t.cursor = ply
	return nil
}

// CurrentPosition is always recomputed by replay, never stored.
func (t *Timeline) CurrentPosition() (string, *game.AppliedMove, error) {
	return positionAt(t.rules, t.base, t.history, t.cursor)
}

// LastMove returns the move that produced the current position, nil at ply 0.
func (t *Timeline) LastMove() (*game.AppliedMove, error) {
	_, last, err := t.CurrentPosition()
	return last, err
}

// ImportMoves validates the whole move list against startFEN. On full
// success the timeline is replaced atomically and lands at ply 0. On any
// failure the timeline is left untouched and the *ImportError carries the
// failing index plus the applied prefix for diagnostics.
func (t *Timeline) ImportMoves(startFEN string, moves []string) ([]game.AppliedMove, error) {
	applied, err := applyAll(t.rules, startFEN, moves)
	if err != nil {
		return nil, err
	}
	t.LoadBase(startFEN)
	history := make([]string, len(applied))
	for i, move := range applied {
		history[i] = move.San
	}
	t.history = history
	t.cursor = 0
	return applied, nil
}

func (t *Timeline) Base() string {
	return t.base
}

func (t *Timeline) Cursor() int {
	return t.cursor
}

// History returns a copy; callers must not be able to mutate the record.
func (t *Timeline) History() []string {
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Timeline) CanStepBack() bool {
	return t.cursor > 0
}

func (t *Timeline) CanStepForward() bool {
	return t.cursor < len(t.history)
}

// Applied replays the full history; valid by construction, so a failure
// here means the base or history was corrupted outside the timeline.
func (t *Timeline) Applied() ([]game.AppliedMove, error) {
	return applyAll(t.rules, t.base, t.history)
}

// Record restores a timeline from its persisted form.
func (t *Timeline) Record() game.ViewerRecord {
	return game.ViewerRecord{
		BaseFEN: t.base,
		History: t.History(),
		Cursor:  t.cursor,
	}
}

func RestoreTimeline(rules RulesAuthority, record game.ViewerRecord) *Timeline {
	t := NewTimeline(rules, record.BaseFEN)
	t.history = append(t.history, record.History...)
	cursor := record.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(t.history) {
		cursor = len(t.history)
	}
	t.cursor = cursor
	return t
}
