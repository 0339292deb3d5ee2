package game

import (
	"time"
)

// StandardStartFEN — стартовая позиция по умолчанию
const StandardStartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// AppliedMove is a move the rules authority accepted: canonical SAN,
// the origin/destination squares and the position it produced.
type AppliedMove struct {
	San  string `json:"san"`
	From string `json:"from"`
	To   string `json:"to"`
	FEN  string `json:"fen"`
}

// MovePair is a display row: two consecutive plies under one move number.
type MovePair struct {
	Number int          `json:"number"`
	White  *AppliedMove `json:"white,omitempty"`
	Black  *AppliedMove `json:"black,omitempty"`
}

// ViewerRecord is the persisted form of a timeline.
type ViewerRecord struct {
	BaseFEN string   `json:"base_fen"`
	History []string `json:"history"`
	Cursor  int      `json:"cursor"`
}

// ViewerState is what the presentation layer renders.
type ViewerState struct {
	ViewerKey      string       `json:"viewer_key"`
	Position       string       `json:"position"`
	LastMove       *AppliedMove `json:"last_move,omitempty"`
	Cursor         int          `json:"cursor"`
	History        []string     `json:"history"`
	Pairs          []MovePair   `json:"pairs"`
	StartingNumber int          `json:"starting_number"`
	CanStepBack    bool         `json:"can_step_back"`
	CanStepForward bool         `json:"can_step_forward"`
}

type NewViewerRequest struct {
	StartFEN string `json:"start_fen"`
}

type NewViewerResponse struct {
	ViewerKey string      `json:"viewer_key"`
	State     ViewerState `json:"state"`
}

type ImportRequest struct {
	ViewerKey string `json:"viewer_key"`
	PGN       string `json:"pgn"`
}

// ImportFailureResponse surfaces the first bad token of an import together
// with the prefix that did apply; the timeline itself stays untouched.
type ImportFailureResponse struct {
	FailingIndex  int           `json:"failing_index"`
	FailingToken  string        `json:"failing_token"`
	AppliedPrefix []AppliedMove `json:"applied_prefix"`
}

type MoveRequest struct {
	ViewerKey string `json:"viewer_key"`
	Move      string `json:"move,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
}

type GoToRequest struct {
	ViewerKey string `json:"viewer_key"`
	Ply       int    `json:"ply"`
}

type LegalMovesResponse struct {
	Square  string   `json:"square"`
	Targets []string `json:"targets"`
}

type ArchiveGame struct {
	ID         string    `json:"id" bson:"id"`
	PGN        string    `json:"pgn" bson:"pgn"`
	StartFEN   string    `json:"start_fen" bson:"start_fen"`
	Moves      []string  `json:"moves" bson:"moves"`
	ImportedAt time.Time `json:"imported_at" bson:"imported_at"`
}

type ArchiveResponse struct {
	Games []ArchiveGame `json:"games"`
	Page  int           `json:"page"`
}

type ArchiveGameByIdRequest struct {
	ID string `json:"id"`
}
