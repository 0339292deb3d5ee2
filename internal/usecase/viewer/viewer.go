package viewer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"chess_viewer/internal/bootstrap"
	"chess_viewer/internal/domain/game"
	"chess_viewer/internal/domain/pgn"
	"chess_viewer/internal/errors"
)

type ViewerStore interface {
	GenerateViewerKey(ctx context.Context) string
	SaveViewerState(ctx context.Context, key string, record game.ViewerRecord) error
	LoadViewerState(ctx context.Context, key string) (game.ViewerRecord, error)
	ArchiveImportedGame(ctx context.Context, archived game.ArchiveGame) error
	GetArchivedGameByID(ctx context.Context, id string) (*game.ArchiveGame, error)
	GetRecentArchivedGames(ctx context.Context, pageNum int) (*game.ArchiveResponse, error)
}

type ViewerUseCase struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	store ViewerStore
	rules RulesAuthority

	tokenizerOpts pgn.Options
	defaultFEN    string

	// таймлайны не рассчитаны на конкурентные мутации,
	// поэтому все операции сериализуются одним мьютексом
	opMu      sync.Mutex
	mu        sync.RWMutex
	timelines map[string]*Timeline
}

func NewViewerUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, store ViewerStore, rules RulesAuthority) *ViewerUseCase {
	defaultFEN := strings.TrimSpace(cfg.DefaultStartFen)
	if defaultFEN == "" {
		defaultFEN = game.StandardStartFEN
	}
	return &ViewerUseCase{
		cfg:           cfg,
		log:           log,
		store:         store,
		rules:         rules,
		tokenizerOpts: pgn.Options{RequireSetupTag: cfg.RequireSetupTag},
		defaultFEN:    defaultFEN,
		timelines:     make(map[string]*Timeline),
	}
}

// NewViewer создаёт новый просмотрщик: базовая позиция, пустая история
func (u *ViewerUseCase) NewViewer(ctx context.Context, startFEN string) (game.ViewerState, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	fen := strings.TrimSpace(startFEN)
	if fen == "" {
		fen = u.defaultFEN
	}
	if err := u.rules.ValidatePosition(fen); err != nil {
		return game.ViewerState{}, fmt.Errorf("%w: %v", errors.ErrMalformedPosition, err)
	}

	key := u.store.GenerateViewerKey(ctx)
	timeline := NewTimeline(u.rules, fen)

	u.mu.Lock()
	u.timelines[key] = timeline
	u.mu.Unlock()

	u.persist(ctx, key, timeline)
	u.log.Infof("новый просмотрщик %s, позиция %s", key, fen)

	return u.state(key, timeline)
}

// Import разбирает PGN-текст и целиком заменяет таймлайн. При ошибке на
// любом ходе таймлайн не меняется, наружу уходит *ImportError.
func (u *ViewerUseCase) Import(ctx context.Context, key string, rawText string) (game.ViewerState, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	timeline, err := u.getTimeline(ctx, key)
	if err != nil {
		return game.ViewerState{}, err
	}

	parsed := pgn.Tokenize(rawText, u.tokenizerOpts)
	startFEN := parsed.StartFEN
	if startFEN == "" {
		startFEN = u.defaultFEN
	}
	if err := u.rules.ValidatePosition(startFEN); err != nil {
		return game.ViewerState{}, fmt.Errorf("%w: %v", errors.ErrMalformedPosition, err)
	}

	applied, err := timeline.ImportMoves(startFEN, parsed.Tokens)
	if err != nil {
		return game.ViewerState{}, err
	}

	u.persist(ctx, key, timeline)
	u.archive(ctx, key, rawText, startFEN, timeline.History())
	u.log.Infof("импорт в %s: %d ходов", key, len(applied))

	return u.state(key, timeline)
}

// Move применяет интерактивный ход: либо нотация, либо пара клеток.
func (u *ViewerUseCase) Move(ctx context.Context, req game.MoveRequest) (game.ViewerState, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	timeline, err := u.getTimeline(ctx, req.ViewerKey)
	if err != nil {
		return game.ViewerState{}, err
	}

	move := strings.TrimSpace(req.Move)
	if move == "" {
		move = strings.TrimSpace(req.From) + strings.TrimSpace(req.To)
	}
	if move == "" {
		return game.ViewerState{}, errors.ErrIllegalMove
	}

	position, _, err := timeline.CurrentPosition()
	if err != nil {
		return game.ViewerState{}, err
	}

	applied, err := u.rules.ApplyMove(position, move)
	if err != nil {
		return game.ViewerState{}, fmt.Errorf("%w: %v", errors.ErrIllegalMove, err)
	}

	timeline.RecordMove(applied.San)
	u.persist(ctx, req.ViewerKey, timeline)

	return u.state(req.ViewerKey, timeline)
}

// JumpTo двигает курсор без изменения истории.
func (u *ViewerUseCase) JumpTo(ctx context.Context, key string, ply int) (game.ViewerState, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	timeline, err := u.getTimeline(ctx, key)
	if err != nil {
		return game.ViewerState{}, err
	}

	if err := timeline.JumpTo(ply); err != nil {
		return game.ViewerState{}, err
	}

	u.persist(ctx, key, timeline)

	return u.state(key, timeline)
}

func (u *ViewerUseCase) State(ctx context.Context, key string) (game.ViewerState, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	timeline, err := u.getTimeline(ctx, key)
	if err != nil {
		return game.ViewerState{}, err
	}
	return u.state(key, timeline)
}

func (u *ViewerUseCase) LegalMoves(ctx context.Context, key string, square string) (game.LegalMovesResponse, error) {
	u.opMu.Lock()
	defer u.opMu.Unlock()

	timeline, err := u.getTimeline(ctx, key)
	if err != nil {
		return game.LegalMovesResponse{}, err
	}

	position, _, err := timeline.CurrentPosition()
	if err != nil {
		return game.LegalMovesResponse{}, err
	}

	targets, err := u.rules.LegalMovesFrom(position, square)
	if err != nil {
		return game.LegalMovesResponse{}, err
	}

	return game.LegalMovesResponse{Square: square, Targets: targets}, nil
}

func (u *ViewerUseCase) GetArchiveGames(ctx context.Context, pageNum int) (*game.ArchiveResponse, error) {
	return u.store.GetRecentArchivedGames(ctx, pageNum)
}

func (u *ViewerUseCase) GetArchiveGameById(ctx context.Context, id string) (*game.ArchiveGame, error) {
	return u.store.GetArchivedGameByID(ctx, id)
}

func (u *ViewerUseCase) getTimeline(ctx context.Context, key string) (*Timeline, error) {
	u.mu.RLock()
	timeline, ok := u.timelines[key]
	u.mu.RUnlock()
	if ok {
		return timeline, nil
	}

	// просмотрщик мог остаться в Redis после рестарта сервиса
	record, err := u.store.LoadViewerState(ctx, key)
	if err != nil {
		return nil, errors.ErrViewerNotFound
	}
	timeline = RestoreTimeline(u.rules, record)

	u.mu.Lock()
	u.timelines[key] = timeline
	u.mu.Unlock()

	return timeline, nil
}

func (u *ViewerUseCase) state(key string, timeline *Timeline) (game.ViewerState, error) {
	position, lastMove, err := timeline.CurrentPosition()
	if err != nil {
		return game.ViewerState{}, err
	}

	applied, err := timeline.Applied()
	if err != nil {
		return game.ViewerState{}, err
	}

	startNumber := StartingNumber(timeline.Base())

	return game.ViewerState{
		ViewerKey:      key,
		Position:       position,
		LastMove:       lastMove,
		Cursor:         timeline.Cursor(),
		History:        timeline.History(),
		Pairs:          PairUpFrom(applied, startNumber),
		StartingNumber: startNumber,
		CanStepBack:    timeline.CanStepBack(),
		CanStepForward: timeline.CanStepForward(),
	}, nil
}

func (u *ViewerUseCase) persist(ctx context.Context, key string, timeline *Timeline) {
	if err := u.store.SaveViewerState(ctx, key, timeline.Record()); err != nil {
		u.log.Errorf("не удалось сохранить состояние просмотрщика %s: %v", key, err)
	}
}

func (u *ViewerUseCase) archive(ctx context.Context, key string, rawText string, startFEN string, history []string) {
	archived := game.ArchiveGame{
		ID:         key,
		PGN:        rawText,
		StartFEN:   startFEN,
		Moves:      history,
		ImportedAt: time.Now(),
	}
	if err := u.store.ArchiveImportedGame(ctx, archived); err != nil {
		u.log.Errorf("не удалось заархивировать игру %s: %v", key, err)
	}
}
