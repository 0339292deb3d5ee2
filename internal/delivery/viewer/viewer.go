package viewer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chess_viewer/internal/bootstrap"
	"chess_viewer/internal/domain/game"
	ownErrors "chess_viewer/internal/errors"
	"chess_viewer/internal/httpresponse"
	vieweruc "chess_viewer/internal/usecase/viewer"
	"chess_viewer/internal/utils"
)

type ViewerHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	viewerUC *vieweruc.ViewerUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewViewerHandler(cfg bootstrap.Config, log *zap.SugaredLogger, viewerUC *vieweruc.ViewerUseCase) *ViewerHandler {
	return &ViewerHandler{
		cfg:      cfg,
		log:      log,
		viewerUC: viewerUC,
	}
}

func (h *ViewerHandler) HandleNewViewer(w http.ResponseWriter, r *http.Request) {
	var req game.NewViewerRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.viewerUC.NewViewer(r.Context(), req.StartFEN)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Infof("new viewer created with key: %s", state.ViewerKey)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.NewViewerResponse{
		ViewerKey: state.ViewerKey,
		State:     state,
	})
}

func (h *ViewerHandler) HandleImportGame(w http.ResponseWriter, r *http.Request) {
	var req game.ImportRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.ViewerKey == "" || req.PGN == "" {
		h.log.Error("отсутствуют поля viewer_key или pgn")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "viewer_key and pgn are required")
		return
	}

	state, err := h.viewerUC.Import(r.Context(), req.ViewerKey, req.PGN)
	if err != nil {
		var importErr *vieweruc.ImportError
		if errors.As(err, &importErr) {
			// частичный импорт не принимается молча: наружу уходит
			// индекс плохого хода и применившийся префикс
			httpresponse.WriteResponseWithStatus(w, http.StatusUnprocessableEntity, game.ImportFailureResponse{
				FailingIndex:  importErr.FailingIndex,
				FailingToken:  importErr.FailingToken,
				AppliedPrefix: importErr.Applied,
			})
			return
		}
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (h *ViewerHandler) HandleMakeMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.viewerUC.Move(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (h *ViewerHandler) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	var req game.GoToRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.viewerUC.JumpTo(r.Context(), req.ViewerKey, req.Ply)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (h *ViewerHandler) HandleViewerState(w http.ResponseWriter, r *http.Request) {
	viewerKey := r.URL.Query().Get("viewer_key")
	if viewerKey == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "viewer_key is required")
		return
	}

	state, err := h.viewerUC.State(r.Context(), viewerKey)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (h *ViewerHandler) HandleLegalMoves(w http.ResponseWriter, r *http.Request) {
	viewerKey := r.URL.Query().Get("viewer_key")
	square := r.URL.Query().Get("square")
	if viewerKey == "" || square == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "viewer_key and square are required")
		return
	}

	resp, err := h.viewerUC.LegalMoves(r.Context(), viewerKey, square)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (h *ViewerHandler) HandleArchiveGames(w http.ResponseWriter, r *http.Request) {
	pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || pageNum < 1 {
		pageNum = 1
	}

	resp, err := h.viewerUC.GetArchiveGames(r.Context(), pageNum)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (h *ViewerHandler) HandleArchiveGameById(w http.ResponseWriter, r *http.Request) {
	var req game.ArchiveGameByIdRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.viewerUC.GetArchiveGameById(r.Context(), req.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, found)
}

// liveMessage — одно сообщение клиента в живом просмотрщике:
// либо ход (нотация или пара клеток), либо переход по курсору.
type liveMessage struct {
	Move string `json:"move,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Ply  *int   `json:"ply,omitempty"`
}

func (h *ViewerHandler) HandleLiveViewer(w http.ResponseWriter, r *http.Request) {
	viewerKey := r.URL.Query().Get("viewer_key")
	if viewerKey == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "viewer_key is required")
		return
	}

	ctx := r.Context()

	if _, err := h.viewerUC.State(ctx, viewerKey); err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error:", err)
		return
	}
	defer conn.Close()

	for {
		var msg liveMessage
		if err = conn.ReadJSON(&msg); err != nil {
			h.log.Error("read error:", err)
			return
		}

		var state game.ViewerState
		if msg.Ply != nil {
			state, err = h.viewerUC.JumpTo(ctx, viewerKey, *msg.Ply)
		} else {
			state, err = h.viewerUC.Move(ctx, game.MoveRequest{
				ViewerKey: viewerKey,
				Move:      msg.Move,
				From:      msg.From,
				To:        msg.To,
			})
		}
		if err != nil {
			// нелегальный ход или кривой переход: история не тронута,
			// клиенту уходит текст ошибки
			conn.WriteMessage(websocket.TextMessage, []byte(err.Error()))
			continue
		}

		if err := conn.WriteJSON(state); err != nil {
			h.log.Error("write error:", err)
			return
		}
	}
}

func (h *ViewerHandler) writeError(w http.ResponseWriter, err error) {
	h.log.Error(err)
	switch {
	case errors.Is(err, ownErrors.ErrViewerNotFound), errors.Is(err, ownErrors.ErrGameNotFound):
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ownErrors.ErrMalformedPosition),
		errors.Is(err, ownErrors.ErrIllegalMove),
		errors.Is(err, ownErrors.ErrNavigationOutOfRange):
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
	default:
		httpresponse.WriteInternalErrorResponse(w)
	}
}
