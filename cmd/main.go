package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chess_viewer/internal/adapters"
	"chess_viewer/internal/bootstrap"
	viewerDelivery "chess_viewer/internal/delivery/viewer"
	ownMiddleware "chess_viewer/internal/middleware"
	"chess_viewer/internal/repository"
	vieweruc "chess_viewer/internal/usecase/viewer"
)

type mainDeliveryHandler struct {
	viewer *viewerDelivery.ViewerHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := http.ListenAndServe(cfg.ServerPort, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/newViewer", h.viewer.HandleNewViewer)
	r.Post("/importGame", h.viewer.HandleImportGame)
	r.Post("/makeMove", h.viewer.HandleMakeMove)
	r.Post("/goTo", h.viewer.HandleGoTo)
	r.Get("/viewerState", h.viewer.HandleViewerState)
	r.Get("/legalMoves", h.viewer.HandleLegalMoves)
	r.Get("/liveViewer", h.viewer.HandleLiveViewer)
	r.Get("/archiveGames", h.viewer.HandleArchiveGames)
	r.Post("/getArchiveGameById", h.viewer.HandleArchiveGameById)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать Redis", zap.Error(err))
	}

	log.Info("Адаптеры баз данных инициализированы")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	viewerStore := repository.NewViewerRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database)
	rules := repository.NewChessRules(log)
	viewerUseCase := vieweruc.NewViewerUseCase(cfg, log, viewerStore, rules)
	viewerDeliveryHandler := viewerDelivery.NewViewerHandler(cfg, log, viewerUseCase)

	return &mainDeliveryHandler{
		viewer: viewerDeliveryHandler,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // дать время закрыть соединения
}
