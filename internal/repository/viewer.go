package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"chess_viewer/internal/bootstrap"
	"chess_viewer/internal/domain/game"
	ownErrors "chess_viewer/internal/errors"
)

const viewerKeyPrefix = "viewer:"

type ViewerRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewViewerRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redisClient *redis.Client, mongoDB *mongo.Database) *ViewerRepository {
	return &ViewerRepository{
		cfg:   cfg,
		log:   log,
		redis: redisClient,
		mongo: mongoDB,
	}
}

func (v *ViewerRepository) GenerateViewerKey(ctx context.Context) string {
	return uuid.New().String()
}

func (v *ViewerRepository) SaveViewerState(ctx context.Context, key string, record game.ViewerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal viewer record: %w", err)
	}
	return v.redis.Set(ctx, viewerKeyPrefix+key, data, 0).Err()
}

func (v *ViewerRepository) LoadViewerState(ctx context.Context, key string) (game.ViewerRecord, error) {
	data, err := v.redis.Get(ctx, viewerKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return game.ViewerRecord{}, ownErrors.ErrViewerNotFound
		}
		return game.ViewerRecord{}, err
	}

	var record game.ViewerRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return game.ViewerRecord{}, fmt.Errorf("failed to unmarshal viewer record: %w", err)
	}
	return record, nil
}

func (v *ViewerRepository) ArchiveImportedGame(ctx context.Context, archived game.ArchiveGame) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := v.mongo.Collection("imported_games")

	_, err := collection.InsertOne(ctx, archived)
	if err != nil {
		v.log.Errorf("failed to insert imported game to database: %v", err)
		return err
	}

	v.log.Infof("imported game archived with id: %s", archived.ID)
	return nil
}

func (v *ViewerRepository) GetArchivedGameByID(ctx context.Context, id string) (*game.ArchiveGame, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := v.mongo.Collection("imported_games")
	filter := bson.M{"id": id}

	var found game.ArchiveGame
	err := collection.FindOne(ctx, filter).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ownErrors.ErrGameNotFound
	} else if err != nil {
		v.log.Error(err)
		return nil, err
	}

	return &found, nil
}

func (v *ViewerRepository) GetRecentArchivedGames(ctx context.Context, pageNum int) (*game.ArchiveResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pageNum < 1 {
		pageNum = 1
	}
	limit := int64(v.cfg.PageLimitGames)
	if limit <= 0 {
		limit = 20
	}

	collection := v.mongo.Collection("imported_games")

	opts := options.Find().
		SetSort(bson.M{"imported_at": -1}).
		SetSkip(int64(pageNum-1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		v.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	resp := &game.ArchiveResponse{Page: pageNum}
	for cursor.Next(ctx) {
		var archived game.ArchiveGame
		if err = cursor.Decode(&archived); err != nil {
			v.log.Error(err)
			return nil, err
		}
		resp.Games = append(resp.Games, archived)
	}

	return resp, nil
}
