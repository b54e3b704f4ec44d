package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/config"
	basesvc "vidtube/internal/api/base/service"
	apirouter "vidtube/internal/api/router"
	usermodels "vidtube/internal/api/user/models"
	usersvc "vidtube/internal/api/user/service"
	"vidtube/internal/cache"
	"vidtube/internal/database"
	"vidtube/internal/global"
	"vidtube/internal/logger"
	"vidtube/internal/storage"
)

// infra giữ các kết nối được tạo khi khởi động, đóng lại khi tắt server
type infra struct {
	client *mongo.Client
	deps   apirouter.Deps
}

// InitGlobal khởi tạo validator, database, media host và cache
func InitGlobal(cfg *config.Configuration) *infra {
	log := logger.GetAppLogger()

	global.InitValidator()
	log.Info("Initialized validator")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.GetInstance(cfg)
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	store, err := database.NewStore(ctx, client, cfg.MongoDB_DBName)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	if err := store.EnsureCollections(ctx); err != nil {
		log.Fatalf("Failed to ensure collections: %v", err)
	}
	initIndexes(ctx, store)

	media, err := storage.NewMinioStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}
	log.WithField("bucket", cfg.MinIO_Bucket).Info("Initialized media store")

	statsCache, err := cache.NewStatsCache(ctx, cfg)
	if err != nil {
		// Cache là tùy chọn: Redis lỗi thì chạy không cache
		log.WithError(err).Warn("Redis unavailable, channel stats cache disabled")
		statsCache = nil
	} else if statsCache == nil {
		log.Info("REDIS_ADDR not set, channel stats cache disabled")
	}

	// UserService riêng cho AuthMiddleware
	users := usersvc.NewUserService(
		basesvc.NewBaseServiceMongo[usermodels.User](store.Collection(database.ColUsers)),
		media,
		usersvc.TokenConfigFrom(cfg),
	)

	return &infra{
		client: client,
		deps: apirouter.Deps{
			Config: cfg,
			Store:  store,
			Media:  media,
			Cache:  statsCache,
			Users:  users,
		},
	}
}

// Close đóng cache và kết nối MongoDB
func (i *infra) Close() {
	if err := i.deps.Cache.Close(); err != nil {
		logger.GetAppLogger().WithError(err).Warn("Failed to close Redis client")
	}
	_ = database.CloseInstance(i.client)
}
