package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/auth"
	"github.com/Guyuepp/likeboard/internal/config"
	"github.com/Guyuepp/likeboard/internal/logging"
	"github.com/Guyuepp/likeboard/internal/repository"
	"github.com/Guyuepp/likeboard/internal/repository/cache"
	mysqlRepo "github.com/Guyuepp/likeboard/internal/repository/mysql"
	"github.com/Guyuepp/likeboard/internal/repository/mysql/model"
	myRedisCache "github.com/Guyuepp/likeboard/internal/repository/redis"
	"github.com/Guyuepp/likeboard/internal/rest"
	"github.com/Guyuepp/likeboard/internal/rest/middleware"
	"github.com/Guyuepp/likeboard/internal/usecase/like"
	"github.com/Guyuepp/likeboard/internal/usecase/message"
	"github.com/Guyuepp/likeboard/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db := openDatabase(cfg.Database)
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logrus.Fatalf("failed to migrate database: %v", err)
		}
	}

	// prepare cache; the service keeps running without it
	var store domain.CacheStore
	if cfg.Cache.Enabled() {
		// cache calls fail fast; the coordinator degrades instead of retrying
		client := redis.NewClient(&redis.Options{
			Addr:       cfg.Cache.Addr(),
			Password:   cfg.Cache.Pass,
			DB:         cfg.Cache.DB,
			MaxRetries: -1,
		})
		defer func() {
			if err := client.Close(); err != nil {
				logrus.Errorf("got error when closing the cache connection: %v", err)
			}
		}()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logrus.Warnf("cache is unreachable, views will be served from the database: %v", err)
		}
		cancel()
		store = myRedisCache.NewViewCache(client)
	} else {
		logrus.Warn("CACHE_HOST is not set, running without cache")
	}
	views := cache.NewCoordinator(store, cache.WithOpTimeout(cfg.Cache.OpTimeout))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	messageRepo := mysqlRepo.NewMessageRepository(db)
	likeRepo := mysqlRepo.NewMessageLikeRepository(db)
	txManager := mysqlRepo.NewTransactor(db)
	// Repository协调层
	viewRepo := repository.NewMessageViewRepository(messageRepo, views, cfg.Cache.RecentViewTTL, cfg.Cache.HotViewTTL)

	// Build service Layer
	likeSvc := like.NewService(txManager, likeRepo, messageRepo, messageRepo, userRepo, views)
	messageSvc := message.NewService(viewRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recounter := workers.NewRecountWorker(likeSvc)
	workerDone := make(chan struct{})
	go func() {
		recounter.Start(ctx)
		close(workerDone)
	}()

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set, every authenticated route will answer 401")
	}
	resolver := auth.NewResolver(cfg.JWTSecret)

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(middleware.RequestLogger())
	route.Use(middleware.CORS(cfg.CORSOrigins))
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))

	rest.RegisterRoutes(route,
		rest.NewLikeHandler(likeSvc, recounter),
		rest.NewMessageHandler(messageSvc),
		resolver,
		cfg.AdminUserIDs,
	)

	// Start Server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Waiting for worker to cleanup...")
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logrus.Warn("worker did not finish before shutdown deadline")
	}

	logrus.Info("Server exiting")
}

func openDatabase(cfg config.DatabaseConfig) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	logrus.Fatalf("could not connect to database after retries: %v", err)
	return nil
}
