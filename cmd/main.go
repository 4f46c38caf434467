package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/surdiana/userhub/config"
	"github.com/surdiana/userhub/internal/handler"
	"github.com/surdiana/userhub/internal/mailer"
	"github.com/surdiana/userhub/internal/middleware"
	"github.com/surdiana/userhub/internal/repository"
	"github.com/surdiana/userhub/internal/router"
	"github.com/surdiana/userhub/internal/service"
	"github.com/surdiana/userhub/pkg/database"
	"github.com/surdiana/userhub/pkg/logger"
	"github.com/surdiana/userhub/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.EnsureIndexes(db); err != nil {
		logger.GetLogger().Fatal("Failed to create database indexes", zap.Error(err))
	}

	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Services
	hasher := service.NewPasswordHasher(config.Bcrypt.Cost)
	tokens := service.NewTokenService(config.JWT.Secret, config.JWT.TTL)
	profileCache := service.NewProfileCache(redisClient, config.Redis.ProfileTTL)
	mail := mailer.New(config.SMTP)
	userService := service.NewUserService(userRepo, hasher, tokens, profileCache, mail)

	// Handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit.Window)

	r := router.NewRouter(
		authHandler,
		userHandler,
		healthHandler,
		rateLimiter,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
