package app

import (
	"log/slog"
	"net/http"

	"github.com/prodtrack/auth-service/internal/config"
	"github.com/prodtrack/auth-service/internal/health"
	"github.com/prodtrack/auth-service/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Readiness     *health.ProbeRunner
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Readiness:     readiness,
	}
}
