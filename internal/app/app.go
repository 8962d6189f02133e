package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clausewise/core/internal/config"
	"github.com/clausewise/core/internal/database"
	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/modules/analysis"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/modules/speech"
	"github.com/clausewise/core/internal/pkg/blob"
	pkgcron "github.com/clausewise/core/internal/pkg/cron"
	pkgredis "github.com/clausewise/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	logger   *zap.Logger
	cancel   context.CancelFunc
	sched    *pkgcron.Scheduler
	store    blob.Store
	docs     *document.Service
	analysis *analysis.Service
	sessions *analysis.SessionManager
	bridge   speech.Bridge
}

// New initializes the application: config → DB → Redis → blob → model backend → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	store, err := buildBlobStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	docs := document.NewService(db, store)

	sessions := analysis.NewSessionManager(cfg.Analysis, logger)
	var backend analysis.Backend
	if len(cfg.Analysis.EnabledProviders()) > 0 {
		backend = analysis.NewLiveBackend(sessions, docs, cfg.Analysis.TransientSignature, logger)
	} else {
		logger.Warn("no analysis provider enabled, serving stand-in analysis content")
		backend = analysis.NewStandinBackend()
	}
	analysisSvc := analysis.NewService(db, docs, backend, cfg.Analysis.TargetLanguage, logger)

	var bridge speech.Bridge
	if cfg.Speech.IsEnabled() {
		bridge = speech.NewClient(cfg.Speech)
	} else {
		logger.Warn("speech api key not configured, voice endpoints run in offline mode")
		bridge = speech.NewStandinBridge()
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Idempotence"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	ctx, cancel := context.WithCancel(context.Background())

	sched := pkgcron.New()
	registerCronJobs(sched, db, store, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:      cfg,
		router:   router,
		db:       db,
		logger:   logger,
		cancel:   cancel,
		sched:    sched,
		store:    store,
		docs:     docs,
		analysis: analysisSvc,
		sessions: sessions,
		bridge:   bridge,
	}
	app.registerRoutes(rc)

	return app, nil
}

func buildBlobStore(cfg *config.AppConfig, logger *zap.Logger) (blob.Store, error) {
	if cfg.Storage.Bucket != "" {
		store, err := blob.NewS3Store(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return store, nil
	}
	if cfg.IsProd() {
		return nil, errors.New("storage: bucket is required outside development")
	}
	logger.Warn("storage bucket not configured, using in-memory blob store")
	return blob.NewMemoryStore("clausewise-dev"), nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }

var processStart = time.Now()
