package app

import (
	"net/http"
	"time"

	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/modules/analysis"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/modules/faq"
	"github.com/clausewise/core/internal/modules/reminder"
	"github.com/clausewise/core/internal/modules/speech"
	pkgredis "github.com/clausewise/core/internal/pkg/redis"
	"github.com/clausewise/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "clausewise-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/clausewise/core",
		"issues":   "https://github.com/clausewise/core/issues",
	}

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     time.Minute,
		Paths:   []string{"/api/v1/faq"},
		Disable: a.cfg.IsDev(),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})
	api.GET("/backend", authMW, func(c *gin.Context) {
		response.OK(c, gin.H{"session_state": a.sessions.State().String()})
	})

	document.NewHandler(a.docs).RegisterRoutes(api, authMW)
	analysis.NewHandler(a.analysis).RegisterRoutes(api, authMW)
	speech.NewHandler(a.bridge, a.analysis, a.logger).RegisterRoutes(api, authMW)
	reminder.NewHandler(reminder.NewService(db)).RegisterRoutes(api, authMW)

	faqSvc := faq.NewService(db)
	if a.cfg.IsDev() {
		if err := faqSvc.Seed(); err != nil {
			a.logger.Warn("failed to seed faq entries", zap.Error(err))
		}
	}
	faq.NewHandler(faqSvc).RegisterRoutes(api, authMW)
}
