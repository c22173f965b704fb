// Package http assembles the Gin engine: middleware chain, health and
// metrics endpoints, and the WebSocket entry point into the hub.
package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/config"
	"github.com/duetapp/go-duet-backend/internal/domain"
	"github.com/duetapp/go-duet-backend/internal/hub"
	"github.com/duetapp/go-duet-backend/internal/http/handlers"
	"github.com/duetapp/go-duet-backend/internal/http/middleware"
	"github.com/duetapp/go-duet-backend/internal/repo"
	"github.com/duetapp/go-duet-backend/internal/ws"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// gormStore adapts the repo package's free functions to the hub.Store
// contract.
type gormStore struct{ db *gorm.DB }

func (s gormStore) Messages() ([]domain.Message, error) { return repo.ListMessages(s.db) }
func (s gormStore) AppendMessage(m *domain.Message) error { return repo.CreateMessage(s.db, m) }
func (s gormStore) JournalEntries() ([]domain.JournalEntry, error) {
	return repo.ListJournalEntries(s.db)
}
func (s gormStore) AppendJournalEntry(e *domain.JournalEntry) error {
	return repo.CreateJournalEntry(s.db, e)
}
func (s gormStore) Moments() ([]domain.Moment, error) { return repo.ListMoments(s.db) }
func (s gormStore) AppendMoment(m *domain.Moment) error { return repo.CreateMoment(s.db, m) }
func (s gormStore) Moods() ([]domain.MoodStatus, error) { return repo.ListMoods(s.db) }
func (s gormStore) ReplaceMood(m *domain.MoodStatus) error { return repo.UpsertMood(s.db, m) }
func (s gormStore) QuizAnswers() ([]domain.QuizAnswer, error) {
	return repo.ListQuizAnswers(s.db)
}
func (s gormStore) AppendQuizAnswer(a *domain.QuizAnswer) error {
	return repo.CreateQuizAnswer(s.db, a)
}
func (s gormStore) CallCounts() (map[string]int64, error) { return repo.ListCallCounts(s.db) }
func (s gormStore) SaveCallCounts(c map[string]int64) error { return repo.SaveCallCounts(s.db, c) }

// NewStore wraps a GORM handle as a hub.Store.
func NewStore(db *gorm.DB) hub.Store { return gormStore{db: db} }

// RegisterRoutes builds the hub from the database-backed store and mounts the
// full route table on r. The returned hub is live as soon as the engine
// starts serving.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) *hub.Hub {
	h := hub.New(NewStore(db), hub.Options{
		AnswerKey:                cfg.Quiz.AnswerKey,
		UnlockMessage:            cfg.Quiz.UnlockMessage,
		CallTeardownOnDisconnect: cfg.CallTeardownOnDisconnect,
	})

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())

	if cfg.RateRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, nil)
		r.Use(rl.Handler())
	}

	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		HSTSMaxAgeSeconds: hstsSeconds(cfg),
	}))

	r.HandleMethodNotAllowed = true
	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	health := handlers.NewHealthHandler(db, h, Version)
	r.GET("/health", gzip.Gzip(gzip.DefaultCompression), health.Ready)
	r.GET("/health/live", health.Live)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	stats := handlers.NewStatsHandler(db)
	r.GET("/stats/:identity", gzip.Gzip(gzip.DefaultCompression), stats.DurableStats)

	r.GET("/ws", ws.Handler(h, ws.Options{
		SendBuffer:      cfg.WS.SendBuffer,
		MaxMessageBytes: cfg.WS.MaxMessageBytes,
		PingInterval:    cfg.WS.PingInterval,
		PongTimeout:     cfg.WS.PongTimeout,
		WriteTimeout:    cfg.WS.WriteTimeout,
		CheckOrigin:     originChecker(cfg),
	}))

	return h
}

// corsConfig translates the configured origins into Gin CORS settings. An
// empty origin list allows all origins, which suits local development.
func corsConfig(cfg config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	c.MaxAge = 12 * time.Hour
	return c
}

// originChecker mirrors the CORS origin policy for WebSocket upgrades, which
// bypass the CORS middleware. Nil means allow all.
func originChecker(cfg config.Config) func(r *nethttp.Request) bool {
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
	for _, o := range cfg.CORS.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return func(r *nethttp.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func hstsSeconds(cfg config.Config) int {
	if !cfg.Security.EnableHSTS {
		return 0
	}
	return int(cfg.Security.HSTSMaxAge / time.Second)
}
