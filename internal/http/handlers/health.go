package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/hub"
	"github.com/duetapp/go-duet-backend/internal/http/middleware"
)

// HealthHandler reports process liveness and readiness. Readiness pings the
// database and surfaces the current number of online identities so a probe
// failure distinguishes "process up" from "storage reachable".
type HealthHandler struct {
	db      *gorm.DB
	hub     *hub.Hub
	started time.Time
	version string
}

// NewHealthHandler wires the health endpoints. version is informational and
// may be empty.
func NewHealthHandler(db *gorm.DB, h *hub.Hub, version string) *HealthHandler {
	return &HealthHandler{db: db, hub: h, started: time.Now(), version: version}
}

// Live responds 200 whenever the process can serve requests.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready responds 200 when the database answers a ping, 503 otherwise.
// The payload includes uptime and the online identity count.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("readiness ping failed")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "database unreachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"online":  h.hub.Registry().Len(),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
