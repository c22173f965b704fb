package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/domain"
	"github.com/duetapp/go-duet-backend/internal/http/middleware"
	"github.com/duetapp/go-duet-backend/internal/repo"
)

// StatsHandler exposes aggregates computed from the durable record logs.
// Live per-connection stats travel over the socket; this endpoint lets an
// operator cross-check the persisted state without holding a connection.
type StatsHandler struct {
	db *gorm.DB
}

// NewStatsHandler wires the durable stats endpoint.
func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// recordLogStats is one record kind's durable aggregate.
type recordLogStats struct {
	Count  int64      `json:"count"`
	Latest *time.Time `json:"latest,omitempty"`
}

// DurableStats reports, for one identity, the persisted message aggregate
// plus the shared journal and moment totals.
func (h *StatsHandler) DurableStats(c *gin.Context) {
	identity := c.Param("identity")
	ctx := c.Request.Context()

	msgCount, msgLatest, err := repo.MessageStats(ctx, h.db, identity)
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("message stats query failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "stats unavailable")
		return
	}

	journalCount, journalLatest, err := repo.LogStats(ctx, h.db, &domain.JournalEntry{})
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("journal stats query failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "stats unavailable")
		return
	}

	momentCount, momentLatest, err := repo.LogStats(ctx, h.db, &domain.Moment{})
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("moment stats query failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "stats unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identity": identity,
		"messages": recordLogStats{Count: msgCount, Latest: msgLatest},
		"journal":  recordLogStats{Count: journalCount, Latest: journalLatest},
		"moments":  recordLogStats{Count: momentCount, Latest: momentLatest},
	})
}
