package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/store"
)

// RunHandler exposes persisted runs.
type RunHandler struct {
	store  *store.Store
	logger *logrus.Logger
}

// NewRunHandler creates a run handler. A nil store answers 503 on every route.
func NewRunHandler(st *store.Store, logger *logrus.Logger) *RunHandler {
	return &RunHandler{store: st, logger: logger}
}

// GetRun returns one run with its lineups in rank order.
func (h *RunHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		storeDisabled(c)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id", "must be a UUID")
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns returns run headers, newest first.
func (h *RunHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		storeDisabled(c)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		badRequest(c, "limit", "must be an integer")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		badRequest(c, "offset", "must be a non-negative integer")
		return
	}

	runs, err := h.store.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":   runs,
		"count":  len(runs),
		"offset": offset,
	})
}

// DeleteRun removes a run and its lineups.
func (h *RunHandler) DeleteRun(c *gin.Context) {
	if h.store == nil {
		storeDisabled(c)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id", "must be a UUID")
		return
	}
	if err := h.store.DeleteRun(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.logger.WithField("run_id", id).Info("Deleted run")
	c.Status(http.StatusNoContent)
}
