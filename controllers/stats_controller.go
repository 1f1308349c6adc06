package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/qaboard/store"
	"github.com/cppla/qaboard/utils"
)

// LivenessMessage is the fixed body of GET /test.
const LivenessMessage = "Server API is working 🚀"

// StatsController provides board statistics and service probes.
type StatsController struct {
	store *store.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s *store.Store) *StatsController {
	return &StatsController{store: s}
}

// GetStats returns row counts for questions, answers and votes.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := s.store.Stats(ctx.Request.Context())
	if err != nil {
		logStoreError(ctx, "stats", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Data(ctx, http.StatusOK, "OK: Successfully retrieved the statistics.", stats)
}

// Health pings the store.
func (s *StatsController) Health(ctx *gin.Context) {
	if err := s.store.Ping(ctx.Request.Context()); err != nil {
		logStoreError(ctx, "ping", err)
		utils.Error(ctx, http.StatusInternalServerError, msgConnectionErr)
		return
	}
	utils.Data(ctx, http.StatusOK, "OK", gin.H{"status": "ok"})
}

// Liveness answers without touching the store.
func (s *StatsController) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, LivenessMessage)
}
