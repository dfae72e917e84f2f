package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swipelab/swipelab-backend/internal/middleware"
	"github.com/swipelab/swipelab-backend/internal/services"
)

const defaultLeaderboardLimit = 10

type LeaderboardHandler struct {
	leaderboard services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

func (lh *LeaderboardHandler) Top(c *gin.Context) {
	if lh.leaderboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard is not configured"})
		return
	}

	limit := int64(defaultLeaderboardLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = parsed
	}

	entries, err := lh.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (lh *LeaderboardHandler) MyRank(c *gin.Context) {
	if lh.leaderboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard is not configured"})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	rank, err := lh.leaderboard.Rank(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no score recorded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rank": rank})
}
