package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swipelab/swipelab-backend/internal/middleware"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := uh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repos.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (uh *UserHandler) GetMyCredibility(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	uh.respondWithProfile(c, userID)
}

func (uh *UserHandler) GetCredibility(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	uh.respondWithProfile(c, userID)
}

func (uh *UserHandler) ListExperts(c *gin.Context) {
	experts, err := uh.userService.ListExperts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list experts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"experts": experts})
}

func (uh *UserHandler) respondWithProfile(c *gin.Context, userID uuid.UUID) {
	profile, err := uh.userService.GetCredibilityProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repos.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load credibility profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"credibility": profile})
}
