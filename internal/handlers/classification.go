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

type ClassificationHandler struct {
	classificationService services.ClassificationService
}

func NewClassificationHandler(classificationService services.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{classificationService: classificationService}
}

func (ch *ClassificationHandler) Submit(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		ImageID uuid.UUID `json:"image_id" binding:"required"`
		LabelID uuid.UUID `json:"label_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	classification, err := ch.classificationService.Submit(c.Request.Context(), userID, req.ImageID, req.LabelID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyClassified):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrImageNotFound), errors.Is(err, services.ErrLabelNotFound), errors.Is(err, repos.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store classification"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"classification": classification})
}

func (ch *ClassificationHandler) ListForImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	classifications, err := ch.classificationService.GetForImage(c.Request.Context(), imageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classifications": classifications})
}

func (ch *ClassificationHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	classifications, err := ch.classificationService.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classifications": classifications})
}
