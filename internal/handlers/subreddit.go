package handlers

import (
	"net/http"

	"redditclone/internal/middleware"
	"redditclone/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubredditHandler struct {
	subreddits *services.SubredditService
	logger     *zap.Logger
}

func NewSubredditHandler(subreddits *services.SubredditService, logger *zap.Logger) *SubredditHandler {
	return &SubredditHandler{subreddits: subreddits, logger: logger}
}

type createSubredditRequest struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Description string `form:"description" json:"description"`
}

func (h *SubredditHandler) List(c *gin.Context) {
	subs, err := h.subreddits.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subreddits": subs})
}

// Create makes the caller the new subreddit's moderator.
func (h *SubredditHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req createSubredditRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "name is required")
		return
	}

	sub, err := h.subreddits.Create(c.Request.Context(), services.CreateSubredditInput{
		Name:        req.Name,
		Description: req.Description,
		ModeratorID: &userID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subreddit": sub})
}
