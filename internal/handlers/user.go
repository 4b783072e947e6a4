package handlers

import (
	"net/http"

	"redditclone/internal/middleware"
	"redditclone/internal/models"
	"redditclone/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	auth   *services.AuthService
	posts  *services.PostService
	logger *zap.Logger
}

func NewUserHandler(auth *services.AuthService, posts *services.PostService, logger *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, posts: posts, logger: logger}
}

// Posts - 用户主页 /u/:username[/:method]
func (h *UserHandler) Posts(c *gin.Context) {
	username := c.Param("username")
	sort := models.ParseSort(c.Param("method"))
	posts, err := h.posts.ListPostsByAuthor(c.Request.Context(), username, sort)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "sort": sort, "posts": posts})
}

// Me returns the logged-in user.
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, found, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !found {
		respondError(c, h.logger, models.ErrNoSuchSession)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
