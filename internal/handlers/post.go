package handlers

import (
	"net/http"

	"redditclone/internal/middleware"
	"redditclone/internal/models"
	"redditclone/internal/services"
	"redditclone/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts      *services.PostService
	comments   *services.CommentService
	subreddits *services.SubredditService
	logger     *zap.Logger
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService, subreddits *services.SubredditService, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, subreddits: subreddits, logger: logger}
}

type createPostRequest struct {
	SubredditID uint   `form:"subredditId" json:"subredditId"`
	Title       string `form:"title" json:"title"`
	URL         string `form:"url" json:"url"`
	PostText    string `form:"postText" json:"postText"`
}

type createCommentRequest struct {
	PostID uint   `form:"postId" json:"postId" binding:"required"`
	Text   string `form:"text" json:"text"`
}

type deletePostRequest struct {
	PostID uint `form:"postId" json:"postId" binding:"required"`
}

// List serves the front page: GET / and GET /sort/:method.
func (h *PostHandler) List(c *gin.Context) {
	sort := models.ParseSort(c.Param("method"))
	posts, err := h.posts.ListPosts(c.Request.Context(), services.ListPostsInput{Sort: sort})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": sort, "posts": posts})
}

// ListBySubreddit serves GET /r/:subreddit and GET /r/:subreddit/:method.
func (h *PostHandler) ListBySubreddit(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("subreddit")
	sub, found, err := h.subreddits.GetByName(ctx, name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !found {
		respondError(c, h.logger, models.NewNotFoundError("subreddit", name))
		return
	}

	sort := models.ParseSort(c.Param("method"))
	posts, err := h.posts.ListPosts(ctx, services.ListPostsInput{Sort: sort, SubredditID: sub.ID})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	userID, loggedIn := middleware.CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{
		"subreddit":    sub,
		"sort":         sort,
		"posts":        posts,
		"is_moderator": loggedIn && sub.IsModerator(userID),
	})
}

// Detail serves GET /post/:id with the newest comments.
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}

	ctx := c.Request.Context()
	post, found, err := h.posts.GetPost(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !found {
		respondError(c, h.logger, models.NewNotFoundError("post", id))
		return
	}
	comments, err := h.comments.ListForPost(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid post")
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), services.CreatePostInput{
		UserID:      userID,
		SubredditID: req.SubredditID,
		Title:       req.Title,
		URL:         req.URL,
		PostText:    req.PostText,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req deletePostRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "postId is required")
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), req.PostID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req createCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "postId is required")
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), services.CreateCommentInput{
		UserID: userID,
		PostID: req.PostID,
		Text:   req.Text,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
