package handlers

import (
	"net/http"

	"redditclone/internal/middleware"
	"redditclone/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VoteHandler struct {
	votes  *services.VoteService
	logger *zap.Logger
}

func NewVoteHandler(votes *services.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

// VoteDirection is a pointer so a missing field can be told apart from 0.
type voteRequest struct {
	PostID        uint `form:"postId" json:"postId" binding:"required"`
	VoteDirection *int `form:"vote" json:"vote" binding:"required"`
}

type commentVoteRequest struct {
	CommentID     uint `form:"commentId" json:"commentId" binding:"required"`
	VoteDirection *int `form:"vote" json:"vote" binding:"required"`
}

// Vote handles POST /vote and answers with the post's new tally.
func (h *VoteHandler) Vote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "postId and vote are required")
		return
	}

	ctx := c.Request.Context()
	if err := h.votes.CastVote(ctx, req.PostID, userID, *req.VoteDirection); err != nil {
		respondError(c, h.logger, err)
		return
	}
	tally, err := h.votes.PostScore(ctx, req.PostID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

func (h *VoteHandler) CommentVote(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req commentVoteRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "commentId and vote are required")
		return
	}

	if err := h.votes.CastCommentVote(c.Request.Context(), req.CommentID, userID, *req.VoteDirection); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
