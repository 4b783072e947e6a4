package handlers

import (
	"errors"
	"net/http"

	"redditclone/internal/middleware"
	"redditclone/internal/models"
	"redditclone/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const captchaNonceKey = "captcha_nonce"

// Captcha issues and checks the signup challenge. Only the nonce goes to the client.
type Captcha interface {
	Issue() (question, nonce string, err error)
	Verify(nonce, input string) bool
}

type AuthHandler struct {
	auth     *services.AuthService
	sessions *services.SessionService
	reset    *services.ResetService
	captcha  Captcha
	logger   *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, sessions *services.SessionService, reset *services.ResetService, captcha Captcha, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		reset:    reset,
		captcha:  captcha,
		logger:   logger,
	}
}

type signupRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Captcha  string `form:"captcha" json:"captcha"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type resetRequest struct {
	Email string `form:"email" json:"email" binding:"required"`
}

type redeemRequest struct {
	Token    string `form:"token" json:"token" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// ShowSignup hands out a fresh captcha question; its nonce goes into the cookie session.
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	question, err := h.newChallenge(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captcha": question})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "username, email and password are required")
		return
	}

	session := sessions.Default(c)
	nonce, _ := session.Get(captchaNonceKey).(string)
	// 验证码只能用一次，校验即作废
	session.Delete(captchaNonceKey)
	_ = session.Save()
	if !h.captcha.Verify(nonce, req.Captcha) {
		question, err := h.newChallenge(c)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "wrong captcha answer",
			"kind":    models.KindValidation,
			"captcha": question,
		})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, models.ErrAuthenticationFailed)
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	token, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionTokenKey, token)
	if err := session.Save(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if token, _ := session.Get(middleware.SessionTokenKey).(string); token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			h.logger.Warn("revoke session failed", zap.Error(err))
		}
	}
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateResetToken mails a reset link. The token itself is never echoed back.
func (h *AuthHandler) CreateResetToken(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	_, err := h.reset.RequestReset(c.Request.Context(), req.Email)
	if errors.Is(err, models.ErrNotificationFailed) {
		// token is stored; the user can ask again once mail works
		c.JSON(http.StatusAccepted, gin.H{"ok": true, "delivered": false})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "delivered": true})
}

// ShowResetPassword echoes the token from the emailed link so a client can
// post it back with the new password.
func (h *AuthHandler) ShowResetPassword(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, h.logger, models.ErrInvalidResetToken)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "token and password are required")
		return
	}
	if err := h.reset.RedeemReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) newChallenge(c *gin.Context) (string, error) {
	question, nonce, err := h.captcha.Issue()
	if err != nil {
		return "", err
	}
	session := sessions.Default(c)
	session.Set(captchaNonceKey, nonce)
	if err := session.Save(); err != nil {
		h.logger.Warn("save captcha failed", zap.Error(err))
	}
	return question, nil
}
