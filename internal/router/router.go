package router

import (
	"net/http"

	"redditclone/internal/handlers"
	"redditclone/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionCookieName = "reddit_session"

type Handlers struct {
	Auth       *handlers.AuthHandler
	Posts      *handlers.PostHandler
	Votes      *handlers.VoteHandler
	Subreddits *handlers.SubredditHandler
	Users      *handlers.UserHandler
}

type Options struct {
	SessionSecret string
	SecureCookie  bool
}

// NewEngine returns a gin engine with recovery, request logging, the cookie
// session store and user loading installed.
func NewEngine(opts Options, resolver middleware.SessionResolver, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))
	r.Use(middleware.LoadUser(resolver, logger))
	return r
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// 公共路由 (Public Routes)
	r.GET("/", h.Posts.List)                                // 首页，默认 new
	r.GET("/sort/:method", h.Posts.List)                    // new / top / hot
	r.GET("/r/:subreddit", h.Posts.ListBySubreddit)         // 子版块
	r.GET("/r/:subreddit/:method", h.Posts.ListBySubreddit) //
	r.GET("/u/:username", h.Users.Posts)                    // 用户的帖子
	r.GET("/u/:username/:method", h.Users.Posts)            //
	r.GET("/post/:id", h.Posts.Detail)                      // 帖子详情 + 评论
	r.GET("/subreddits", h.Subreddits.List)                 // 所有子版块

	auth := r.Group("/auth")
	{
		auth.GET("/signup", h.Auth.ShowSignup)
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/logout", h.Auth.Logout)
		auth.POST("/createResetToken", h.Auth.CreateResetToken)
		auth.GET("/resetPassword", h.Auth.ShowResetPassword)
		auth.POST("/resetPassword", h.Auth.ResetPassword)
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", h.Users.Me)
		authorized.POST("/subreddits", h.Subreddits.Create)
		authorized.POST("/createPost", h.Posts.Create)
		authorized.POST("/deletePost", h.Posts.Delete)
		authorized.POST("/createComment", h.Posts.CreateComment)
		authorized.POST("/vote", h.Votes.Vote)
		authorized.POST("/commentVote", h.Votes.CommentVote)
	}
}
