package router

import (
	"net/http"

	"github.com/blogblog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "blogblog_session"

// Options configures the engine.
type Options struct {
	SessionSecret string
	SecureCookies bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), handler.AccessLog(), handler.Recovery(), handler.Locale())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LoadAccount())

	r.NoRoute(handler.NotFound)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/signup", api.SignUp)
	r.POST("/login", api.Login)
	r.GET("/feed", api.PublicFeed)
	r.GET("/content/:slug", api.ShowContent)

	// 需要登录的路由
	auth := r.Group("")
	auth.Use(handler.AuthRequired())
	{
		auth.POST("/logout", api.Logout)
		auth.GET("/account", api.ShowAccount)
		auth.PUT("/account", api.UpdateAccount)
		auth.POST("/account/password", api.ChangePassword)

		auth.GET("/my-feed", api.MyFeed)
		auth.POST("/content", api.CreateContent)
		auth.PUT("/content/:slug", api.UpdateContent)
		auth.POST("/content/:slug/publish", api.PublishContent)
		auth.POST("/content/:slug/unpublish", api.UnpublishContent)
		auth.POST("/content/:slug/comments", api.CreateComment)
		auth.DELETE("/content/:slug/comments/:id", api.DeleteComment)
	}

	// 后台管理路由，仅超级用户可见
	admin := r.Group("/admin/api")
	admin.Use(handler.SuperuserRequired())
	{
		admin.GET("/dashboard", api.AdminDashboard)

		admin.GET("/authors", api.AdminListAuthors)
		admin.POST("/authors", api.AdminCreateUser)
		admin.PUT("/authors/:id", api.AdminUpdateAuthor)
		admin.DELETE("/authors/:id", api.AdminDeleteAuthor)

		admin.GET("/contents", api.AdminListContents)
		admin.PUT("/contents/:id", api.AdminUpdateContent)
		admin.DELETE("/contents/:id", api.AdminDeleteContent)

		admin.GET("/comments", api.AdminListComments)
		admin.PUT("/comments/:id", api.AdminUpdateComment)
		admin.DELETE("/comments/:id", api.AdminDeleteComment)
	}

	return r
}
