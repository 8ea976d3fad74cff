package handler

import (
	"errors"
	"net/http"

	"github.com/blogblog/internal/db"
	"github.com/blogblog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	sessionUserKey   = "user_id"
	currentAuthorKey = "__current_author"
)

// startSession 登录成功后写入会话。
func startSession(c *gin.Context, author *db.Author) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, author.UserID)
	return session.Save()
}

func clearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func sessionUserID(c *gin.Context) uint {
	switch v := sessions.Default(c).Get(sessionUserKey).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case uint64:
		return uint(v)
	}
	return 0
}

// LoadAccount 从会话中解析当前用户并放入上下文；匿名访问直接放行。
func (a *API) LoadAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sessionUserID(c)
		if userID == 0 {
			c.Next()
			return
		}

		author, err := a.accounts.Current(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(currentAuthorKey, author)
		case errors.Is(err, service.ErrAccountNotFound):
			// 账号已删除或被停用，丢弃过期会话
			if err := clearSession(c); err != nil {
				log.Warn().Err(err).Msg("clear stale session failed")
			}
		default:
			log.Error().Err(err).Uint("user_id", userID).Msg("load session account failed")
		}
		c.Next()
	}
}

// AuthRequired 要求已登录，否则返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAuthor(c) == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SuperuserRequired 后台接口对非超级用户表现为不存在。
func SuperuserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentAuthor(c).IsSuperuser() {
			respondError(c, http.StatusNotFound, "页面不存在")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentAuthor(c *gin.Context) *db.Author {
	value, exists := c.Get(currentAuthorKey)
	if !exists {
		return nil
	}
	author, _ := value.(*db.Author)
	return author
}

func currentActor(c *gin.Context) service.Actor {
	return service.ActorFor(currentAuthor(c))
}
