package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/blogblog/internal/locale"
	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": localized(c, message)})
}

// NotFound 是未匹配路由的统一响应。
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "页面不存在")
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parsePage 解析 ?page=，非法值一律回退到第一页。
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

func parsePerPage(c *gin.Context, fallback int) int {
	perPage, err := strconv.Atoi(strings.TrimSpace(c.Query("per_page")))
	if err != nil || perPage <= 0 {
		return fallback
	}
	if perPage > 100 {
		return 100
	}
	return perPage
}

// respondServiceError maps service errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	if fields, ok := service.ValidationErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": localized(c, "请检查输入内容"), "fields": fields})
		return
	}

	var cooldown *service.CooldownError
	switch {
	case errors.As(err, &cooldown):
		minutes := cooldown.RemainingMinutes()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": locale.Pick(requestLanguage(c),
				fmt.Sprintf("You can post again in %d minutes", minutes),
				fmt.Sprintf("请在 %d 分钟后再发布", minutes)),
			"remaining_minutes": minutes,
		})
	case errors.Is(err, service.ErrContentNotFound):
		respondError(c, http.StatusNotFound, "内容不存在")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "评论不存在")
	case errors.Is(err, service.ErrAuthorNotFound):
		respondError(c, http.StatusNotFound, "作者不存在")
	case errors.Is(err, service.ErrAccountNotFound):
		respondError(c, http.StatusNotFound, "账号不存在")
	case errors.Is(err, service.ErrSlugConflict):
		respondError(c, http.StatusConflict, "同一时间已存在相同标题的内容")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "该邮箱已被注册")
	case errors.Is(err, service.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "用户名已被占用")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
	case errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusUnauthorized, "账号已停用")
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  localized(c, "请检查输入内容"),
			"fields": gin.H{"old_password": localized(c, "原密码不正确")},
		})
	case errors.Is(err, service.ErrFeedAuthorRequired):
		respondError(c, http.StatusUnauthorized, "请先登录")
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
