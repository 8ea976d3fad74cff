package handler

import (
	"net/http"

	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp 注册新账号并直接登录。
func (a *API) SignUp(c *gin.Context) {
	var form service.SignUpForm
	if !bindJSON(c, &form, "注册信息格式不正确") {
		return
	}

	author, err := a.accounts.Register(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := startSession(c, author); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	a.activity.Record(nil, author.ID, service.ActivityLogin)

	log.Info().Uint("user_id", author.UserID).Str("username", author.User.Username).Msg("account registered")
	c.JSON(http.StatusCreated, gin.H{"message": localized(c, "注册成功"), "author": authorPayload(author)})
}

// Login 使用邮箱与密码登录。
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "登录信息格式不正确") {
		return
	}

	author, err := a.accounts.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := startSession(c, author); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localized(c, "登录成功"), "author": authorPayload(author)})
}

// Logout 记录活动后清除会话。
func (a *API) Logout(c *gin.Context) {
	if author := currentAuthor(c); author != nil {
		a.accounts.Logout(c.Request.Context(), author.UserID)
	}
	if err := clearSession(c); err != nil {
		respondError(c, http.StatusInternalServerError, "会话清除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "已退出登录")})
}

// ShowAccount returns the caller's profile.
func (a *API) ShowAccount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"author": authorPayload(currentAuthor(c))})
}

// UpdateAccount edits the caller's profile.
func (a *API) UpdateAccount(c *gin.Context) {
	var form service.ProfileForm
	if !bindJSON(c, &form, "资料格式不正确") {
		return
	}

	author, err := a.accounts.UpdateProfile(c.Request.Context(), currentAuthor(c).UserID, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localized(c, "资料已更新"), "author": authorPayload(author)})
}

// ChangePassword 修改密码，成功后会话保持有效。
func (a *API) ChangePassword(c *gin.Context) {
	var form service.PasswordChangeForm
	if !bindJSON(c, &form, "密码格式不正确") {
		return
	}

	if err := a.accounts.ChangePassword(c.Request.Context(), currentAuthor(c).UserID, form); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localized(c, "密码已修改")})
}
