package handler

import (
	"net/http"

	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
)

const adminPerPage = 50

// AdminDashboard 后台概览：各模型的数量。
func (a *API) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	authors, err := a.admin.ListAuthors(ctx, 1, 1)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	contents, err := a.admin.ListContents(ctx, 1, 1)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	comments, err := a.admin.ListComments(ctx, 1, 1)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      currentAuthor(c).User.Username,
		"author_count":  authors.Total,
		"content_count": contents.Total,
		"comment_count": comments.Total,
	})
}

// AdminListAuthors 作者列表
func (a *API) AdminListAuthors(c *gin.Context) {
	result, err := a.admin.ListAuthors(c.Request.Context(), parsePage(c), parsePerPage(c, adminPerPage))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, authorPayload(&result.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"authors":    items,
		"pagination": pagination(result.Page, result.PerPage, result.TotalPages, result.Total),
	})
}

// AdminCreateUser 直接创建账号
func (a *API) AdminCreateUser(c *gin.Context) {
	var form service.AdminUserForm
	if !bindJSON(c, &form, "请填写完整的账号信息") {
		return
	}

	author, err := a.admin.CreateUser(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": localized(c, "账号已创建"), "author": authorPayload(author)})
}

// AdminUpdateAuthor 更新作者资料与启用状态
func (a *API) AdminUpdateAuthor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作者ID")
		return
	}

	var form service.AdminAuthorForm
	if !bindJSON(c, &form, "作者资料格式不正确") {
		return
	}

	author, err := a.admin.UpdateAuthor(c.Request.Context(), id, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "作者已更新"), "author": authorPayload(author)})
}

// AdminDeleteAuthor 删除作者及其账号
func (a *API) AdminDeleteAuthor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的作者ID")
		return
	}
	if id == currentAuthor(c).ID {
		respondError(c, http.StatusBadRequest, "不能删除当前登录的账号")
		return
	}

	if err := a.admin.DeleteAuthor(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "作者已删除")})
}

// AdminListContents 全部内容，包括未发布的
func (a *API) AdminListContents(c *gin.Context) {
	result, err := a.admin.ListContents(c.Request.Context(), parsePage(c), parsePerPage(c, adminPerPage))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for i := range result.Items {
		payload := contentPayload(&result.Items[i])
		payload["short_text"] = service.ShortText(result.Items[i].Text, commentPreviewLength)
		delete(payload, "text")
		items = append(items, payload)
	}
	c.JSON(http.StatusOK, gin.H{
		"contents":   items,
		"pagination": pagination(result.Page, result.PerPage, result.TotalPages, result.Total),
	})
}

// AdminUpdateContent 编辑标题、正文与发布状态；slug 只读。
func (a *API) AdminUpdateContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	var form service.AdminContentForm
	if !bindJSON(c, &form, "内容格式不正确") {
		return
	}

	content, err := a.admin.UpdateContent(c.Request.Context(), id, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "内容已更新"), "content": contentPayload(content)})
}

// AdminDeleteContent 删除内容，评论保留
func (a *API) AdminDeleteContent(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	if err := a.admin.DeleteContent(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "内容已删除")})
}

// AdminListComments 全部评论
func (a *API) AdminListComments(c *gin.Context) {
	result, err := a.admin.ListComments(c.Request.Context(), parsePage(c), parsePerPage(c, adminPerPage))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, commentPayload(&result.Items[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"comments":   items,
		"pagination": pagination(result.Page, result.PerPage, result.TotalPages, result.Total),
	})
}

// AdminUpdateComment 修改评论正文
func (a *API) AdminUpdateComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	var form service.CommentForm
	if !bindJSON(c, &form, "评论格式不正确") {
		return
	}

	comment, err := a.admin.UpdateComment(c.Request.Context(), id, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "评论已更新"), "comment": commentPayload(comment)})
}

// AdminDeleteComment 删除任意评论
func (a *API) AdminDeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.admin.DeleteComment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": localized(c, "评论已删除")})
}
