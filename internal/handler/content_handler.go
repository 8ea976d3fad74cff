package handler

import (
	"net/http"

	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
)

type contentRequest struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Format      string `json:"format"`
	IsPublished *bool  `json:"is_published"`
}

func (r contentRequest) toForm() service.ContentForm {
	return service.ContentForm{
		Title:       r.Title,
		Text:        r.Text,
		Format:      r.Format,
		IsPublished: r.IsPublished,
	}
}

// CreateContent 发布新内容，受发文冷却限制。
func (a *API) CreateContent(c *gin.Context) {
	var payload contentRequest
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	content, err := a.contents.Create(c.Request.Context(), currentActor(c), payload.toForm())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	content.Author = currentAuthor(c)
	c.JSON(http.StatusCreated, gin.H{"message": localized(c, "内容已创建"), "content": contentPayload(content)})
}

// ShowContent 返回内容详情、评论以及同一 feed 中的上一篇/下一篇。
func (a *API) ShowContent(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := currentActor(c)

	content, err := a.contents.GetVisible(ctx, viewer, c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	comments, err := a.comments.ListForContent(ctx, content.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	query := service.FeedQuery{Kind: service.ParseFeedKind(c.Query("feed")), AuthorID: viewer.AuthorID}
	// 自己的 feed 只包含自己的内容，浏览他人内容时退回公共 feed
	if viewer.AuthorID == 0 || viewer.AuthorID != content.AuthorID {
		query.Kind = service.FeedPublic
	}
	neighbors, err := a.feed.Adjacent(ctx, query, content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(comments))
	for i := range comments {
		items = append(items, commentPayload(&comments[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"content":       contentPayload(content),
		"comments":      items,
		"comment_count": len(items),
		"feed":          query.Kind,
		"previous":      contentLink(neighbors.Previous),
		"next":          contentLink(neighbors.Next),
		"is_owner":      viewer.AuthorID != 0 && viewer.AuthorID == content.AuthorID,
	})
}

// UpdateContent 编辑标题与正文，slug 保持不变。
func (a *API) UpdateContent(c *gin.Context) {
	var payload contentRequest
	if !bindJSON(c, &payload, "内容格式不正确") {
		return
	}

	content, err := a.contents.Update(c.Request.Context(), currentActor(c), c.Param("slug"), payload.toForm())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localized(c, "内容已更新"), "content": contentPayload(content)})
}

// PublishContent marks the caller's content as published.
func (a *API) PublishContent(c *gin.Context) {
	a.changeContentStatus(c, true)
}

// UnpublishContent hides the caller's content from the public feed.
func (a *API) UnpublishContent(c *gin.Context) {
	a.changeContentStatus(c, false)
}

func (a *API) changeContentStatus(c *gin.Context, published bool) {
	ctx := c.Request.Context()
	actor := currentActor(c)
	slug := c.Param("slug")

	var err error
	if published {
		_, err = a.contents.Publish(ctx, actor, slug)
	} else {
		_, err = a.contents.Unpublish(ctx, actor, slug)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slug": slug, "is_published": published})
}

// CreateComment 为可见内容添加评论。
func (a *API) CreateComment(c *gin.Context) {
	var form service.CommentForm
	if !bindJSON(c, &form, "评论格式不正确") {
		return
	}

	comment, err := a.comments.Create(c.Request.Context(), currentActor(c), c.Param("slug"), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": localized(c, "评论已发布"), "comment": commentPayload(comment)})
}

// DeleteComment 只能删除自己的评论，他人的评论返回 404。
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": localized(c, "评论已删除"), "slug": c.Param("slug")})
}
