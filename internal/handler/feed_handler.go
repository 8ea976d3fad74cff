package handler

import (
	"net/http"

	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
)

// PublicFeed lists published content from every author.
func (a *API) PublicFeed(c *gin.Context) {
	a.renderFeed(c, service.FeedQuery{Kind: service.FeedPublic, Page: parsePage(c)})
}

// MyFeed 列出当前作者的全部内容，包括未发布的。
func (a *API) MyFeed(c *gin.Context) {
	a.renderFeed(c, service.FeedQuery{
		Kind:     service.FeedOwn,
		AuthorID: currentActor(c).AuthorID,
		Page:     parsePage(c),
	})
}

func (a *API) renderFeed(c *gin.Context, query service.FeedQuery) {
	page, err := a.feed.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, feedItemPayload(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":       query.Kind,
		"items":      items,
		"pagination": pagination(page.Page, page.PerPage, page.TotalPages, page.Total),
	})
}
