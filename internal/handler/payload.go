package handler

import (
	"time"

	"github.com/blogblog/internal/db"
	"github.com/blogblog/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	commentPreviewLength = 75
	timeLayout           = time.RFC3339
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func authorPayload(author *db.Author) gin.H {
	if author == nil {
		return nil
	}
	payload := gin.H{
		"id":                  author.ID,
		"name":                author.DisplayName(),
		"phone":               author.Phone,
		"date_last_active":    formatTime(author.DateLastActive),
		"date_time_last_post": formatOptionalTime(author.DateTimeLastPost),
	}
	if author.User != nil {
		payload["username"] = author.User.Username
		payload["email"] = author.User.Email
		payload["first_name"] = author.User.FirstName
		payload["last_name"] = author.User.LastName
		payload["is_active"] = author.User.IsActive
		payload["is_superuser"] = author.User.IsSuperuser
		payload["date_joined"] = formatTime(author.User.DateJoined)
	}
	return payload
}

// authorSummary 列表中只展示作者的公开信息。
func authorSummary(author *db.Author) gin.H {
	if author == nil {
		return nil
	}
	return gin.H{"id": author.ID, "name": author.DisplayName()}
}

func contentPayload(content *db.Content) gin.H {
	return gin.H{
		"id":               content.ID,
		"title":            content.Title,
		"slug":             content.Slug,
		"text":             content.Text,
		"date_time_create": formatTime(content.DateTimeCreate),
		"date_time_edit":   formatTime(content.DateTimeEdit),
		"is_published":     content.IsPublished,
		"author":           authorSummary(content.Author),
	}
}

func contentLink(content *db.Content) gin.H {
	if content == nil {
		return nil
	}
	return gin.H{"slug": content.Slug, "title": content.Title}
}

func commentPayload(comment *db.Comment) gin.H {
	payload := gin.H{
		"id":               comment.ID,
		"text":             comment.Text,
		"short_text":       service.ShortText(comment.Text, commentPreviewLength),
		"date_time_create": formatTime(comment.DateTimeCreate),
		"author":           authorSummary(comment.Author),
	}
	if comment.Content != nil {
		payload["content"] = contentLink(comment.Content)
	}
	return payload
}

func feedItemPayload(item service.FeedItem) gin.H {
	return gin.H{
		"title":            item.Content.Title,
		"slug":             item.Content.Slug,
		"short_text":       item.ShortText,
		"date_time_create": formatTime(item.Content.DateTimeCreate),
		"is_published":     item.Content.IsPublished,
		"author":           item.AuthorName,
		"comment_count":    item.CommentCount,
	}
}

func pagination(page, perPage, totalPages int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": totalPages,
		"has_prev":    page > 1,
		"has_next":    page < totalPages,
	}
}
