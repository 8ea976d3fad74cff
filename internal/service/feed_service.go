package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blogblog/internal/db"
	"gorm.io/gorm"
)

var ErrFeedAuthorRequired = errors.New("own feed requires an author")

// FeedKind selects which contents a feed shows.
type FeedKind string

const (
	FeedPublic FeedKind = "public"
	FeedOwn    FeedKind = "own"
)

// ParseFeedKind maps the ?feed= query value to a FeedKind, defaulting to public.
func ParseFeedKind(value string) FeedKind {
	if strings.EqualFold(strings.TrimSpace(value), string(FeedOwn)) {
		return FeedOwn
	}
	return FeedPublic
}

// FeedQuery describes a feed request.
type FeedQuery struct {
	Kind     FeedKind
	AuthorID uint
	Page     int
}

// FeedItem is one row of a feed page.
type FeedItem struct {
	Content      db.Content
	AuthorName   string
	CommentCount int64
	ShortText    string
}

// FeedPage aggregates paginated feed data.
type FeedPage struct {
	Items      []FeedItem
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Neighbors holds the previous/next content around a given one within a feed.
type Neighbors struct {
	Previous *db.Content
	Next     *db.Content
}

// FeedService assembles the public and personal feeds.
type FeedService struct {
	db       *gorm.DB
	comments *CommentService
	perPage  int
}

// NewFeedService creates a FeedService instance.
func NewFeedService(gdb *gorm.DB, comments *CommentService, perPage int) *FeedService {
	if perPage <= 0 {
		perPage = 20
	}
	return &FeedService{db: gdb, comments: comments, perPage: perPage}
}

// PerPage returns the configured page size.
func (s *FeedService) PerPage() int {
	return s.perPage
}

// scope 公共 feed 只包含已发布内容；个人 feed 包含作者的全部内容（含未发布）。
func (s *FeedService) scope(q FeedQuery) (func(*gorm.DB) *gorm.DB, error) {
	switch q.Kind {
	case FeedOwn:
		if q.AuthorID == 0 {
			return nil, ErrFeedAuthorRequired
		}
		return func(query *gorm.DB) *gorm.DB {
			return query.Where("contents.author_id = ?", q.AuthorID)
		}, nil
	default:
		return func(query *gorm.DB) *gorm.DB {
			return query.Where("contents.is_published = ?", true)
		}, nil
	}
}

// List returns one page of the feed, newest first.
func (s *FeedService) List(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	scope, err := s.scope(q)
	if err != nil {
		return nil, err
	}

	result := &FeedPage{Page: q.Page, PerPage: s.perPage}
	if result.Page <= 0 {
		result.Page = 1
	}

	if err := s.db.WithContext(ctx).Model(&db.Content{}).Scopes(scope).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	var contents []db.Content
	err = s.db.WithContext(ctx).
		Preload("Author.User").
		Scopes(scope).
		Order("contents.date_time_create DESC, contents.id DESC").
		Offset((result.Page - 1) * result.PerPage).
		Limit(result.PerPage).
		Find(&contents).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(contents))
	for _, content := range contents {
		ids = append(ids, content.ID)
	}
	counts, err := s.comments.CountByContent(ctx, ids)
	if err != nil {
		return nil, err
	}

	result.Items = make([]FeedItem, 0, len(contents))
	for _, content := range contents {
		result.Items = append(result.Items, FeedItem{
			Content:      content,
			AuthorName:   content.Author.DisplayName(),
			CommentCount: counts[content.ID],
			ShortText:    ShortText(content.Text, feedPreviewLength),
		})
	}

	result.HasPrev = result.Page > 1
	result.HasNext = result.Page < result.TotalPages
	return result, nil
}

// Adjacent 查找同一 feed 内创建时间紧邻的上一篇与下一篇。
func (s *FeedService) Adjacent(ctx context.Context, q FeedQuery, content *db.Content) (*Neighbors, error) {
	if content == nil {
		return &Neighbors{}, nil
	}
	scope, err := s.scope(q)
	if err != nil {
		return nil, err
	}

	previous, err := s.neighbor(ctx, scope, "contents.date_time_create < ?", "contents.date_time_create DESC, contents.id DESC", content)
	if err != nil {
		return nil, err
	}
	next, err := s.neighbor(ctx, scope, "contents.date_time_create > ?", "contents.date_time_create ASC, contents.id ASC", content)
	if err != nil {
		return nil, err
	}

	return &Neighbors{Previous: previous, Next: next}, nil
}

func (s *FeedService) neighbor(ctx context.Context, scope func(*gorm.DB) *gorm.DB, cond, order string, content *db.Content) (*db.Content, error) {
	var found []db.Content
	err := s.db.WithContext(ctx).
		Select("id", "title", "slug", "date_time_create", "author_id", "is_published").
		Scopes(scope).
		Where(cond, content.DateTimeCreate).
		Order(order).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}
