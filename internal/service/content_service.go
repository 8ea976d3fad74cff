package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrAuthorNotFound  = errors.New("author not found")
	ErrSlugConflict    = errors.New("content slug already exists")
	ErrCooldownActive  = errors.New("posting cooldown is active")
)

const maxSlugAttempts = 100

// CooldownError reports how long an author must wait before posting again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("you can post content again in %d minutes", e.RemainingMinutes())
}

// Is lets callers match the error with errors.Is(err, ErrCooldownActive).
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// RemainingMinutes rounds the remaining wait down to whole minutes.
func (e *CooldownError) RemainingMinutes() int {
	if e == nil || e.Remaining <= 0 {
		return 0
	}
	return int(e.Remaining / time.Minute)
}

// Actor identifies the author on whose behalf an operation runs.
type Actor struct {
	AuthorID  uint
	Superuser bool
}

// ActorFor builds an Actor from a loaded author.
func ActorFor(author *db.Author) Actor {
	if author == nil {
		return Actor{}
	}
	return Actor{AuthorID: author.ID, Superuser: author.IsSuperuser()}
}

// ContentOptions configures the content lifecycle.
type ContentOptions struct {
	Cooldown         time.Duration
	SlugReplacement  string
	SlugDisambiguate bool
}

// ContentService wraps content related database operations.
type ContentService struct {
	db       *gorm.DB
	activity *ActivityService
	opts     ContentOptions
	now      func() time.Time
}

// NewContentService creates a ContentService instance.
func NewContentService(gdb *gorm.DB, activity *ActivityService, opts ContentOptions) *ContentService {
	return &ContentService{db: gdb, activity: activity, opts: opts, now: utcNow}
}

// Create 创建文章：冷却检查、slug 生成、写入以及作者最近发文时间更新在同一事务内完成。
func (s *ContentService) Create(ctx context.Context, actor Actor, form ContentForm) (*db.Content, error) {
	if actor.AuthorID == 0 {
		return nil, ErrAuthorNotFound
	}
	if err := form.normalize(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	published := true
	if form.IsPublished != nil {
		published = *form.IsPublished
	}

	content := db.Content{
		Title:          form.Title,
		Text:           form.Text,
		DateTimeCreate: now,
		DateTimeEdit:   now,
		AuthorID:       actor.AuthorID,
		IsPublished:    published,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.claimPostSlot(tx, actor, now); err != nil {
			return err
		}

		slug, err := s.assignSlug(tx, content.Title, now)
		if err != nil {
			return err
		}
		content.Slug = slug

		if err := tx.Create(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlugConflict
			}
			return err
		}

		s.activity.Record(tx, actor.AuthorID, ActivityContentCreated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &content, nil
}

// claimPostSlot 以条件更新的方式同时完成冷却检查与最近发文时间写入，避免并发请求同时通过检查。
func (s *ContentService) claimPostSlot(tx *gorm.DB, actor Actor, now time.Time) error {
	query := tx.Model(&db.Author{}).Where("id = ?", actor.AuthorID)
	enforce := !actor.Superuser && s.opts.Cooldown > 0
	if enforce {
		cutoff := now.Add(-s.opts.Cooldown)
		query = query.Where("(date_time_last_post IS NULL OR date_time_last_post <= ?)", cutoff)
	}

	result := query.Update("date_time_last_post", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var author db.Author
	if err := tx.Select("id", "date_time_last_post").First(&author, actor.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}
	if !enforce || author.DateTimeLastPost == nil {
		return fmt.Errorf("claim post slot for author %d: no rows updated", actor.AuthorID)
	}

	return &CooldownError{Remaining: author.DateTimeLastPost.Add(s.opts.Cooldown).Sub(now)}
}

func (s *ContentService) assignSlug(tx *gorm.DB, title string, created time.Time) (string, error) {
	slug := BuildSlug(title, created, s.opts.SlugReplacement)
	if !s.opts.SlugDisambiguate {
		return slug, nil
	}

	candidate := slug
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		var count int64
		if err := tx.Model(&db.Content{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", attempt)
		candidate = truncateSlug(slug, maxSlugLength-len(suffix)) + suffix
	}
	return "", ErrSlugConflict
}

// Update 编辑自己的文章标题与正文，slug 保持不变。
func (s *ContentService) Update(ctx context.Context, actor Actor, slug string, form ContentForm) (*db.Content, error) {
	form.IsPublished = nil
	return s.update(ctx, s.ownedBySlug(actor, slug), form)
}

// UpdateByID is the admin console variant: no ownership filter, publish flag honoured.
func (s *ContentService) UpdateByID(ctx context.Context, id uint, form ContentForm) (*db.Content, error) {
	return s.update(ctx, byID(id), form)
}

func (s *ContentService) update(ctx context.Context, scope func(*gorm.DB) *gorm.DB, form ContentForm) (*db.Content, error) {
	if err := form.normalize(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var content db.Content
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope).First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		s.activity.BeforeContentUpdate(tx, &content)

		updates := map[string]interface{}{
			"title":          form.Title,
			"text":           form.Text,
			"date_time_edit": s.now(),
		}
		if form.IsPublished != nil {
			updates["is_published"] = *form.IsPublished
		}

		if err := tx.Model(&db.Content{}).Where("id = ?", content.ID).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Preload("Author.User").First(&content, content.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &content, nil
}

// Publish marks the caller's content as published.
func (s *ContentService) Publish(ctx context.Context, actor Actor, slug string) (*db.Content, error) {
	return s.setPublished(ctx, s.ownedBySlug(actor, slug), true)
}

// Unpublish hides the caller's content from the public feed.
func (s *ContentService) Unpublish(ctx context.Context, actor Actor, slug string) (*db.Content, error) {
	return s.setPublished(ctx, s.ownedBySlug(actor, slug), false)
}

// SetPublishedByID is used by the admin console and bypasses ownership.
func (s *ContentService) SetPublishedByID(ctx context.Context, id uint, published bool) (*db.Content, error) {
	return s.setPublished(ctx, byID(id), published)
}

// setPublished 状态一致时不做任何写入，保证 publish/unpublish 幂等。
func (s *ContentService) setPublished(ctx context.Context, scope func(*gorm.DB) *gorm.DB, published bool) (*db.Content, error) {
	var content db.Content
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope).First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		if content.IsPublished == published {
			return nil
		}

		s.activity.BeforeContentUpdate(tx, &content)

		now := s.now()
		if err := tx.Model(&db.Content{}).
			Where("id = ?", content.ID).
			Updates(map[string]interface{}{
				"is_published":   published,
				"date_time_edit": now,
			}).Error; err != nil {
			return err
		}

		content.IsPublished = published
		content.DateTimeEdit = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &content, nil
}

// GetVisible 根据 slug 获取文章：已发布的对所有人可见，未发布的仅作者本人可见。
func (s *ContentService) GetVisible(ctx context.Context, viewer Actor, slug string) (*db.Content, error) {
	var content db.Content
	query := s.db.WithContext(ctx).
		Preload("Author.User").
		Scopes(visibleTo(viewer)).
		Where("slug = ?", slug)
	if err := query.First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// Get fetches a content item by id without visibility rules.
func (s *ContentService) Get(ctx context.Context, id uint) (*db.Content, error) {
	var content db.Content
	if err := s.db.WithContext(ctx).Preload("Author.User").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// Delete removes a content item; its comments survive with content_id cleared.
func (s *ContentService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Comment{}).
			Where("content_id = ?", id).
			Update("content_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&db.Content{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrContentNotFound
		}
		return nil
	})
}

func (s *ContentService) ownedBySlug(actor Actor, slug string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("slug = ? AND author_id = ?", slug, actor.AuthorID)
	}
}

func byID(id uint) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("id = ?", id)
	}
}

func visibleTo(viewer Actor) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if viewer.AuthorID == 0 {
			return query.Where("contents.is_published = ?", true)
		}
		return query.Where("(contents.is_published = ? OR contents.author_id = ?)", true, viewer.AuthorID)
	}
}
