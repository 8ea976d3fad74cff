package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blogblog/internal/db"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService wraps comment related database operations.
type CommentService struct {
	db       *gorm.DB
	activity *ActivityService
	now      func() time.Time
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB, activity *ActivityService) *CommentService {
	return &CommentService{db: gdb, activity: activity, now: utcNow}
}

// Create 给当前用户可见的文章添加评论。
func (s *CommentService) Create(ctx context.Context, actor Actor, slug string, form CommentForm) (*db.Comment, error) {
	if actor.AuthorID == 0 {
		return nil, ErrAuthorNotFound
	}
	form.Text = strings.TrimSpace(form.Text)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var comment db.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content db.Content
		if err := tx.Select("id").
			Scopes(visibleTo(actor)).
			Where("slug = ?", slug).
			First(&content).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		authorID := actor.AuthorID
		contentID := content.ID
		comment = db.Comment{
			Text:           form.Text,
			DateTimeCreate: s.now(),
			AuthorID:       &authorID,
			ContentID:      &contentID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		s.activity.Record(tx, actor.AuthorID, ActivityCommentCreated)
		return tx.Preload("Author.User").First(&comment, comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListForContent returns the comments of a content item, oldest first.
func (s *CommentService) ListForContent(ctx context.Context, contentID uint) ([]db.Comment, error) {
	var comments []db.Comment
	err := s.db.WithContext(ctx).
		Preload("Author.User").
		Where("content_id = ?", contentID).
		Order("date_time_create ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete 只删除属于 actor 的评论；他人的评论与不存在的评论一样返回 ErrCommentNotFound。
func (s *CommentService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.AuthorID == 0 {
		return ErrCommentNotFound
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, actor.AuthorID).
		Delete(&db.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// UpdateText edits the text of any comment.
func (s *CommentService) UpdateText(ctx context.Context, id uint, form CommentForm) (*db.Comment, error) {
	form.Text = strings.TrimSpace(form.Text)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var comment db.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Comment{}).Where("id = ?", id).Update("text", form.Text)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCommentNotFound
		}
		return tx.Preload("Author.User").First(&comment, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteAny removes a comment regardless of its author.
func (s *CommentService) DeleteAny(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// List returns every comment for the admin console, newest first.
func (s *CommentService) List(ctx context.Context, page, perPage int) ([]db.Comment, int64, error) {
	page, perPage = normalizePage(page, perPage)

	var total int64
	if err := s.db.WithContext(ctx).Model(&db.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []db.Comment
	err := s.db.WithContext(ctx).
		Preload("Author.User").
		Preload("Content").
		Order("date_time_create DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// CountByContent 批量统计评论数，避免列表页逐条查询。
func (s *CommentService) CountByContent(ctx context.Context, contentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ContentID uint
		Total     int64
	}
	err := s.db.WithContext(ctx).
		Model(&db.Comment{}).
		Select("content_id, COUNT(*) AS total").
		Where("content_id IN ?", contentIDs).
		Group("content_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ContentID] = row.Total
	}
	return counts, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}
