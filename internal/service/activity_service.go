package service

import (
	"context"
	"time"

	"github.com/blogblog/internal/db"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ActivityEvent names the action that refreshed an author's last-active time.
type ActivityEvent string

const (
	ActivityLogin          ActivityEvent = "login"
	ActivityLogout         ActivityEvent = "logout"
	ActivityContentCreated ActivityEvent = "content_created"
	ActivityCommentCreated ActivityEvent = "comment_created"
	ActivityContentEdited  ActivityEvent = "content_edited"
)

// ActivityService 维护 Author.DateLastActive。
// 这是尽力而为的记录：失败只写日志，不会影响触发它的操作。
type ActivityService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewActivityService creates an ActivityService instance.
func NewActivityService(gdb *gorm.DB) *ActivityService {
	return &ActivityService{db: gdb, now: utcNow}
}

// Record touches the author's last-active timestamp using tx, which is the
// transaction of the operation that triggered the event.
func (s *ActivityService) Record(tx *gorm.DB, authorID uint, event ActivityEvent) {
	if s == nil || authorID == 0 {
		return
	}
	if tx == nil {
		tx = s.db
	}

	err := tx.Model(&db.Author{}).
		Where("id = ?", authorID).
		Update("date_last_active", s.now()).Error
	if err != nil {
		log.Warn().Err(err).
			Uint("author_id", authorID).
			Str("event", string(event)).
			Msg("record author activity failed")
	}
}

// RecordUser is used by the session provider, which only knows the account id.
func (s *ActivityService) RecordUser(ctx context.Context, userID uint, event ActivityEvent) {
	if s == nil || userID == 0 {
		return
	}

	err := s.db.WithContext(ctx).
		Model(&db.Author{}).
		Where("user_id = ?", userID).
		Update("date_last_active", s.now()).Error
	if err != nil {
		log.Warn().Err(err).
			Uint("user_id", userID).
			Str("event", string(event)).
			Msg("record author activity failed")
	}
}

// BeforeContentUpdate 在更新文章前调用：只有记录已存在时才视为编辑，否则直接返回（新建由创建流程负责）。
func (s *ActivityService) BeforeContentUpdate(tx *gorm.DB, content *db.Content) {
	if s == nil || content == nil || content.ID == 0 {
		return
	}
	if tx == nil {
		tx = s.db
	}

	var existing db.Content
	err := tx.Select("id", "author_id").
		Where("id = ?", content.ID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		log.Warn().Err(err).Uint("content_id", content.ID).Msg("load content before update failed")
		return
	}
	if existing.ID == 0 {
		return
	}

	s.Record(tx, existing.AuthorID, ActivityContentEdited)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
