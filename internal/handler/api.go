package handler

import (
	"time"

	"github.com/blogblog/internal/service"
	"gorm.io/gorm"
)

// Options carries the tunables the handlers pass down to the services.
type Options struct {
	PostCooldown     time.Duration
	FeedPageSize     int
	SlugReplacement  string
	SlugDisambiguate bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	activity *service.ActivityService
	accounts *service.AccountService
	contents *service.ContentService
	comments *service.CommentService
	feed     *service.FeedService
	admin    *service.AdminService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	activity := service.NewActivityService(db)
	accounts := service.NewAccountService(db, activity, opts.SlugReplacement)
	contents := service.NewContentService(db, activity, service.ContentOptions{
		Cooldown:         opts.PostCooldown,
		SlugReplacement:  opts.SlugReplacement,
		SlugDisambiguate: opts.SlugDisambiguate,
	})
	comments := service.NewCommentService(db, activity)

	return &API{
		db:       db,
		activity: activity,
		accounts: accounts,
		contents: contents,
		comments: comments,
		feed:     service.NewFeedService(db, comments, opts.FeedPageSize),
		admin:    service.NewAdminService(db, accounts, contents, comments),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
