package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/blogblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// testClock 固定时间源，测试中手动拨动。
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

type testServices struct {
	db       *gorm.DB
	clock    *testClock
	activity *ActivityService
	contents *ContentService
	comments *CommentService
	feed     *FeedService
	accounts *AccountService
	admin    *AdminService
}

func newTestServices(t *testing.T, opts ContentOptions) *testServices {
	t.Helper()
	gdb := setupServiceTestDB(t)
	clock := newTestClock()

	activity := NewActivityService(gdb)
	activity.now = clock.Now
	contents := NewContentService(gdb, activity, opts)
	contents.now = clock.Now
	comments := NewCommentService(gdb, activity)
	comments.now = clock.Now
	accounts := NewAccountService(gdb, activity, opts.SlugReplacement)
	accounts.now = clock.Now

	return &testServices{
		db:       gdb,
		clock:    clock,
		activity: activity,
		contents: contents,
		comments: comments,
		feed:     NewFeedService(gdb, comments, 20),
		accounts: accounts,
		admin:    NewAdminService(gdb, accounts, contents, comments),
	}
}

func defaultContentOptions() ContentOptions {
	return ContentOptions{Cooldown: 10 * time.Minute}
}

func createTestAuthor(t *testing.T, gdb *gorm.DB, username string, superuser bool) *db.Author {
	t.Helper()
	user := db.User{
		Username:    username,
		Email:       username + "@example.com",
		FirstName:   username,
		IsActive:    true,
		IsSuperuser: superuser,
		DateJoined:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := user.SetPassword("s3cret-pass"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	var author db.Author
	if err := gdb.Preload("User").Where("user_id = ?", user.ID).First(&author).Error; err != nil {
		t.Fatalf("load author %s: %v", username, err)
	}
	return &author
}

func loadAuthor(t *testing.T, gdb *gorm.DB, id uint) db.Author {
	t.Helper()
	var author db.Author
	if err := gdb.Preload("User").First(&author, id).Error; err != nil {
		t.Fatalf("load author %d: %v", id, err)
	}
	return author
}

func boolPtr(v bool) *bool {
	return &v
}
