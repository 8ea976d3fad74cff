package db

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDBTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(dsn, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestUserCreateAddsAuthor(t *testing.T) {
	gdb := setupDBTest(t)

	joined := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	user := User{Username: "jdoe", Email: "jdoe@example.com", IsActive: true, DateJoined: joined}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	var authors []Author
	if err := gdb.Where("user_id = ?", user.ID).Find(&authors).Error; err != nil {
		t.Fatalf("load authors: %v", err)
	}
	if len(authors) != 1 {
		t.Fatalf("expected exactly one author, got %d", len(authors))
	}
	if !authors[0].DateLastActive.Equal(joined) {
		t.Fatalf("expected last active %s, got %s", joined, authors[0].DateLastActive)
	}
	if authors[0].DateTimeLastPost != nil {
		t.Fatal("expected no last post timestamp for a new author")
	}
	if authors[0].Phone != nil {
		t.Fatal("expected empty phone for a new author")
	}

	user.FirstName = "Jane"
	if err := gdb.Save(&user).Error; err != nil {
		t.Fatalf("update user: %v", err)
	}
	var count int64
	gdb.Model(&Author{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected updates not to create authors, got %d", count)
	}
}

func TestEnsureSuperuserIsIdempotent(t *testing.T) {
	gdb := setupDBTest(t)

	created, err := EnsureSuperuser(gdb, "root", "Root@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("ensure superuser: %v", err)
	}
	if !created {
		t.Fatal("expected superuser to be created")
	}

	created, err = EnsureSuperuser(gdb, "root", "root@example.com", "other-pass")
	if err != nil {
		t.Fatalf("ensure superuser again: %v", err)
	}
	if created {
		t.Fatal("expected second call to be a no-op")
	}

	var user User
	if err := gdb.Where("username = ?", "root").First(&user).Error; err != nil {
		t.Fatalf("load superuser: %v", err)
	}
	if !user.IsSuperuser || !user.IsActive {
		t.Fatalf("expected active superuser, got %+v", user)
	}
	if user.Email != "root@example.com" {
		t.Fatalf("expected lower-cased email, got %q", user.Email)
	}
	if !user.CheckPassword("s3cret-pass") {
		t.Fatal("expected original password to match")
	}
	if user.CheckPassword("other-pass") {
		t.Fatal("expected second password to be ignored")
	}
}

func TestEnsureSuperuserSkipsBlankCredentials(t *testing.T) {
	created, err := EnsureSuperuser(nil, " ", "", "")
	if err != nil || created {
		t.Fatalf("expected blank credentials to be ignored, got created=%v err=%v", created, err)
	}
}

func TestAuthorDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		author *Author
		want   string
	}{
		{name: "nil", author: nil, want: ""},
		{name: "full name", author: &Author{User: &User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}}, want: "Jane Doe"},
		{name: "first only", author: &Author{User: &User{Username: "jdoe", FirstName: "Jane"}}, want: "Jane"},
		{name: "username fallback", author: &Author{User: &User{Username: "jdoe"}}, want: "jdoe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.DisplayName(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
