package db

import (
	"strings"
	"time"
)

// Author 是博客层面的用户档案，与 User 一一对应。
type Author struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"uniqueIndex;not null"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE"`
	Phone            *string   `gorm:"size:25"`
	DateLastActive   time.Time `gorm:"not null"`
	DateTimeLastPost *time.Time
}

// DisplayName returns "first last" when either part is set, otherwise the username.
func (a *Author) DisplayName() string {
	if a == nil || a.User == nil {
		return ""
	}
	if a.User.FirstName != "" || a.User.LastName != "" {
		return strings.TrimSpace(a.User.FirstName + " " + a.User.LastName)
	}
	return a.User.Username
}

// IsSuperuser reports whether the linked account bypasses ownership and cooldown rules.
func (a *Author) IsSuperuser() bool {
	return a != nil && a.User != nil && a.User.IsSuperuser
}
