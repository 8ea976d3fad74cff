package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了基础账号模型
type User struct {
	ID          uint      `gorm:"primaryKey"`
	Username    string    `gorm:"size:150;uniqueIndex;not null"`
	Email       string    `gorm:"size:254;uniqueIndex;not null"`
	FirstName   string    `gorm:"size:150"`
	LastName    string    `gorm:"size:150"`
	Password    string    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null"`
	IsSuperuser bool      `gorm:"not null"`
	DateJoined  time.Time `gorm:"not null"`
}

// AfterCreate 在用户首次写入时于同一事务内创建对应的 Author 记录，保证一对一。
func (u *User) AfterCreate(tx *gorm.DB) error {
	now := u.DateJoined
	if now.IsZero() {
		now = time.Now().UTC()
	}
	author := Author{UserID: u.ID, DateLastActive: now}
	return tx.Create(&author).Error
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// EnsureSuperuser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个超级管理员。
func EnsureSuperuser(gdb *gorm.DB, username, email, password string) (bool, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return false, nil
	}

	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	err := gdb.Where("username = ?", trimmedUser).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	mail := strings.ToLower(strings.TrimSpace(email))
	if mail == "" {
		mail = trimmedUser + "@localhost"
	}

	user := User{
		Username:    trimmedUser,
		Email:       mail,
		IsActive:    true,
		IsSuperuser: true,
		DateJoined:  time.Now().UTC(),
	}
	if err := user.SetPassword(trimmedPassword); err != nil {
		return false, err
	}

	if err := gdb.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
