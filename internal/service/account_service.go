package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogblog/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("please enter a correct email and password")
	ErrAccountInactive    = errors.New("this account is inactive")
	ErrPasswordMismatch   = errors.New("your old password was entered incorrectly")
	ErrAccountNotFound    = errors.New("account not found")
)

// 注册时先写入占位用户名，拿到自增 ID 后再替换。
const pendingUsernamePrefix = "pending-"

// AccountService 负责注册、登录、资料与密码维护。
type AccountService struct {
	db          *gorm.DB
	activity    *ActivityService
	replacement string
	now         func() time.Time
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB, activity *ActivityService, replacement string) *AccountService {
	return &AccountService{db: gdb, activity: activity, replacement: replacement, now: utcNow}
}

// Register creates an active account and its author profile. The username is
// derived from the names and the new row id, so it is assigned after insert.
func (s *AccountService) Register(ctx context.Context, form SignUpForm) (*db.Author, error) {
	form.normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var author db.Author
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, form.Email, 0); err != nil {
			return err
		}

		user := db.User{
			Username:   pendingUsernamePrefix + uuid.NewString(),
			Email:      form.Email,
			FirstName:  form.FirstName,
			LastName:   form.LastName,
			IsActive:   true,
			DateJoined: s.now(),
		}
		if err := user.SetPassword(form.Password1); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return translateUserError(err)
		}

		username := GenerateUsername(form.FirstName, form.LastName, user.ID, s.replacement)
		if err := tx.Model(&db.User{}).Where("id = ?", user.ID).Update("username", username).Error; err != nil {
			return translateUserError(err)
		}

		return tx.Preload("User").Where("user_id = ?", user.ID).First(&author).Error
	})
	if err != nil {
		return nil, err
	}

	return &author, nil
}

// GenerateUsername 生成 <first>-<last>-<id+100001> 形式的小写用户名。
func GenerateUsername(firstName, lastName string, userID uint, replacement string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%d",
		ToLatin(strings.TrimSpace(firstName), replacement),
		ToLatin(strings.TrimSpace(lastName), replacement),
		uint64(userID)+usernameIDShift,
	))
}

// Login authenticates by email and password and records login activity.
func (s *AccountService) Login(ctx context.Context, email, password string) (*db.Author, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	author, err := s.Current(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.activity.Record(s.db.WithContext(ctx), author.ID, ActivityLogin)
	return author, nil
}

// Logout records the logout activity; clearing the session is the caller's job.
func (s *AccountService) Logout(ctx context.Context, userID uint) {
	s.activity.RecordUser(ctx, userID, ActivityLogout)
}

// Current 根据会话中的用户 ID 加载作者及其账号；账号停用视为未登录。
func (s *AccountService) Current(ctx context.Context, userID uint) (*db.Author, error) {
	if userID == 0 {
		return nil, ErrAccountNotFound
	}

	var author db.Author
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if author.User == nil || !author.User.IsActive {
		return nil, ErrAccountNotFound
	}
	return &author, nil
}

// ChangePassword verifies the old password before storing the new one.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, form PasswordChangeForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if !user.CheckPassword(form.OldPassword) {
			return ErrPasswordMismatch
		}
		if err := user.SetPassword(form.NewPassword1); err != nil {
			return err
		}
		return tx.Model(&db.User{}).Where("id = ?", user.ID).Update("password", user.Password).Error
	})
}

// UpdateProfile edits the caller's own names, email and phone.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, form ProfileForm) (*db.Author, error) {
	return s.updateProfile(ctx, userID, form, nil)
}

func (s *AccountService) updateProfile(ctx context.Context, userID uint, form ProfileForm, isActive *bool) (*db.Author, error) {
	form.normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var author db.Author
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if err := ensureEmailFree(tx, form.Email, userID); err != nil {
			return err
		}

		userUpdates := map[string]interface{}{
			"first_name": form.FirstName,
			"last_name":  form.LastName,
			"email":      form.Email,
		}
		if isActive != nil {
			userUpdates["is_active"] = *isActive
		}
		if err := tx.Model(&db.User{}).Where("id = ?", userID).Updates(userUpdates).Error; err != nil {
			return translateUserError(err)
		}

		var phone interface{}
		if form.Phone != "" {
			phone = form.Phone
		}
		if err := tx.Model(&db.Author{}).Where("id = ?", author.ID).Update("phone", phone).Error; err != nil {
			return err
		}

		return tx.Preload("User").First(&author, author.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// CreateUser 由管理后台直接创建账号，用户名由管理员指定。
func (s *AccountService) CreateUser(ctx context.Context, form AdminUserForm) (*db.Author, error) {
	form.normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var author db.Author
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, form.Email, 0); err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&db.User{}).Where("username = ?", form.Username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUsernameTaken
		}

		user := db.User{
			Username:   form.Username,
			Email:      form.Email,
			FirstName:  form.FirstName,
			LastName:   form.LastName,
			IsActive:   true,
			DateJoined: s.now(),
		}
		if err := user.SetPassword(form.Password1); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return translateUserError(err)
		}

		if form.Phone != "" {
			if err := tx.Model(&db.Author{}).Where("user_id = ?", user.ID).Update("phone", form.Phone).Error; err != nil {
				return err
			}
		}

		return tx.Preload("User").Where("user_id = ?", user.ID).First(&author).Error
	})
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func ensureEmailFree(tx *gorm.DB, email string, exceptUserID uint) error {
	var count int64
	query := tx.Model(&db.User{}).Where("email = ?", email)
	if exceptUserID != 0 {
		query = query.Where("id <> ?", exceptUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// translateUserError 把唯一索引冲突翻译成业务错误。用户名冲突已在写入前检查，
// 剩下的并发冲突只可能来自邮箱。
func translateUserError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}
