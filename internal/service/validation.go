package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	nonDigitRegexp  = regexp.MustCompile(`\D`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// normalizeEmail 是各表单共用的邮箱规范化规则：去除首尾空白并转为小写。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameRules(field string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(field + " is required"),
		validation.RuneLength(1, 150).Error(field + " must be 150 characters or fewer"),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("email is required"),
		validation.RuneLength(3, 254),
		is.EmailFormat.Error("enter a valid email address"),
	}
}

func phoneRules() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(0, 25),
		validation.Match(phonePattern).Error("enter a valid phone number"),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("password is required"),
		validation.RuneLength(8, 128).Error("password must contain at least 8 characters"),
		validation.Match(nonDigitRegexp).Error("password can't be entirely numeric"),
	}
}

func sameAs(other string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return errors.New("the two password fields didn't match")
		}
		return nil
	})
}

// ContentForm holds the user-editable fields of a content item.
type ContentForm struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Format      string `json:"format"`
	IsPublished *bool  `json:"is_published"`
}

func (f *ContentForm) normalize() error {
	f.Title = strings.TrimSpace(f.Title)
	text, err := PrepareRichText(f.Text, f.Format)
	if err != nil {
		return err
	}
	f.Text = text
	f.Format = TextFormatHTML
	return nil
}

// Validate checks the title length and the visible length of the sanitized text.
func (f ContentForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, 120).Error("title must be 120 characters or fewer"),
		),
		validation.Field(&f.Text,
			validation.Required.Error("text is required"),
			validation.By(func(value interface{}) error {
				s, _ := value.(string)
				plain := PlainText(s)
				if plain == "" {
					return errors.New("text is required")
				}
				if utf8.RuneCountInString(plain) > maxVisibleTextLength {
					return errors.New("text must be 2000 characters or fewer")
				}
				return nil
			}),
		),
	)
}

// CommentForm 评论表单，纯文本，最多 500 字。
type CommentForm struct {
	Text string `json:"text"`
}

func (f CommentForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Text,
			validation.Required.Error("text is required"),
			validation.RuneLength(1, 500).Error("comment must be 500 characters or fewer"),
		),
	)
}

// SignUpForm 注册表单。
type SignUpForm struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password1    string `json:"password1"`
	Password2    string `json:"password2"`
	AgreeToTerms bool   `json:"agree_to_terms"`
}

func (f *SignUpForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = normalizeEmail(f.Email)
}

func (f SignUpForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, nameRules("first name")...),
		validation.Field(&f.LastName, nameRules("last name")...),
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Password1, passwordRules()...),
		validation.Field(&f.Password2, validation.Required.Error("password confirmation is required"), sameAs(f.Password1)),
		validation.Field(&f.AgreeToTerms, validation.Required.Error("you must agree to the processing of personal data")),
	)
}

// ProfileForm is the self-service profile editor.
type ProfileForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (f *ProfileForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = normalizeEmail(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
}

func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, nameRules("first name")...),
		validation.Field(&f.LastName, nameRules("last name")...),
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Phone, phoneRules()...),
	)
}

// PasswordChangeForm 修改密码表单。
type PasswordChangeForm struct {
	OldPassword  string `json:"old_password"`
	NewPassword1 string `json:"new_password1"`
	NewPassword2 string `json:"new_password2"`
}

func (f PasswordChangeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.OldPassword, validation.Required.Error("old password is required")),
		validation.Field(&f.NewPassword1, passwordRules()...),
		validation.Field(&f.NewPassword2, validation.Required.Error("password confirmation is required"), sameAs(f.NewPassword1)),
	)
}

// AdminUserForm is used by the admin console to create accounts directly.
type AdminUserForm struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func (f *AdminUserForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = normalizeEmail(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Phone = strings.TrimSpace(f.Phone)
}

func (f AdminUserForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(1, 150),
			validation.Match(usernamePattern).Error("username may contain only letters, digits and @/./+/-/_"),
		),
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.FirstName, nameRules("first name")...),
		validation.Field(&f.LastName, nameRules("last name")...),
		validation.Field(&f.Phone, phoneRules()...),
		validation.Field(&f.Password1, passwordRules()...),
		validation.Field(&f.Password2, validation.Required.Error("password confirmation is required"), sameAs(f.Password1)),
	)
}

// ValidationErrors extracts per-field messages from a validation failure.
func ValidationErrors(err error) (map[string]string, bool) {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, false
	}
	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}
	return fields, true
}
