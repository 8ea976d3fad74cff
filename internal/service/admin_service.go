package service

import (
	"context"
	"errors"

	"github.com/blogblog/internal/db"
	"gorm.io/gorm"
)

// AdminAuthorForm 后台可编辑的作者字段，slug 之类的派生字段不在其中。
type AdminAuthorForm struct {
	ProfileForm
	IsActive *bool `json:"is_active"`
}

// AdminContentForm 后台可编辑的文章字段：标题、正文与发布状态。
type AdminContentForm struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Format      string `json:"format"`
	IsPublished *bool  `json:"is_published"`
}

// ListResult is a generic page of admin rows.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

func newListResult[T any](items []T, total int64, page, perPage int) *ListResult[T] {
	page, perPage = normalizePage(page, perPage)
	result := &ListResult[T]{Items: items, Total: total, Page: page, PerPage: perPage}
	if total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return result
}

// AdminService backs the superuser console. It reuses the domain services so
// admin edits go through the same validation and activity hooks.
type AdminService struct {
	db       *gorm.DB
	accounts *AccountService
	contents *ContentService
	comments *CommentService
}

// NewAdminService creates an AdminService instance.
func NewAdminService(gdb *gorm.DB, accounts *AccountService, contents *ContentService, comments *CommentService) *AdminService {
	return &AdminService{db: gdb, accounts: accounts, contents: contents, comments: comments}
}

// ListAuthors returns authors with their accounts, newest accounts first.
func (s *AdminService) ListAuthors(ctx context.Context, page, perPage int) (*ListResult[db.Author], error) {
	page, perPage = normalizePage(page, perPage)

	var total int64
	if err := s.db.WithContext(ctx).Model(&db.Author{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var authors []db.Author
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return newListResult(authors, total, page, perPage), nil
}

// GetAuthor loads one author by id.
func (s *AdminService) GetAuthor(ctx context.Context, authorID uint) (*db.Author, error) {
	var author db.Author
	if err := s.db.WithContext(ctx).Preload("User").First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// CreateUser creates an account with an explicit username.
func (s *AdminService) CreateUser(ctx context.Context, form AdminUserForm) (*db.Author, error) {
	return s.accounts.CreateUser(ctx, form)
}

// UpdateAuthor edits names, email, phone and the active flag.
func (s *AdminService) UpdateAuthor(ctx context.Context, authorID uint, form AdminAuthorForm) (*db.Author, error) {
	author, err := s.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.accounts.updateProfile(ctx, author.UserID, form.ProfileForm, form.IsActive)
}

// DeleteAuthor 删除作者及其账号：文章随之删除，评论保留但解除关联。
func (s *AdminService) DeleteAuthor(ctx context.Context, authorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author db.Author
		if err := tx.First(&author, authorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuthorNotFound
			}
			return err
		}

		var contentIDs []uint
		if err := tx.Model(&db.Content{}).Where("author_id = ?", author.ID).Pluck("id", &contentIDs).Error; err != nil {
			return err
		}
		if len(contentIDs) > 0 {
			if err := tx.Model(&db.Comment{}).
				Where("content_id IN ?", contentIDs).
				Update("content_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&db.Comment{}).
			Where("author_id = ?", author.ID).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", author.ID).Delete(&db.Content{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&db.Author{}, author.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&db.User{}, author.UserID).Error
	})
}

// ListContents returns every content item, published or not.
func (s *AdminService) ListContents(ctx context.Context, page, perPage int) (*ListResult[db.Content], error) {
	page, perPage = normalizePage(page, perPage)

	var total int64
	if err := s.db.WithContext(ctx).Model(&db.Content{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var contents []db.Content
	err := s.db.WithContext(ctx).
		Preload("Author.User").
		Order("date_time_create DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return newListResult(contents, total, page, perPage), nil
}

// UpdateContent edits title, text and is_published; the slug never changes.
func (s *AdminService) UpdateContent(ctx context.Context, id uint, form AdminContentForm) (*db.Content, error) {
	return s.contents.UpdateByID(ctx, id, ContentForm(form))
}

// DeleteContent removes a content item and detaches its comments.
func (s *AdminService) DeleteContent(ctx context.Context, id uint) error {
	return s.contents.Delete(ctx, id)
}

// ListComments returns every comment, newest first.
func (s *AdminService) ListComments(ctx context.Context, page, perPage int) (*ListResult[db.Comment], error) {
	page, perPage = normalizePage(page, perPage)
	comments, total, err := s.comments.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return newListResult(comments, total, page, perPage), nil
}

// UpdateComment edits the text of a comment.
func (s *AdminService) UpdateComment(ctx context.Context, id uint, form CommentForm) (*db.Comment, error) {
	return s.comments.UpdateText(ctx, id, form)
}

// DeleteComment removes any comment.
func (s *AdminService) DeleteComment(ctx context.Context, id uint) error {
	return s.comments.DeleteAny(ctx, id)
}
