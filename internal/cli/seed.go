package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogblog/internal/db"
	"github.com/blogblog/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type seedAuthor struct {
	username  string
	firstName string
	lastName  string
}

type seedContent struct {
	author    int
	title     string
	text      string
	published bool
	comments  []seedComment
}

type seedComment struct {
	author int
	text   string
}

const seedPassword = "demo-password"

var (
	seedAuthors = []seedAuthor{
		{username: "demo-writer", firstName: "Demo", lastName: "Writer"},
		{username: "demo-reader", firstName: "Demo", lastName: "Reader"},
	}

	seedContents = []seedContent{
		{
			author:    0,
			title:     "使用Go语言构建Web服务",
			text:      "Go 语言因其出色的并发性能和简洁的语法，成为构建 Web 服务的理想选择。\n\n本文记录了 **框架选择** 与 *性能优化* 的一些经验。",
			published: true,
			comments: []seedComment{
				{author: 1, text: "写得很清楚，期待后续。"},
				{author: 0, text: "谢谢，下一篇会聊中间件。"},
			},
		},
		{
			author:    0,
			title:     "SQLite数据库优化实践",
			text:      "SQLite 作为轻量级数据库，在很多场景下都有出色表现。\n\n- 合理建立索引\n- 批量写入放进事务\n- 控制连接数量",
			published: true,
			comments: []seedComment{
				{author: 1, text: "WAL 模式也值得一提。"},
			},
		},
		{
			author:    0,
			title:     "Gin框架中间件开发实战",
			text:      "草稿：记录请求 ID、访问日志与异常恢复三个中间件的写法。",
			published: false,
		},
		{
			author:    1,
			title:     "Reading notes",
			text:      "A short list of things worth reading this week.",
			published: true,
		},
	}
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo authors, content and comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(gdb)

			created, err := seed(cmd.Context(), gdb)
			if err != nil {
				return err
			}
			if created == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "content already exists, skipping seed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d content items (password for demo accounts: %s)\n", created, seedPassword)
			return nil
		},
	}
}

// seed 通过业务服务写入示例数据，保证 slug、活动时间等规则与线上一致。
func seed(ctx context.Context, gdb *gorm.DB) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var existing int64
	if err := gdb.WithContext(ctx).Model(&db.Content{}).Count(&existing).Error; err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	activity := service.NewActivityService(gdb)
	accounts := service.NewAccountService(gdb, activity, "")
	contents := service.NewContentService(gdb, activity, service.ContentOptions{SlugDisambiguate: true})
	comments := service.NewCommentService(gdb, activity)

	actors := make([]service.Actor, 0, len(seedAuthors))
	for _, a := range seedAuthors {
		author, err := accounts.CreateUser(ctx, service.AdminUserForm{
			Username:  a.username,
			Email:     a.username + "@example.com",
			FirstName: a.firstName,
			LastName:  a.lastName,
			Password1: seedPassword,
			Password2: seedPassword,
		})
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			author, err = loadAuthorByUsername(ctx, gdb, a.username)
		}
		if err != nil {
			return 0, fmt.Errorf("seed author %s: %w", a.username, err)
		}
		actors = append(actors, service.ActorFor(author))
	}

	for _, item := range seedContents {
		published := item.published
		content, err := contents.Create(ctx, actors[item.author], service.ContentForm{
			Title:       item.title,
			Text:        item.text,
			Format:      service.TextFormatMarkdown,
			IsPublished: &published,
		})
		if err != nil {
			return 0, fmt.Errorf("seed content %q: %w", item.title, err)
		}
		for _, comment := range item.comments {
			if _, err := comments.Create(ctx, actors[comment.author], content.Slug, service.CommentForm{Text: comment.text}); err != nil {
				return 0, fmt.Errorf("seed comment on %q: %w", item.title, err)
			}
		}
	}

	return len(seedContents), nil
}

func loadAuthorByUsername(ctx context.Context, gdb *gorm.DB, username string) (*db.Author, error) {
	var author db.Author
	err := gdb.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = authors.user_id").
		Where("users.username = ?", username).
		First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}
