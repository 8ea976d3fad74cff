package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blogblog/internal/db"
)

func seedFeed(t *testing.T, svcs *testServices, actor Actor, published, hidden int) []*db.Content {
	t.Helper()
	ctx := context.Background()
	var created []*db.Content
	for i := 0; i < published+hidden; i++ {
		svcs.clock.Advance(time.Minute)
		form := ContentForm{Title: fmt.Sprintf("Post %02d", i), Text: "<p>body</p>"}
		if i >= published {
			form.IsPublished = boolPtr(false)
		}
		content, err := svcs.contents.Create(ctx, actor, form)
		if err != nil {
			t.Fatalf("seed content %d: %v", i, err)
		}
		created = append(created, content)
	}
	return created
}

func TestFeedService_PublicPagination(t *testing.T) {
	svcs := newTestServices(t, ContentOptions{})
	ctx := context.Background()
	actor := ActorFor(createTestAuthor(t, svcs.db, "feeder", false))
	seedFeed(t, svcs, actor, 25, 5)

	first, err := svcs.feed.List(ctx, FeedQuery{Kind: FeedPublic, Page: 1})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if first.Total != 25 || first.TotalPages != 2 || len(first.Items) != 20 {
		t.Fatalf("unexpected first page: total=%d pages=%d items=%d", first.Total, first.TotalPages, len(first.Items))
	}
	if first.HasPrev || !first.HasNext {
		t.Fatalf("unexpected navigation flags on first page")
	}
	if first.Items[0].Content.Title != "Post 24" {
		t.Fatalf("expected newest first, got %q", first.Items[0].Content.Title)
	}

	second, err := svcs.feed.List(ctx, FeedQuery{Kind: FeedPublic, Page: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Items) != 5 || !second.HasPrev || second.HasNext {
		t.Fatalf("unexpected second page: items=%d", len(second.Items))
	}
	for _, item := range append(first.Items, second.Items...) {
		if !item.Content.IsPublished {
			t.Fatalf("public feed leaked unpublished content %q", item.Content.Slug)
		}
	}
}

func TestFeedService_OwnFeedIncludesDrafts(t *testing.T) {
	svcs := newTestServices(t, ContentOptions{})
	ctx := context.Background()
	actor := ActorFor(createTestAuthor(t, svcs.db, "feeder", false))
	other := ActorFor(createTestAuthor(t, svcs.db, "neighbour", false))
	seedFeed(t, svcs, actor, 25, 5)
	seedFeed(t, svcs, other, 2, 0)

	page, err := svcs.feed.List(ctx, FeedQuery{Kind: FeedOwn, AuthorID: actor.AuthorID})
	if err != nil {
		t.Fatalf("list own feed: %v", err)
	}
	if page.Total != 30 || page.Page != 1 {
		t.Fatalf("expected 30 own items on page 1, got total=%d page=%d", page.Total, page.Page)
	}

	if _, err := svcs.feed.List(ctx, FeedQuery{Kind: FeedOwn}); !errors.Is(err, ErrFeedAuthorRequired) {
		t.Fatalf("expected author required error, got %v", err)
	}
}

func TestFeedService_ItemsCarryCountsAndPreview(t *testing.T) {
	svcs := newTestServices(t, ContentOptions{})
	ctx := context.Background()
	actor := ActorFor(createTestAuthor(t, svcs.db, "writer", false))

	long := "<p>" + strings.Repeat("w", 300) + "</p>"
	content, err := svcs.contents.Create(ctx, actor, ContentForm{Title: "Long", Text: long})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svcs.comments.Create(ctx, actor, content.Slug, CommentForm{Text: "one"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	page, err := svcs.feed.List(ctx, FeedQuery{Kind: FeedPublic})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(page.Items))
	}
	item := page.Items[0]
	if item.CommentCount != 1 {
		t.Fatalf("expected one comment, got %d", item.CommentCount)
	}
	if item.ShortText != strings.Repeat("w", 250)+"..." {
		t.Fatalf("unexpected preview length %d", len(item.ShortText))
	}
	if item.AuthorName != "writer" {
		t.Fatalf("unexpected author name %q", item.AuthorName)
	}
}

func TestFeedService_EmptyFeed(t *testing.T) {
	svcs := newTestServices(t, ContentOptions{})

	page, err := svcs.feed.List(context.Background(), FeedQuery{Kind: FeedPublic, Page: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 0 || page.TotalPages != 1 || page.Page != 1 || page.HasNext {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func TestFeedService_Adjacent(t *testing.T) {
	svcs := newTestServices(t, ContentOptions{})
	ctx := context.Background()
	actor := ActorFor(createTestAuthor(t, svcs.db, "neighbor", false))

	// 0 published, 1 hidden, 2 published
	items := []*db.Content{}
	for i, published := range []bool{true, false, true} {
		svcs.clock.Advance(time.Minute)
		content, err := svcs.contents.Create(ctx, actor, ContentForm{
			Title:       fmt.Sprintf("Item %d", i),
			Text:        "x",
			IsPublished: boolPtr(published),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		items = append(items, content)
	}

	public, err := svcs.feed.Adjacent(ctx, FeedQuery{Kind: FeedPublic}, items[2])
	if err != nil {
		t.Fatalf("adjacent public: %v", err)
	}
	if public.Previous == nil || public.Previous.ID != items[0].ID {
		t.Fatalf("public previous should skip hidden content, got %+v", public.Previous)
	}
	if public.Next != nil {
		t.Fatalf("newest item has no next, got %+v", public.Next)
	}

	own, err := svcs.feed.Adjacent(ctx, FeedQuery{Kind: FeedOwn, AuthorID: actor.AuthorID}, items[2])
	if err != nil {
		t.Fatalf("adjacent own: %v", err)
	}
	if own.Previous == nil || own.Previous.ID != items[1].ID {
		t.Fatalf("own previous should include hidden content, got %+v", own.Previous)
	}

	first, err := svcs.feed.Adjacent(ctx, FeedQuery{Kind: FeedPublic}, items[0])
	if err != nil {
		t.Fatalf("adjacent first: %v", err)
	}
	if first.Previous != nil || first.Next == nil || first.Next.ID != items[2].ID {
		t.Fatalf("unexpected neighbors for oldest item: %+v", first)
	}
}

func TestParseFeedKind(t *testing.T) {
	if ParseFeedKind("OWN") != FeedOwn {
		t.Fatalf("expected own feed")
	}
	if ParseFeedKind("") != FeedPublic || ParseFeedKind("bogus") != FeedPublic {
		t.Fatalf("expected public default")
	}
}
