package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestBuildSlug(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		title string
		want  string
	}{
		{name: "ascii", title: "Hello World", want: "hello-world-2024-01-01-10-00-00"},
		{name: "punctuation", title: "Go, Rust & C++!", want: "go-rust-c-2024-01-01-10-00-00"},
		{name: "cyrillic", title: "Привет мир", want: "privet-mir-2024-01-01-10-00-00"},
		{name: "extra spaces", title: "  many   spaces  ", want: "many-spaces-2024-01-01-10-00-00"},
		{name: "empty title", title: "", want: "2024-01-01-10-00-00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildSlug(tc.title, created, ""); got != tc.want {
				t.Fatalf("BuildSlug(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestBuildSlugUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 1, 1, 13, 0, 0, 0, loc)
	if got := BuildSlug("Hello", created, ""); got != "hello-2024-01-01-10-00-00" {
		t.Fatalf("expected UTC timestamp in slug, got %q", got)
	}
}

func TestBuildSlugTruncatesLongTitles(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	title := strings.Repeat("word ", 60)

	slug := BuildSlug(title, created, "")
	if n := utf8.RuneCountInString(slug); n > maxSlugLength {
		t.Fatalf("slug has %d characters, limit is %d", n, maxSlugLength)
	}
	if !strings.HasSuffix(slug, "-2024-01-01-10-00-00") {
		t.Fatalf("truncated slug lost its timestamp: %q", slug)
	}
	if strings.Contains(slug, "--") {
		t.Fatalf("truncated slug has a doubled separator: %q", slug)
	}
}

func TestToLatinReplacement(t *testing.T) {
	if got := ToLatin("a.b", ""); got != "ab" {
		t.Fatalf("expected dot dropped, got %q", got)
	}
	if got := ToLatin("a.b", "_"); got != "a_b" {
		t.Fatalf("expected dot replaced, got %q", got)
	}
	if got := ToLatin("Жук", ""); got != "Zhuk" {
		t.Fatalf("expected transliteration, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify(" -Hello__World- "); got != "hello__world" {
		t.Fatalf("unexpected slug: %q", got)
	}
	if got := Slugify("ﬁne"); got != "fine" {
		t.Fatalf("expected NFKC folding, got %q", got)
	}
}
