package service

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength   = 180
	slugTimeLayout  = "2006-01-02-15-04-05"
	usernameIDShift = 100001
)

var slugSeparatorPattern = regexp.MustCompile(`[-\s\p{Zs}]+`)

// Slugify 按 unicode 规则生成 slug：保留字母、数字、下划线与连字符，空白折叠为单个连字符。
func Slugify(value string) string {
	value = norm.NFKC.String(value)

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	slug := slugSeparatorPattern.ReplaceAllString(strings.TrimSpace(b.String()), "-")
	return strings.Trim(slug, "-_")
}

// ToLatin transliterates value to ASCII and replaces every character that is
// not an ASCII letter, digit, hyphen or underscore with replacement.
func ToLatin(value, replacement string) string {
	transliterated := unidecode.Unidecode(value)

	var b strings.Builder
	b.Grow(len(transliterated))
	for _, r := range transliterated {
		if isSlugRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(replacement)
	}
	return b.String()
}

// BuildSlug derives the permanent slug of a content item from its title and
// creation time: <slugified-title>-<YYYY-MM-DD-HH-MM-SS>.
func BuildSlug(title string, created time.Time, replacement string) string {
	stamp := created.UTC().Format(slugTimeLayout)
	slug := strings.ToLower(ToLatin(Slugify(title+"-"+stamp), replacement))

	if utf8.RuneCountInString(slug) <= maxSlugLength {
		return slug
	}

	head := strings.TrimSuffix(slug, stamp)
	return truncateSlug(head, maxSlugLength-len(stamp)-1) + "-" + stamp
}

func truncateSlug(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimRight(string(runes), "-_")
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
