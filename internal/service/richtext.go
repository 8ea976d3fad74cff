package service

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	// TextFormatHTML 表示富文本编辑器直接提交的 HTML。
	TextFormatHTML = "html"
	// TextFormatMarkdown 表示需要先转换为 HTML 的 Markdown 文本。
	TextFormatMarkdown = "markdown"

	maxVisibleTextLength = 2000
	commentPreviewLength = 75
	feedPreviewLength    = 250
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(mdhtml.WithHardWraps(), mdhtml.WithXHTML()),
	)
	richTextPolicy  = bluemonday.UGCPolicy()
	plainTextPolicy = bluemonday.StrictPolicy()
)

// PrepareRichText converts the submitted text into sanitized HTML ready for storage.
func PrepareRichText(text, format string) (string, error) {
	source := text
	if strings.EqualFold(strings.TrimSpace(format), TextFormatMarkdown) {
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
			return "", err
		}
		source = buf.String()
	}
	return strings.TrimSpace(richTextPolicy.Sanitize(source)), nil
}

// PlainText 去除所有标签并合并空白，用于预览与可见字数统计。
func PlainText(markup string) string {
	// 标签之间补空格，避免相邻段落的文字粘连
	spaced := strings.ReplaceAll(markup, "<", " <")
	stripped := html.UnescapeString(plainTextPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(stripped), " ")
}

// ShortText returns the first limit characters of the plain text, suffixed
// with "..." when something was cut.
func ShortText(markup string, limit int) string {
	plain := PlainText(markup)
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return string(runes[:limit]) + "..."
}
