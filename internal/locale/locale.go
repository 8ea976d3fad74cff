package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// Preference 描述一次请求最终使用的语言。
type Preference struct {
	Language string
	Tag      string
}

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage walks the header in order and returns the first
// supported language. q-values are ignored; browsers already sort by them.
func LanguageFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if language := NormalizeLanguage(tag); language != "" {
			return language
		}
	}
	return ""
}

func PreferenceForLanguage(language string) Preference {
	if NormalizeLanguage(language) == LanguageEnglish {
		return Preference{Language: LanguageEnglish, Tag: "en-US"}
	}
	return Preference{Language: LanguageChinese, Tag: "zh-CN"}
}

// Resolve 按 显式参数 > cookie > Accept-Language 的顺序决定语言，默认中文。
func Resolve(override, cookie, acceptLanguage string) Preference {
	for _, candidate := range []string{override, cookie, LanguageFromAcceptLanguage(acceptLanguage)} {
		if language := NormalizeLanguage(candidate); language != "" {
			return PreferenceForLanguage(language)
		}
	}
	return PreferenceForLanguage(LanguageChinese)
}
