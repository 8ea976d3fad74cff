package handler

import (
	"net/http"
	"strings"

	"github.com/blogblog/internal/locale"
	"github.com/gin-gonic/gin"
)

const (
	localeContextKey     = "__request_locale"
	languageCookieName   = "blogblog_lang"
	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// Locale resolves the response language once per request. An explicit
// ?lang= is remembered in a cookie for later requests.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := requestLocale(c)
		if locale.NormalizeLanguage(c.Query("lang")) != "" {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     languageCookieName,
				Value:    pref.Language,
				Path:     "/",
				HttpOnly: true,
				Secure:   c.Request.TLS != nil,
				MaxAge:   languageCookieMaxAge,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Header("Content-Language", pref.Tag)
		appendVaryHeader(c, "Accept-Language", "Cookie")
		c.Next()
	}
}

func requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	cookie, _ := c.Cookie(languageCookieName)
	pref := locale.Resolve(c.Query("lang"), cookie, c.GetHeader("Accept-Language"))
	c.Set(localeContextKey, pref)
	return pref
}

func requestLanguage(c *gin.Context) string {
	return requestLocale(c).Language
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	existing := strings.Split(c.Writer.Header().Get("Vary"), ",")
	for _, token := range append(existing, headers...) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
