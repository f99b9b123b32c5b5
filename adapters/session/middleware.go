package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultSessionKeyForContext = "gavel-default-session-context"
	DefaultSessionKeyForCookie  = "session"
	DefaultCookieMaxAge         = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// MiddlewareOption 調整 session cookie 的屬性
type MiddlewareOption func(*http.Cookie)

// WithSessionKeyForCookie 設定 session 在 cookie 中的 key
func WithSessionKeyForCookie(key string) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.Name = key
	}
}

// WithCookieMaxAge 設定 cookie 的存活時間，不足一秒時以一秒計
func WithCookieMaxAge(maxAge time.Duration) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.MaxAge = max(int(maxAge/time.Second), 1)
	}
}

func WithCookiePath(path string) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.Path = path
	}
}

func WithCookieDomain(domain string) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.Domain = domain
	}
}

// WithCookieSecure 設定是否只在 HTTPS 連線中傳送 cookie
func WithCookieSecure(secure bool) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.Secure = secure
	}
}

// WithCookieHTTPOnly 設定是否禁止 JavaScript 讀取 cookie
func WithCookieHTTPOnly(httpOnly bool) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.HttpOnly = httpOnly
	}
}

// WithCookieSameSite 設定 cookie 的 SameSite 屬性，可為 strict、lax 或 none
func WithCookieSameSite(sameSite string) MiddlewareOption {
	return func(cookie *http.Cookie) {
		cookie.SameSite = parseSameSite(sameSite)
	}
}

// GinMiddleware 依 cookie 找出 session 並放入 gin context
// 沒有 cookie 的請求會得到新的 session id
func GinMiddleware(store IStore, opts ...MiddlewareOption) gin.HandlerFunc {
	template := http.Cookie{
		Name:     DefaultSessionKeyForCookie,
		MaxAge:   int(DefaultCookieMaxAge / time.Second),
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
	}
	for _, opt := range opts {
		opt(&template)
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(template.Name)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set(DefaultSessionKeyForContext, NewSession(c.Request.Context(), sessionID, store))

		// redirect 寫出 header 之後就不能再加 cookie，所以在 handler 之前設定
		cookie := template
		cookie.Value = sessionID
		http.SetCookie(c.Writer, &cookie)

		c.Next()
	}
}

// GetSession 從 context 中取得 session 並載入資料
func GetSession(ctx context.Context) (ISession, error) {
	const op = "session.GetSession"
	v := ctx.Value(DefaultSessionKeyForContext)
	if v == nil {
		return nil, ErrSessionNotFound
	}
	session, ok := v.(ISession)
	if !ok {
		return nil, fmt.Errorf("%s: invalid session type in context", op)
	}
	if err := session.Load(); err != nil {
		return nil, fmt.Errorf("%s: failed to load session: %w", op, err)
	}
	return session, nil
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
