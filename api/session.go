package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gavel/adapters/session"
	"gavel/models"
	"gavel/stores"
)

const (
	SESSION_KEY_USER_ID       = "user_id"
	SESSION_KEY_FLASH_KIND    = "flash_kind"
	SESSION_KEY_FLASH_MESSAGE = "flash_message"

	contextKeyCurrentUser = "gavel-current-user"
)

func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	config := impl.config.Session
	opts := []session.MiddlewareOption{
		session.WithCookieMaxAge(config.MaxAge()),
		session.WithCookieSecure(config.CookieSecure),
		session.WithCookieHTTPOnly(config.CookieHTTPOnly),
		session.WithCookieSameSite(config.SameSite),
	}
	if config.KeyForCookie != "" {
		opts = append(opts, session.WithSessionKeyForCookie(config.KeyForCookie))
	}
	if config.CookiePath != "" {
		opts = append(opts, session.WithCookiePath(config.CookiePath))
	}
	if config.CookieDomain != "" {
		opts = append(opts, session.WithCookieDomain(config.CookieDomain))
	}
	return session.GinMiddleware(impl.sessionStore, opts...)
}

// RequireLogin 從 session 解析目前的使用者，未登入時導向登入頁
func (impl *ServerImpl) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "RequireLogin"
		sess, err := session.GetSession(c)
		if err != nil {
			impl.fail(c, op, err)
			return
		}
		user, err := impl.resolveIdentity(c, sess)
		if err != nil {
			impl.fail(c, op, err)
			return
		}
		if user == nil {
			sess.Delete(SESSION_KEY_USER_ID)
			setFlash(sess, flashError, "Please log in to access this page.")
			if err := sess.Save(); err != nil {
				impl.fail(c, op, err)
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(contextKeyCurrentUser, user)
		c.Next()
	}
}

// resolveIdentity 將 session 中的使用者 ID 轉換為使用者
// session 沒有綁定或綁定的使用者已不存在時回傳 nil
func (impl *ServerImpl) resolveIdentity(c *gin.Context, sess session.ISession) (*models.User, error) {
	raw := sess.Get(SESSION_KEY_USER_ID)
	if raw == "" {
		return nil, nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		impl.logger.Warn("Invalid user id in session", slog.String("value", raw))
		return nil, nil
	}
	user, err := impl.identities.LoadByID(c.Request.Context(), userID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fail to load session user, err=%w", err)
	}
	return user, nil
}

// CurrentUser 取得 RequireLogin 放入 context 的使用者
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextKeyCurrentUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
