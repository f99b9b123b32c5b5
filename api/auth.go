package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gavel/adapters/session"
	"gavel/stores"
)

// Show the registration form
// (GET /register)
func (impl *ServerImpl) GetRegister(c *gin.Context) {
	impl.render(c, "GetRegister", http.StatusOK, "register.tmpl", gin.H{"Title": "Register"})
}

// Register a new user
// (POST /register)
func (impl *ServerImpl) PostRegister(c *gin.Context) {
	const op = "PostRegister"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	user, err := impl.identities.Register(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
	)
	switch {
	case errors.Is(err, stores.ErrUsernameTaken):
		impl.redirectWithFlash(c, op, sess, flashError, "Username already exists.", "/register")
	case errors.Is(err, stores.ErrEmailTaken):
		impl.redirectWithFlash(c, op, sess, flashError, "Email is already registered.", "/register")
	case errors.Is(err, stores.ErrConflict):
		// 同時註冊時只能從唯一索引得知衝突，無法分辨是哪個欄位
		impl.redirectWithFlash(c, op, sess, flashError, "Username or email already exists.", "/register")
	case errors.Is(err, stores.ErrPasswordTooLong):
		impl.redirectWithFlash(c, op, sess, flashError, "Password must be at most 72 bytes.", "/register")
	case errors.Is(err, stores.ErrValidation):
		impl.redirectWithFlash(c, op, sess, flashError, "Username, email and password are required.", "/register")
	case err != nil:
		impl.fail(c, op, err)
	default:
		impl.logger.Info("User registered", slog.String("userID", user.ID.String()))
		impl.redirectWithFlash(c, op, sess, flashSuccess, "Registration successful. Please log in.", "/login")
	}
}

// Show the login form
// (GET /login)
func (impl *ServerImpl) GetLogin(c *gin.Context) {
	impl.render(c, "GetLogin", http.StatusOK, "login.tmpl", gin.H{"Title": "Log in"})
}

// Bind the session to the authenticated user
// (POST /login)
func (impl *ServerImpl) PostLogin(c *gin.Context) {
	const op = "PostLogin"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	user, err := impl.identities.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, stores.ErrAuth) {
		impl.redirectWithFlash(c, op, sess, flashError, "Invalid username or password.", "/login")
		return
	}
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	sess.Set(SESSION_KEY_USER_ID, user.ID.String())
	impl.redirectWithFlash(c, op, sess, flashSuccess, "Logged in successfully.", "/auctions")
}

// Drop the session identity
// (POST /logout)
func (impl *ServerImpl) PostLogout(c *gin.Context) {
	const op = "PostLogout"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	sess.Clear()
	impl.redirectWithFlash(c, op, sess, flashSuccess, "You have been logged out.", "/login")
}
