package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gavel/adapters/session"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

type flashMessage struct {
	Kind    string
	Message string
}

func setFlash(sess session.ISession, kind, message string) {
	sess.Set(SESSION_KEY_FLASH_KIND, kind)
	sess.Set(SESSION_KEY_FLASH_MESSAGE, message)
}

// popFlash 取出待顯示的訊息，有取出時會保存 session
func popFlash(sess session.ISession) (*flashMessage, error) {
	kind := sess.Pop(SESSION_KEY_FLASH_KIND)
	message := sess.Pop(SESSION_KEY_FLASH_MESSAGE)
	if message == "" {
		return nil, nil
	}
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return &flashMessage{Kind: kind, Message: message}, nil
}

// redirectWithFlash 保存訊息後導向指定頁面
func (impl *ServerImpl) redirectWithFlash(c *gin.Context, op string, sess session.ISession, kind, message, location string) {
	setFlash(sess, kind, message)
	if err := sess.Save(); err != nil {
		impl.fail(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// render 以共用的版面資料輸出頁面
func (impl *ServerImpl) render(c *gin.Context, op string, status int, name string, data gin.H) {
	sess, err := session.GetSession(c)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	flash, err := popFlash(sess)
	if err != nil {
		impl.fail(c, op, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = flash
	data["CurrentUser"] = CurrentUser(c)
	c.HTML(status, name, data)
}
