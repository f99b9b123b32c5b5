package limit_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gavel/adapters/limit"
)

func TestGinFormLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limit.GinFormLimit(32))
	router.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("item"))
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "小於限制",
			body:       url.Values{"item": {"Vase"}}.Encode(),
			wantStatus: http.StatusOK,
			wantBody:   "Vase",
		},
		{
			name:       "超過限制",
			body:       url.Values{"item": {strings.Repeat("x", 64)}}.Encode(),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   "Request body exceeds 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}
