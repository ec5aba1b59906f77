package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beka-birhanu/glade/api/i"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (pingController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/closed", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func TestRouterHandler(t *testing.T) {
	r := NewRouter(Config{
		Addr:        ":0",
		BaseURL:     "/api",
		Mode:        gin.TestMode,
		Controllers: []i.Controller{pingController{}},
		AuthorizationMiddleware: func(c *gin.Context) {
			if c.GetHeader("Authorization") == "" {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
		},
	})
	assert.Equal(t, ":0", r.Addr())
	h := r.Handler()

	tests := []struct {
		path   string
		authed bool
		code   int
	}{
		{"/api/v1/open", false, http.StatusOK},
		{"/api/v1/closed", false, http.StatusUnauthorized},
		{"/api/v1/closed", true, http.StatusOK},
		{"/api/v2/open", false, http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.authed {
			req.Header.Set("Authorization", "Bearer x")
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.code, rec.Code, tt.path)
	}
}
