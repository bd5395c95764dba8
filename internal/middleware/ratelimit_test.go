package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitBlocksWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	hits := 0
	engine.POST("/chat", RateLimit(time.Minute), func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = "10.0.0.1:4567"
		engine.ServeHTTP(rec, req)
		return rec
	}

	do()
	require.Equal(t, 1, hits)
	do()
	require.Equal(t, 1, hits)
}

func TestRateLimitDistinguishesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	hits := 0
	engine.POST("/chat", RateLimit(time.Minute), func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})

	for i, addr := range []string{"10.0.0.1:1111", "10.0.0.2:2222"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = addr
		engine.ServeHTTP(rec, req)
		require.Equal(t, i+1, hits)
	}
}

func TestRateLimitDisabledWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	hits := 0
	engine.POST("/chat", RateLimit(0), func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = "10.0.0.1:4567"
		engine.ServeHTTP(rec, req)
	}
	require.Equal(t, 3, hits)
}
