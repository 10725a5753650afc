package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, quietLogger())
	status := http.StatusUnauthorized

	r := gin.New()
	r.POST("/login", limiter.Login(), func(c *gin.Context) { c.Status(status) })
	r.POST("/register", limiter.Register(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r, mr, &status
}

func post(r http.Handler, path string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginRateLimit_BlocksAfterFailures(t *testing.T) {
	r, mr, _ := limitedRouter(t)

	for i := 0; i < LoginMaxAttempts; i++ {
		require.Equal(t, http.StatusUnauthorized, post(r, "/login"))
	}
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/login"))
	assert.True(t, mr.Exists("login_cooldown:10.0.0.1"))

	// Le blocage persiste pendant le cooldown
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/login"))
}

func TestLoginRateLimit_SuccessResetsCounter(t *testing.T) {
	r, mr, status := limitedRouter(t)

	post(r, "/login")
	post(r, "/login")
	require.True(t, mr.Exists("login_attempts:10.0.0.1"))

	*status = http.StatusOK
	require.Equal(t, http.StatusOK, post(r, "/login"))
	assert.False(t, mr.Exists("login_attempts:10.0.0.1"))
}

func TestRegisterRateLimit(t *testing.T) {
	r, _, _ := limitedRouter(t)

	for i := 0; i < RegisterMaxAttempts; i++ {
		require.Equal(t, http.StatusCreated, post(r, "/register"))
	}
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/register"))
}

func TestRateLimit_NoRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(nil, quietLogger())
	r := gin.New()
	r.POST("/login", limiter.Login(), func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	for i := 0; i < LoginMaxAttempts+2; i++ {
		assert.Equal(t, http.StatusUnauthorized, post(r, "/login"))
	}
}
