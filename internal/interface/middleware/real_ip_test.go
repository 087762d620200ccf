package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func realIPFor(t *testing.T, headers map[string]string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) {
		got = c.GetString("real_ip")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestRealIPForwardedFor(t *testing.T) {
	got := realIPFor(t, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"})
	assert.Equal(t, "203.0.113.7", got, "left-most forwarded address wins")
}

func TestRealIPRealIPHeader(t *testing.T) {
	got := realIPFor(t, map[string]string{"X-Real-IP": "198.51.100.4"})
	assert.Equal(t, "198.51.100.4", got)
}

func TestRealIPForwardedForBeatsRealIP(t *testing.T) {
	got := realIPFor(t, map[string]string{
		"X-Forwarded-For": "203.0.113.7",
		"X-Real-IP":       "198.51.100.4",
	})
	assert.Equal(t, "203.0.113.7", got)
}

func TestRealIPInvalidHeaderFallsBack(t *testing.T) {
	got := realIPFor(t, map[string]string{"X-Forwarded-For": "not-an-ip"})
	assert.Equal(t, "10.0.0.9", got, "garbage headers fall back to the peer address")
}

func TestRealIPNoHeaders(t *testing.T) {
	got := realIPFor(t, nil)
	assert.Equal(t, "10.0.0.9", got)
}
