package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playpool/aimline/internal/config"
)

func wsRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WebSocketCORSCheck(cfg))
	r.GET("/ws", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestWebSocketCORSCheck(t *testing.T) {
	prod := &config.Config{Environment: "production", FrontendURL: "https://aim.example.com"}
	dev := &config.Config{Environment: "development"}

	cases := []struct {
		name    string
		cfg     *config.Config
		upgrade bool
		origin  string
		want    int
	}{
		{"plain request passes", prod, false, "https://evil.example", http.StatusOK},
		{"no origin passes", prod, true, "", http.StatusOK},
		{"frontend allowed", prod, true, "https://aim.example.com", http.StatusOK},
		{"foreign origin rejected", prod, true, "https://evil.example", http.StatusForbidden},
		{"localhost in dev", dev, true, "http://localhost:3000", http.StatusOK},
		{"localhost in prod", prod, true, "http://localhost:3000", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tc.upgrade {
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
		}
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		w := httptest.NewRecorder()
		wsRouter(tc.cfg).ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}
