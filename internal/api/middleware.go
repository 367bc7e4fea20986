package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nunajera/mistral-chat/internal/logging"
	"github.com/nunajera/mistral-chat/internal/session"
)

const (
	sessionCookie = "chat_session"
	sessionKey    = "session"
)

// CORS with credentials for the configured front-end origin.
func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		slog.Debug("incoming_request", "method", c.Request.Method, "path", c.Request.URL.Path, "headers", logging.SafeHeaders(c.Request.Header))
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", c.ClientIP(),
		)
	}
}

// withSession binds the request to the caller's session, creating one when
// the cookie is missing or refers to a session that has ended.
func (h *handler) withSession(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if s, ok := h.opts.Registry.Get(id); ok {
			c.Set(sessionKey, s)
			c.Next()
			return
		}
	}
	s := h.opts.Registry.Create()
	slog.Info("session_started", "session", s.ID)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, s.ID, 0, "/", "", false, true)
	c.Set(sessionKey, s)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
