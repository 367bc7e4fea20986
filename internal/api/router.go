// Package api exposes chat sessions over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nunajera/mistral-chat/internal/session"
)

type Options struct {
	Registry    *session.Registry
	Provider    string
	UploadLimit int64
	CORSOrigin  string
	// Metrics is served on /metrics when set.
	Metrics prometheus.Gatherer
}

type handler struct {
	opts    Options
	started time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	h := &handler{opts: opts, started: time.Now()}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors(opts.CORSOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "uptime": time.Since(h.started).Round(time.Second).String()})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api", h.withSession)
	api.GET("/models", h.listModels)
	api.GET("/model", h.getModel)
	api.PUT("/model", h.selectModel)
	api.GET("/messages", h.listMessages)
	api.POST("/messages", h.sendMessage)
	api.POST("/files", h.uploadFile)
	api.POST("/reset", h.reset)
	api.GET("/export", h.export)
	api.DELETE("/session", h.endSession)
	return r
}
