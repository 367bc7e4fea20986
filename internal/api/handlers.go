package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/export"
	"github.com/nunajera/mistral-chat/internal/session"
)

// multipartOverhead is allowed on top of the upload limit for form boundaries and fields.
const multipartOverhead = 1 << 20

func (h *handler) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, internal.ModelsResponse{Models: internal.Models, Selected: current(c).Model()})
}

func (h *handler) getModel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"model": current(c).Model(), "provider": h.opts.Provider})
}

func (h *handler) selectModel(c *gin.Context) {
	var req internal.SelectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}
	s := current(c)
	if err := s.SelectModel(req.Model); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("model_selected", "session", s.ID, "model", req.Model)
	c.JSON(http.StatusOK, gin.H{"model": s.Model()})
}

func (h *handler) listMessages(c *gin.Context) {
	s := current(c)
	c.JSON(http.StatusOK, internal.ChatHistory{Messages: s.History(), Model: s.Model()})
}

func (h *handler) sendMessage(c *gin.Context) {
	var req internal.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	s := current(c)
	reply, err := s.Submit(c.Request.Context(), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, internal.SendMessageResponse{Reply: reply, Model: s.Model()})
}

func (h *handler) uploadFile(c *gin.Context) {
	limit := h.opts.UploadLimit
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.tooLarge(c, limit)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if limit > 0 && fh.Size > limit {
		h.tooLarge(c, limit)
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	s := current(c)
	slog.Info("file_received", "session", s.ID, "file", fh.Filename, "size", humanize.Bytes(uint64(len(data))))
	res, err := s.SubmitFile(c.Request.Context(), session.Upload{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, c.PostForm("question"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, internal.AnalyzeFileResponse{
		Request:   res.Request,
		Reply:     res.Reply,
		Model:     s.Model(),
		Truncated: res.Truncated,
	})
}

func (h *handler) reset(c *gin.Context) {
	current(c).Reset()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) export(c *gin.Context) {
	exp, err := export.ForFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := current(c)
	t := &export.Transcript{Session: s.ID, Model: s.Model(), ExportedAt: time.Now().UTC(), Messages: s.History()}

	c.Header("Content-Type", exp.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="conversation-%s.%s"`, s.ID, exp.Extension()))
	c.Status(http.StatusOK)
	if err := exp.Export(t, c.Writer); err != nil {
		slog.Error("export_failed", "session", s.ID, "error", err)
	}
}

func (h *handler) endSession(c *gin.Context) {
	s := current(c)
	h.opts.Registry.Remove(s.ID)
	slog.Info("session_ended", "session", s.ID)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *handler) tooLarge(c *gin.Context, limit int64) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": "file exceeds the upload limit",
		"max":   humanize.Bytes(uint64(limit)),
	})
}

// fail maps domain errors to status codes and reports them to the client.
func (h *handler) fail(c *gin.Context, err error) {
	var (
		status   = http.StatusInternalServerError
		invalid  *internal.InvalidModelError
		decode   *internal.DecodeError
		upstream *internal.UpstreamError
	)
	switch {
	case errors.Is(err, internal.ErrEmptyInput), errors.Is(err, internal.ErrEmptyConversation):
		status = http.StatusBadRequest
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &decode):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
	}
	slog.Warn("request_failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}
