// Package export renders a conversation transcript for download.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nunajera/mistral-chat/internal"
)

// Transcript is the exported view of one session.
type Transcript struct {
	Session    string             `json:"session" yaml:"session"`
	Model      string             `json:"model" yaml:"model"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Messages   []internal.Message `json:"messages" yaml:"messages"`
}

// Exporter writes a transcript in one format.
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	ContentType() string
	Extension() string
}

// ForFormat returns the exporter for "markdown"/"md", "json" or "yaml"/"yml".
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

type JSONExporter struct{}

func (e *JSONExporter) Export(t *Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func (e *JSONExporter) ContentType() string { return "application/json" }
func (e *JSONExporter) Extension() string   { return "json" }

type YAMLExporter struct{}

func (e *YAMLExporter) Export(t *Transcript, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

func (e *YAMLExporter) ContentType() string { return "application/yaml" }
func (e *YAMLExporter) Extension() string   { return "yaml" }

// MarkdownExporter writes the conversation as alternating role sections.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(t *Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", t.Session)
	_, _ = fmt.Fprintf(w, "**Model:** %s  \n", t.Model)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(t.Messages))

	for i, msg := range t.Messages {
		if _, err := fmt.Fprintf(w, "**%s** (%s)\n\n%s\n\n", msg.Role, msg.CreatedAt.Format(time.RFC3339), msg.Content); err != nil {
			return err
		}
		if i < len(t.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func (e *MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
func (e *MarkdownExporter) Extension() string   { return "md" }
