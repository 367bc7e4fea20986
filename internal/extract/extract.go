// Package extract turns uploaded documents into plain UTF-8 text.
//
// Extraction preserves the whole content. Any size budget is applied later,
// when the text is embedded into a prompt.
package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/nunajera/mistral-chat/internal"
)

type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
	KindDocx Kind = "docx"
)

const (
	MediaPDF  = "application/pdf"
	MediaDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extract converts data to text according to its declared media type,
// falling back to the file name and then the content itself.
func Extract(data []byte, mediaType, filename string) (string, error) {
	switch DetectKind(mediaType, filename, data) {
	case KindPDF:
		return PDF(data)
	case KindDocx:
		return Docx(data)
	default:
		return Text(data)
	}
}

// DetectKind resolves which extractor handles a file. Unknown types are text.
func DetectKind(mediaType, filename string, data []byte) Kind {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = ""
	}
	switch {
	case mt == MediaPDF:
		return KindPDF
	case mt == MediaDocx:
		return KindDocx
	case strings.HasPrefix(mt, "text/"):
		return KindText
	case mt != "" && mt != "application/octet-stream":
		return KindText
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDocx
	case ".txt", ".md", ".csv":
		return KindText
	}

	if len(data) > 0 {
		sniffed := mimetype.Detect(data)
		switch {
		case sniffed.Is(MediaPDF):
			return KindPDF
		case sniffed.Is(MediaDocx):
			return KindDocx
		}
	}
	return KindText
}

// Text validates data as UTF-8 and returns it unchanged.
func Text(data []byte) (string, error) {
	if _, n, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", &internal.DecodeError{Kind: string(KindText), Offset: n, Err: err}
	}
	return string(data), nil
}
