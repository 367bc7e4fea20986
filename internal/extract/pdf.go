package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nunajera/mistral-chat/internal"
)

// pageSource is the subset of a PDF reader needed to pull text page by page.
// Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(n int) (string, error) {
	page := p.r.Page(n)
	// a page with no content stream is blank, not broken
	if page.V.IsNull() || page.V.Key("Contents").IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// PDF returns the text of every page joined by newlines. Pages without
// text contribute an empty segment, so an N-page file always yields N segments.
func PDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &internal.DecodeError{Kind: string(KindPDF), Offset: -1, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &internal.DecodeError{Kind: string(KindPDF), Offset: -1, Err: err}
	}
	return joinPages(pdfPages{r: r})
}

func joinPages(src pageSource) (string, error) {
	n := src.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		txt, err := src.PageText(i)
		if err != nil {
			return "", &internal.DecodeError{Kind: string(KindPDF), Offset: -1, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = append(pages, txt)
	}
	return strings.Join(pages, "\n"), nil
}
