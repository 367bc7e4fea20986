package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/nunajera/mistral-chat/internal"
)

const documentPart = "word/document.xml"

// Docx returns the text of every non-blank paragraph in document order,
// one paragraph per line. Paragraphs inside tables are read cell by cell.
func Docx(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = docxError(fmt.Errorf("malformed docx: %v", r))
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", docxError(err)
	}
	// Parse accepts any zip; the name is only set once the document part was read.
	if doc.Document.XMLName.Local == "" {
		return "", docxError(errors.New(documentPart + " not found"))
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			lines = appendParagraph(lines, it)
		case *docx.Table:
			lines = appendTable(lines, it)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func appendParagraph(lines []string, p *docx.Paragraph) []string {
	s := p.String()
	if strings.TrimSpace(s) == "" {
		return lines
	}
	return append(lines, s)
}

func appendTable(lines []string, t *docx.Table) []string {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, p := range cell.Paragraphs {
				lines = appendParagraph(lines, p)
			}
			for _, nested := range cell.Tables {
				lines = appendTable(lines, nested)
			}
		}
	}
	return lines
}

func docxError(err error) error {
	return &internal.DecodeError{Kind: string(KindDocx), Offset: -1, Err: err}
}
