package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nunajera/mistral-chat/internal"
)

// buildDocx assembles a minimal .docx whose body holds the given paragraph XML fragments.
func buildDocx(t *testing.T, paras ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paras {
		body.WriteString(p)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	ct, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = ct.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))
	require.NoError(t, err)
	doc, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func TestDocx_SkipsEmptyParagraphs(t *testing.T) {
	data := buildDocx(t, para("A"), para(""), para("B"))

	got, err := Docx(data)
	require.NoError(t, err)
	assert.Equal(t, "A\nB", got)
}

func TestDocx_RunsTabsAndBreaks(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Hello, </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>   </w:t></w:r></w:p>`,
		`<w:tbl><w:tr><w:tc>`+para("cell")+`</w:tc></w:tr></w:tbl>`,
	)

	got, err := Docx(data)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world\na\tb\nc\ncell", got)
}

func TestDocx_TablesInBodyOrder(t *testing.T) {
	nested := `<w:tbl><w:tr><w:tc>` + para("inner") + `</w:tc></w:tr></w:tbl>`
	data := buildDocx(t,
		para("before"),
		`<w:tbl><w:tr><w:tc>`+para("r1c1")+`</w:tc><w:tc>`+para("r1c2")+`</w:tc></w:tr>`+
			`<w:tr><w:tc>`+para("")+para("r2c1")+nested+`</w:tc></w:tr></w:tbl>`,
		para("after"),
	)

	got, err := Docx(data)
	require.NoError(t, err)
	assert.Equal(t, "before\nr1c1\nr1c2\nr2c1\ninner\nafter", got)
}

func TestDocx_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("plain words")},
		{name: "zip without document part", data: func() []byte {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, _ := zw.Create("other.xml")
			_, _ = w.Write([]byte("<x/>"))
			_ = zw.Close()
			return buf.Bytes()
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Docx(tt.data)
			var de *internal.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "docx", de.Kind)
		})
	}
}

type fakePages []struct {
	text string
	err  error
}

func (f fakePages) NumPage() int { return len(f) }

func (f fakePages) PageText(n int) (string, error) {
	p := f[n-1]
	return p.text, p.err
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		name  string
		pages fakePages
		want  string
	}{
		{name: "no pages", pages: fakePages{}, want: ""},
		{name: "single page", pages: fakePages{{text: "only"}}, want: "only"},
		{
			name:  "blank middle page keeps its segment",
			pages: fakePages{{text: "one"}, {text: ""}, {text: "three"}},
			want:  "one\n\nthree",
		},
		{
			name:  "all blank",
			pages: fakePages{{}, {}, {}},
			want:  "\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := joinPages(tt.pages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if len(tt.pages) > 0 {
				assert.Len(t, strings.Split(got, "\n"), len(tt.pages))
			}
		})
	}
}

func TestJoinPages_PageError(t *testing.T) {
	cause := errors.New("bad stream")
	_, err := joinPages(fakePages{{text: "ok"}, {err: cause}})

	var de *internal.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "pdf", de.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "page 2")
}

func TestPDF_RejectsGarbage(t *testing.T) {
	_, err := PDF([]byte("definitely not a pdf"))
	var de *internal.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "pdf", de.Kind)
}

// buildPDF writes a minimal uncompressed PDF with one page per entry.
// An empty entry produces a page without a content stream.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) int {
		offsets = append(offsets, buf.Len())
		n := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
		return n
	}
	buf.WriteString("%PDF-1.4\n")

	// objects 1-3 are fixed so pages can refer to them before they exist
	pageRefs := make([]string, 0, len(pages))
	next := 4
	for _, text := range pages {
		pageRefs = append(pageRefs, fmt.Sprintf("%d 0 R", next))
		next++
		if text != "" {
			next++
		}
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(pageRefs, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for _, text := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if text == "" {
			obj(page + " >>")
			continue
		}
		contentRef := len(offsets) + 2
		obj(fmt.Sprintf("%s /Contents %d 0 R >>", page, contentRef))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestPDF_OneSegmentPerPage(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{name: "text pages", pages: []string{"one", "two", "three"}, want: "one\ntwo\nthree"},
		{name: "blank page without contents", pages: []string{"one", "", "three"}, want: "one\n\nthree"},
		{name: "single blank page", pages: []string{""}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PDF(buildPDF(t, tt.pages...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, strings.Split(got, "\n"), len(tt.pages))
		})
	}
}

func TestExtract_PDFByMediaType(t *testing.T) {
	got, err := Extract(buildPDF(t, "hello", ""), MediaPDF, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", got)
}

func TestText(t *testing.T) {
	got, err := Text([]byte("héllo wörld"))
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", got)

	got, err = Text(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = Text([]byte("ok\xff\xfemore"))
	var de *internal.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "text", de.Kind)
}

func TestDetectKind(t *testing.T) {
	pdfHeader := []byte("%PDF-1.4\n%âãÏÓ\n")
	tests := []struct {
		name      string
		mediaType string
		filename  string
		data      []byte
		want      Kind
	}{
		{name: "declared pdf", mediaType: "application/pdf", filename: "x.bin", want: KindPDF},
		{name: "declared docx", mediaType: MediaDocx, want: KindDocx},
		{name: "declared text with charset", mediaType: "text/plain; charset=utf-8", filename: "a.pdf", want: KindText},
		{name: "declared unrelated type falls back to text", mediaType: "application/json", filename: "a.pdf", want: KindText},
		{name: "octet stream uses extension", mediaType: "application/octet-stream", filename: "Report.PDF", want: KindPDF},
		{name: "no type docx extension", filename: "notes.docx", want: KindDocx},
		{name: "no type text extension", filename: "notes.md", data: pdfHeader, want: KindText},
		{name: "sniffed pdf", mediaType: "application/octet-stream", filename: "upload", data: pdfHeader, want: KindPDF},
		{name: "unknown everything", filename: "upload", data: []byte("hello"), want: KindText},
		{name: "malformed media type", mediaType: ";;;", filename: "x.docx", want: KindDocx},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.mediaType, tt.filename, tt.data))
		})
	}
}

func TestExtract_Dispatch(t *testing.T) {
	docx := buildDocx(t, para("first"), para(""), para("second"))

	got, err := Extract(docx, MediaDocx, "doc.docx")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)

	got, err = Extract([]byte("plain"), "", "readme")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = Extract([]byte{0xff}, "application/x-unknown", "blob")
	var de *internal.DecodeError
	assert.ErrorAs(t, err, &de)
}
