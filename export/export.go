// Package export writes report tables as spreadsheets, PDF, HTML or Markdown.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/etnz/cashbook"
)

// Format is an export file format.
type Format int

const (
	Markdown Format = iota
	HTML
	XLSX
	PDF
)

func (f Format) String() string {
	switch f {
	case Markdown:
		return "md"
	case HTML:
		return "html"
	case XLSX:
		return "xlsx"
	case PDF:
		return "pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "md", "html", "xlsx" or "pdf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "md", "markdown":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "pdf":
		return PDF, nil
	default:
		return Markdown, fmt.Errorf("unknown export format %q", s)
	}
}

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return Markdown, fmt.Errorf("cannot guess the export format of %q", name)
	}
	return ParseFormat(ext)
}

// Write writes t to w. A table without rows is refused with cashbook.ErrNoData.
func Write(w io.Writer, f Format, t cashbook.Table) error {
	if t.Empty() {
		return fmt.Errorf("export %q: %w", t.Title, cashbook.ErrNoData)
	}
	var err error
	switch f {
	case Markdown:
		err = writeMarkdown(w, t)
	case HTML:
		err = writeHTML(w, t)
	case XLSX:
		err = writeXLSX(w, t)
	case PDF:
		err = writePDF(w, t)
	default:
		return fmt.Errorf("unknown export format %v", f)
	}
	if err != nil {
		return fmt.Errorf("export %q as %s: %w", t.Title, f, err)
	}
	return nil
}
