package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func writeMarkdown(w io.Writer, t cashbook.Table) error {
	_, err := io.WriteString(w, renderer.RenderTable(t))
	return err
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

const htmlHeader = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
th { background: #f0f0f0; }
</style>
</head>
<body>
`

// writeHTML converts the Markdown rendering into a standalone page.
func writeHTML(w io.Writer, t cashbook.Table) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(renderer.RenderTable(t)), &body); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, htmlHeader, html.EscapeString(t.Title)); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
