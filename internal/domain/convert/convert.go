// Package convert turns uploaded documents into Markdown.
//
// Dispatch is by filename extension: Markdown and plain text pass through,
// CSV becomes a pipe table, JSON becomes a fenced code block, and HTML is
// rendered through the html-to-markdown converter.
package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Defaults for converter construction.
const (
	defaultRowLimit  = 10_000
	defaultFenceLang = "json"
)

// Converter converts a single uploaded document to Markdown.
type Converter struct {
	rowLimit  int
	fenceLang string
	html      *md.Converter
}

// New constructs a Converter with default configuration.
func New(opts ...Option) *Converter {
	c := &Converter{
		rowLimit:  defaultRowLimit,
		fenceLang: defaultFenceLang,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.html = md.NewConverter("", true, nil)
	return c
}

// Convert reads the document from r and returns its Markdown rendition
// together with the detected format label.
func (c *Converter) Convert(ctx context.Context, filename string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrConversion, err)
	}

	format, ok := FormatFor(filename)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", format, fmt.Errorf("%w: read upload: %w", ErrConversion, err)
	}

	var out string
	switch format {
	case "markdown", "text":
		out = string(data)
	case "csv":
		out, err = c.csvToTable(data)
	case "json":
		out, err = c.jsonToFence(data)
	case "html":
		out, err = c.html.ConvertString(string(data))
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConversion, err)
		}
	}
	if err != nil {
		return "", format, err
	}
	return out, format, nil
}

// FormatFor maps a filename extension to a format label. Callers can use it
// to reject a document before reading any of its content.
func FormatFor(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return "markdown", true
	case ".txt":
		return "text", true
	case ".csv":
		return "csv", true
	case ".json":
		return "json", true
	case ".html", ".htm":
		return "html", true
	default:
		return "", false
	}
}

// csvToTable renders CSV records as a Markdown pipe table. The first record
// becomes the header; rows beyond the configured limit are dropped.
func (c *Converter) csvToTable(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: parse csv: %w", ErrConversion, err)
	}
	if len(records) == 0 {
		return "", nil
	}

	header := records[0]
	width := len(header)

	var b strings.Builder
	writeRow(&b, header, width)
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	rows := records[1:]
	if len(rows) > c.rowLimit {
		rows = rows[:c.rowLimit]
	}
	for _, row := range rows {
		writeRow(&b, row, width)
	}
	return b.String(), nil
}

// writeRow emits one table row padded or truncated to width cells.
func writeRow(b *strings.Builder, row []string, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cell = strings.ReplaceAll(cell, "|", `\|`)
		cell = strings.ReplaceAll(cell, "\n", " ")
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}

// jsonToFence pretty-prints the JSON document inside a fenced code block.
func (c *Converter) jsonToFence(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", fmt.Errorf("%w: parse json: %w", ErrConversion, err)
	}
	return "```" + c.fenceLang + "\n" + buf.String() + "\n```\n", nil
}
