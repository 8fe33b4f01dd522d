package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Renderer writes a Table in one output format.
type Renderer interface {
	Render(w io.Writer, t Table) error
	ContentType() string
	Extension() string
}

const (
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// RendererFor returns the sink for format; empty means PDF.
func RendererFor(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPDF:
		return PDFRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// CSVRenderer writes the title and metadata, then the table, then the text lines.
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVRenderer) Extension() string   { return FormatCSV }

func (CSVRenderer) Render(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	records := [][]string{{t.Title}}
	for _, m := range t.Meta {
		records = append(records, []string{m.Label, m.Value})
	}
	records = append(records, []string{}, t.Header)
	records = append(records, t.Rows...)
	if len(t.Summary) > 0 || len(t.Notes) > 0 {
		records = append(records, []string{})
	}
	for _, line := range t.Summary {
		records = append(records, []string{line})
	}
	for _, line := range t.Notes {
		records = append(records, []string{"Nota", line})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// JSONRenderer encodes the Table itself.
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }
func (JSONRenderer) Extension() string   { return FormatJSON }

func (JSONRenderer) Render(w io.Writer, t Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
