// Package table renders report data as console tables.
package table

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

const (
	columnSeparator = "│"
	lineSeparator   = "─"
)

// Renderer draws rows of cells under a header line.
type Renderer interface {
	Render(w io.Writer, headers []string, rows [][]string, opts ...RenderOption)
	RenderToString(headers []string, rows [][]string, opts ...RenderOption) string
}

type renderer struct {
	log logrus.FieldLogger
}

// NewRenderer creates a table renderer.
func NewRenderer(log logrus.FieldLogger) Renderer {
	return &renderer{
		log: log.WithField("component", "table.renderer"),
	}
}

// RenderOption adjusts a table after the default style is applied.
type RenderOption func(*tablewriter.Table)

// WithoutBorder drops the outer frame, leaving only the header line and the
// column separators.
func WithoutBorder() RenderOption {
	return func(t *tablewriter.Table) {
		t.SetBorder(false)
	}
}

// WithRowLines draws a separator line under every row.
func WithRowLines() RenderOption {
	return func(t *tablewriter.Table) {
		t.SetRowLine(true)
	}
}

// WithColumnAlignment aligns columns by position using tablewriter's ALIGN_*
// constants. Columns past the end keep the default left alignment.
func WithColumnAlignment(aligns ...int) RenderOption {
	return func(t *tablewriter.Table) {
		t.SetColumnAlignment(aligns)
	}
}

func (r *renderer) RenderToString(headers []string, rows [][]string, opts ...RenderOption) string {
	var sb strings.Builder

	r.Render(&sb, headers, rows, opts...)

	return sb.String()
}

func (r *renderer) Render(w io.Writer, headers []string, rows [][]string, opts ...RenderOption) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	defaultStyle(t)

	for _, opt := range opts {
		opt(t)
	}

	t.AppendBulk(rows)
	t.Render()

	r.log.WithFields(logrus.Fields{
		"columns": len(headers),
		"rows":    len(rows),
	}).Debug("rendered table")
}

func defaultStyle(t *tablewriter.Table) {
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("")
	t.SetColumnSeparator(columnSeparator)
	t.SetRowSeparator(lineSeparator)
	t.SetHeaderLine(true)
	t.SetBorder(true)
	t.SetTablePadding(" ")
}

var _ Renderer = (*renderer)(nil)
