// Package renderer turns valued portfolios into markdown and HTML reports.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

// RenderOptions holds configuration for rendering an overview.
type RenderOptions struct {
	Bars bool // Use the bar view instead of the table view.
}

// RenderOverview renders the Overview struct to a markdown string.
func RenderOverview(o *Overview, opts RenderOptions) string {
	partials := map[string]string{
		"overview_summary": "overview_summary.md",
		"portfolio":        "portfolio_table.md",
	}
	if opts.Bars {
		partials["portfolio"] = "portfolio_bars.md"
	}
	return renderTemplate("overview", "overview.md", partials, o)
}

// RenderDays renders the day selector to a markdown string.
func RenderDays(days []Day) string {
	return renderTemplate("days", "days.md", nil, days)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts a markdown report into an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("cannot convert report to html: %w", err)
	}
	return buf.String(), nil
}
