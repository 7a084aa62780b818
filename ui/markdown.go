package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// introMarkdown is the dashboard's welcome card. Authored in Markdown
// so the copy can be edited without touching templates.
const introMarkdown = `
## Growth Mindset Data Analyzer

Upload a **CSV** or **XLSX** file to explore your data: summary
statistics, cleaning tools, interactive charts and a correlation
heatmap, with export back to CSV or XLSX when you are done.

- Files up to **200 MB** are supported.
- The first row of your file is read as the column header.
- Empty cells are treated as missing values.
`

// renderIntroCard converts the intro copy to trusted HTML once at
// startup.
func renderIntroCard() template.HTML {
	return renderMarkdown(introMarkdown)
}

func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(src), p, renderer))
}
