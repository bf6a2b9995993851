// Package plotpage builds standalone HTML pages of go-echarts charts and
// simple layout components.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = len("</style>")

// Hint is interpretive guidance shown under a section.
type Hint struct {
	Title string
	Items []string
}

// Section is one titled block of a page.
type Section struct {
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
}

// Page is a complete visualization page.
type Page struct {
	Title       string
	Description string
	Brand       string
	Theme       Theme
	Sections    []Section
}

// NewPage creates a page with the dark theme.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		Brand:       "xpfang",
		Theme:       ThemeDark,
	}
}

// WithTheme sets the page theme.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	var sections bytes.Buffer

	for _, section := range p.Sections {
		html, err := renderSection(section)
		if err != nil {
			return fmt.Errorf("render section %q: %w", section.Title, err)
		}

		sections.WriteString(string(html))
	}

	darkClass := ""
	if p.Theme != ThemeLight {
		darkClass = "dark"
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		Description: p.Description,
		Brand:       p.Brand,
		DarkClass:   darkClass,
		ThemeCSS:    themeCSS(GetThemeConfig(p.Theme)),
		Content:     template.HTML(sections.String()), //nolint:gosec // sections are rendered by our templates.
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

// themeCSS builds the page stylesheet. Theme values are trusted constants, so
// they bypass html/template's CSS value filter, which rejects rgba().
func themeCSS(t ThemeConfig) template.CSS {
	css := fmt.Sprintf(`body { background: %s; color: %s; }
.surface { background: %s; border: 1px solid %s; }
.muted { color: %s; }
.accent { color: %s; }
.echart-box { width: 100%%; }
.echart-box .item { margin: 0 auto; }`,
		t.Background, t.TextPrimary, t.Surface, t.Border, t.TextMuted, t.Accent)

	return template.CSS(css) //nolint:gosec // built from theme constants.
}

// Renderable is implemented by charts and components.
type Renderable interface {
	Render(w io.Writer) error
}

func renderSection(section Section) (template.HTML, error) {
	chart, err := renderChart(section.Chart)
	if err != nil {
		return "", err
	}

	var hint *hintData

	if len(section.Hint.Items) > 0 {
		hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	return renderTemplate("section.html", sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    template.HTML(chart), //nolint:gosec // chart markup comes from go-echarts or our templates.
		Hint:     hint,
	})
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

// extractChartContent cuts the chart container and script out of a full
// go-echarts page. Component fragments pass through unchanged.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return html
	}

	content := strings.ReplaceAll(html[start:end], `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
