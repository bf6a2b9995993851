package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		parsed, err := template.New("").ParseFS(templateFS, "templates/*.html")
		if err != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", err)

			return
		}

		templates = parsed
	})

	return templates, errTemplates
}

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template.
}

type pageData struct {
	Title       string
	Description string
	Brand       string
	DarkClass   string
	ThemeCSS    template.CSS
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}

type cardData struct {
	Title    string
	Subtitle string
	Content  template.HTML
}

type gridData struct {
	ColClass string
	Items    []template.HTML
}

type statData struct {
	Label     string
	Value     string
	Note      string
	NoteClass string
}

type alertData struct {
	Title   string
	Message string
	Classes string
}

type badgeData struct {
	Text    string
	Classes string
}

type tableData struct {
	Headers []string
	Rows    [][]template.HTML
}
