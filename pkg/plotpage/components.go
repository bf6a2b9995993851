package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// Tone is the semantic color of a component.
type Tone string

// Tones.
const (
	ToneDefault Tone = "default"
	ToneAccent  Tone = "accent"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

var badgeClasses = map[Tone]string{
	ToneDefault: "bg-stone-200 text-stone-700 dark:bg-stone-800 dark:text-stone-300",
	ToneAccent:  "bg-amber-100 text-amber-800 dark:bg-amber-950 dark:text-amber-300",
	ToneSuccess: "bg-pink-100 text-pink-800 dark:bg-pink-950 dark:text-pink-200",
	ToneWarning: "bg-yellow-100 text-yellow-800 dark:bg-yellow-950 dark:text-yellow-300",
	ToneError:   "bg-red-100 text-red-800 dark:bg-red-950 dark:text-red-300",
	ToneInfo:    "bg-violet-100 text-violet-800 dark:bg-violet-950 dark:text-violet-300",
}

var alertClasses = map[Tone]string{
	ToneDefault: "bg-stone-50 border-stone-500 text-stone-700 dark:bg-stone-900 dark:text-stone-300",
	ToneAccent:  "bg-amber-50 border-amber-500 text-amber-800 dark:bg-amber-950 dark:text-amber-200",
	ToneSuccess: "bg-pink-50 border-pink-400 text-pink-800 dark:bg-pink-950 dark:text-pink-200",
	ToneWarning: "bg-yellow-50 border-yellow-500 text-yellow-800 dark:bg-yellow-950 dark:text-yellow-200",
	ToneError:   "bg-red-50 border-red-500 text-red-800 dark:bg-red-950 dark:text-red-200",
	ToneInfo:    "bg-violet-50 border-violet-500 text-violet-800 dark:bg-violet-950 dark:text-violet-200",
}

func classesFor(table map[Tone]string, tone Tone) string {
	if c, ok := table[tone]; ok {
		return c
	}

	return table[ToneDefault]
}

func renderToString(r Renderable) (template.HTML, error) {
	if r == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil //nolint:gosec // rendered by our templates.
}

func writeTemplate(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// Card is a titled container.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card content.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	content, err := renderToString(c.Content)
	if err != nil {
		return fmt.Errorf("rendering card content: %w", err)
	}

	return writeTemplate(w, "card.html", cardData{Title: c.Title, Subtitle: c.Subtitle, Content: content})
}

// Grid lays items out in up to four responsive columns.
type Grid struct {
	Columns int
	Items   []Renderable
}

// NewGrid creates a grid with the given number of columns, clamped to [1, 4].
func NewGrid(columns int, items ...Renderable) *Grid {
	return &Grid{Columns: min(max(columns, 1), maxGridColumns), Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-3",
		4: "grid-cols-2 lg:grid-cols-4",
	}[g.Columns]

	items := make([]template.HTML, 0, len(g.Items))

	for i, item := range g.Items {
		html, err := renderToString(item)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		items = append(items, html)
	}

	return writeTemplate(w, "grid.html", gridData{ColClass: colClass, Items: items})
}

// Stat is a labeled headline value.
type Stat struct {
	Label string
	Value string
	Note  string
	Tone  Tone
}

// NewStat creates a stat.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value, Tone: ToneDefault}
}

// WithNote sets the line shown under the value.
func (s *Stat) WithNote(note string, tone Tone) *Stat {
	s.Note = note
	s.Tone = tone

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	return writeTemplate(w, "stat.html", statData{
		Label:     s.Label,
		Value:     s.Value,
		Note:      s.Note,
		NoteClass: classesFor(badgeClasses, s.Tone),
	})
}

// Alert is a highlighted message box.
type Alert struct {
	Title   string
	Message string
	Tone    Tone
}

// NewAlert creates an alert.
func NewAlert(title, message string, tone Tone) *Alert {
	return &Alert{Title: title, Message: message, Tone: tone}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	return writeTemplate(w, "alert.html", alertData{
		Title:   a.Title,
		Message: a.Message,
		Classes: classesFor(alertClasses, a.Tone),
	})
}

// Badge is an inline tag.
type Badge struct {
	Text string
	Tone Tone
}

// NewBadge creates a badge.
func NewBadge(text string, tone Tone) *Badge {
	return &Badge{Text: text, Tone: tone}
}

// Render writes the badge HTML.
func (b *Badge) Render(w io.Writer) error {
	return writeTemplate(w, "badge.html", badgeData{Text: b.Text, Classes: classesFor(badgeClasses, b.Tone)})
}

// Table is an HTML table. Cells are strings, escaped on render, or Renderables.
type Table struct {
	Headers []string
	Rows    [][]any
}

// NewTable creates a table.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...any) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	rows := make([][]template.HTML, len(t.Rows))

	for i, row := range t.Rows {
		rows[i] = make([]template.HTML, len(row))

		for j, cell := range row {
			html, err := renderCell(cell)
			if err != nil {
				return fmt.Errorf("rendering cell %d,%d: %w", i, j, err)
			}

			rows[i][j] = html
		}
	}

	return writeTemplate(w, "table.html", tableData{Headers: t.Headers, Rows: rows})
}

func renderCell(cell any) (template.HTML, error) {
	switch v := cell.(type) {
	case Renderable:
		return renderToString(v)
	case string:
		return template.HTML(template.HTMLEscapeString(v)), nil //nolint:gosec // escaped above.
	default:
		return template.HTML(template.HTMLEscapeString(fmt.Sprint(v))), nil //nolint:gosec // escaped above.
	}
}
