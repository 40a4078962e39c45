package poll

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"github.com/trickstertwo/xstatus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns drained records into a response body.
type Renderer interface {
	ContentType() string
	Render(w io.Writer, records []xstatus.Record) error
}

// Row is the view model handed to HTML templates.
type Row struct {
	Status string
	Msg    string
	// Class is a known level, falling back to "info".
	Class  string
	Record xstatus.Record
}

// RowsOf builds view rows. Records without a string msg are shown as their JSON.
func RowsOf(records []xstatus.Record) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		status := rec.Status()
		class := string(xstatus.LevelInfo)
		if xstatus.Level(status).Valid() {
			class = status
		}
		msg, ok := rec["msg"].(string)
		if !ok {
			if b, err := json.Marshal(rec); err == nil {
				msg = string(b)
			}
		}
		rows[i] = Row{Status: status, Msg: msg, Class: class, Record: rec}
	}
	return rows
}

// HTMLRenderer renders table rows for an htmx swap target.
type HTMLRenderer struct {
	tmpl *template.Template
	name string
}

// NewHTMLRenderer uses the built-in row fragment.
func NewHTMLRenderer() *HTMLRenderer {
	t := template.Must(template.ParseFS(templateFS, "templates/rows.html"))
	return &HTMLRenderer{tmpl: t, name: "rows"}
}

// NewHTMLRendererFromTemplate renders with a caller template; name is the
// template to execute and receives []Row.
func NewHTMLRendererFromTemplate(t *template.Template, name string) *HTMLRenderer {
	return &HTMLRenderer{tmpl: t, name: name}
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(w io.Writer, records []xstatus.Record) error {
	return r.tmpl.ExecuteTemplate(w, r.name, RowsOf(records))
}

// JSONRenderer writes the records as a JSON array, oldest first.
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(w io.Writer, records []xstatus.Record) error {
	if records == nil {
		records = []xstatus.Record{}
	}
	return json.NewEncoder(w).Encode(records)
}
