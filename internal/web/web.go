// Package web renders the HTML pages of the schedule app.
//
// # Templates
//
// Templates are embedded from templates/ and parsed once by [NewRenderer]. Every page is the "layout"
// template of layout.html with the page file supplying "content" (and optionally "title"):
//
//   - login.html : [LoginPage], link to the Clever authorization URL
//   - schedule.html : [SchedulePage], profile header and sections table
//   - error.html : [ErrorPage], failure message, raw diagnostic and a link back to /
//   - done.html : [DonePage], shown by the CLI login callback
//
// Pages render into a buffer first so a template error never leaves a half-written response.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by [Renderer.Render].
const (
	ViewLogin    = "login"
	ViewSchedule = "schedule"
	ViewError    = "error"
	ViewDone     = "done"
)

// LoginPage is shown to anonymous visitors.
type LoginPage struct {
	AuthURL string
}

// SchedulePage is shown to authenticated students.
//
// SectionsErr is set instead of Sections when the schedule could not be fetched.
type SchedulePage struct {
	Student     models.StudentInfo
	Sections    []models.Section
	SectionsErr string
}

// ErrorPage reports a failed login.
type ErrorPage struct {
	Message    string
	Diagnostic string
}

// DonePage confirms a terminal login.
type DonePage struct {
	StudentID string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{ViewLogin, ViewSchedule, ViewError, ViewDone} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}

		page, err := base.ParseFS(files, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{pages: pages}, nil
}

// Render writes page name executed with data to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%w: unknown page %q", shared.ErrInvalidInput, name)
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
