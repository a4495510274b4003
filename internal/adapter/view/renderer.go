// Package view renders the HTML pages of the clinic.
package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"

	pkgerrors "clinic-service/pkg/errors"
)

// ErrTemplateNotFound is matched by errors returned for unknown template names.
var ErrTemplateNotFound = errors.New("template not found")

// Raw marks s as trusted markup that is inserted without escaping.
func Raw(s string) template.HTML {
	return template.HTML(s)
}

// Renderer executes named templates parsed from a directory of *.html files.
// Every file shares one namespace, so pages can use blocks defined in a layout file.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every *.html file found at the root of fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	t, err := template.New("").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the template called name with data. Values are HTML-escaped
// unless they are of type template.HTML (see Raw).
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	t := r.templates.Lookup(name)
	if t == nil {
		return nil, &notFoundError{pkgerrors.NewNotFoundError(name, "File not found: "+name)}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

type notFoundError struct {
	*pkgerrors.NotFoundError
}

func (e *notFoundError) Unwrap() error { return ErrTemplateNotFound }
