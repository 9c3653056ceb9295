package editor

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Template names.
const (
	TemplateEditor       = "signatory-editor"
	TemplateView         = "signatory-view"
	TemplatePage         = "signatory-page"
	TemplateDeletePrompt = "signatory-delete-prompt"
)

//go:embed templates/*.html
var embedded embed.FS

// Templates holds the parsed editor templates. They come from the embedded
// set or, when a directory is given, from *.html files in it.
type Templates struct {
	dir string

	mu  sync.RWMutex
	set *template.Template
}

// LoadTemplates parses the templates in dir, or the embedded ones when dir
// is empty.
func LoadTemplates(dir string) (*Templates, error) {
	t := &Templates{dir: dir}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustLoadTemplates is LoadTemplates for the embedded set; it panics on error.
func MustLoadTemplates() *Templates {
	t, err := LoadTemplates("")
	if err != nil {
		panic(err)
	}
	return t
}

// Dir returns the template directory, empty for the embedded set.
func (t *Templates) Dir() string {
	return t.dir
}

// Reload parses the templates again. On error the previous set is kept.
func (t *Templates) Reload() error {
	var fsys fs.FS
	pattern := "templates/*.html"
	if t.dir == "" {
		fsys = embedded
	} else {
		fsys = os.DirFS(t.dir)
		pattern = "*.html"
	}

	set, err := template.ParseFS(fsys, pattern)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range []string{TemplateEditor, TemplateView, TemplatePage, TemplateDeletePrompt} {
		if set.Lookup(name) == nil {
			return fmt.Errorf("template %q is not defined", name)
		}
	}

	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

// Execute renders the named template to w.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	t.mu.RLock()
	set := t.set
	t.mu.RUnlock()

	return set.ExecuteTemplate(w, name, data)
}

func (t *Templates) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
