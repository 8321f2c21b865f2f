// Package views renders the site's HTML.
//
// Templates are embedded html/template files. Each page file defines a
// "content" block that is executed inside the shared "layout"; partials
// (grids, tables, form steps) are shared by every page and can also be
// rendered on their own as SSE fragments. Both are exposed as
// templ.Component so handlers render full pages and datastar patches the
// same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/lmstudios/lmsite/internal/catalog"
	"github.com/lmstudios/lmsite/internal/ui/resources"
	"github.com/lmstudios/lmsite/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageServices = "services"
	PagePricing  = "pricing"
	PageProjects = "projects"
	PageQuote    = "quote"
	PageTeam     = "team"
	PageFAQ      = "faq"
	PageCity     = "city"
	PageAdmin    = "admin"
	PageNotFound = "notfound"
)

// Shared templates that are not pages.
var sharedFiles = map[string]bool{"layout.html": true, "partials.html": true}

var funcs = template.FuncMap{
	"static": resources.StaticPath,
	"slug":   catalog.Slug,
	"image": func(src string) string {
		if src == "" {
			return resources.StaticPath(resources.PlaceholderImage)
		}
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "/") {
			return src
		}
		return resources.StaticPath(src)
	},
	"add": func(a, b int) int { return a + b },
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006 15:04")
	},
	"join":   strings.Join,
	"maxlen": wizard.MaxLength,
}

type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

var (
	loadOnce sync.Once
	loaded   *templateSet
	loadErr  error
)

func load() (*templateSet, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(templateFS)
	})
	return loaded, loadErr
}

func parse(fsys fs.FS) (*templateSet, error) {
	shared, err := template.New("shared").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse shared templates: %w", err)
	}

	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	set := &templateSet{shared: shared, pages: make(map[string]*template.Template)}
	for _, e := range entries {
		if e.IsDir() || sharedFiles[e.Name()] || path.Ext(e.Name()) != ".html" {
			continue
		}
		page, err := template.Must(shared.Clone()).ParseFS(fsys, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		set.pages[strings.TrimSuffix(e.Name(), ".html")] = page
	}
	return set, nil
}

// Check parses every template and reports the first error.
func Check() error {
	_, err := load()
	return err
}

// Pages lists the names of all page templates.
func Pages() []string {
	set, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(set.pages))
	for name := range set.pages {
		names = append(names, name)
	}
	return names
}

// Render returns a component that writes a full HTML document for page.
func Render(page string, data Page) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		set, err := load()
		if err != nil {
			return err
		}
		t, ok := set.pages[page]
		if !ok {
			return fmt.Errorf("unknown page template %q", page)
		}
		data.Template = page
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// Fragment returns a component that writes one shared partial, such as
// "project-grid", for use in SSE patches.
func Fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		set, err := load()
		if err != nil {
			return err
		}
		return set.shared.ExecuteTemplate(w, name, data)
	})
}
