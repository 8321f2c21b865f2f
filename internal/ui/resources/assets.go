// Package resources serves the site's static assets.
package resources

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// PlaceholderImage is served in place of any missing image.
const PlaceholderImage = "img/placeholder.svg"

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return "/static/" + strings.TrimPrefix(name, "/")
}

// Minify shrinks CSS and JavaScript with esbuild. Other files are
// returned unchanged.
func Minify(name string, src []byte) ([]byte, error) {
	var loader api.Loader
	switch path.Ext(name) {
	case ".css":
		loader = api.LoaderCSS
	case ".js":
		loader = api.LoaderJS
	default:
		return src, nil
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Target:            api.ES2020,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return nil, fmt.Errorf("failed to minify %s:%d: %s", name, msg.Location.Line, msg.Text)
		}
		return nil, fmt.Errorf("failed to minify %s: %s", name, msg.Text)
	}
	return result.Code, nil
}

// assetServer serves files from fsys under /static/. Missing images fall
// back to the placeholder; minified holds pre-built CSS and JS bodies.
type assetServer struct {
	fsys         fs.FS
	files        http.Handler
	minified     map[string][]byte
	cacheControl string
	started      time.Time
}

func newAssetServer(fsys fs.FS, minify bool, cacheControl string) *assetServer {
	a := &assetServer{
		fsys:         fsys,
		files:        http.StripPrefix("/static/", http.FileServer(http.FS(fsys))),
		minified:     make(map[string][]byte),
		cacheControl: cacheControl,
		started:      time.Now(),
	}
	if minify {
		a.minifyAll()
	}
	return a
}

func (a *assetServer) minifyAll() {
	_ = fs.WalkDir(a.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(name)
		if ext != ".css" && ext != ".js" {
			return nil
		}
		src, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			return err
		}
		out, err := Minify(name, src)
		if err != nil {
			slog.Warn("serving unminified asset", "file", name, "error", err)
			return nil
		}
		a.minified[name] = out
		return nil
	})
}

func (a *assetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/static/")

	if body, ok := a.minified[name]; ok {
		a.setCache(w)
		http.ServeContent(w, r, name, a.started, bytes.NewReader(body))
		return
	}

	if _, err := fs.Stat(a.fsys, name); err != nil {
		if strings.HasPrefix(name, "img/") {
			a.servePlaceholder(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	a.setCache(w)
	a.files.ServeHTTP(w, r)
}

func (a *assetServer) servePlaceholder(w http.ResponseWriter, r *http.Request) {
	body, err := fs.ReadFile(a.fsys, PlaceholderImage)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, PlaceholderImage, a.started, bytes.NewReader(body))
}

func (a *assetServer) setCache(w http.ResponseWriter) {
	if a.cacheControl != "" {
		w.Header().Set("Cache-Control", a.cacheControl)
	}
}
