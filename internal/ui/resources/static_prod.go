//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
	"sync"
)

//go:embed static/*
var staticFS embed.FS

var (
	prodOnce    sync.Once
	prodHandler http.Handler
)

// Handler serves the embedded assets. CSS and JS are minified on first use
// and cached for a year.
func Handler() http.Handler {
	prodOnce.Do(func() {
		fsys, _ := fs.Sub(staticFS, "static")
		prodHandler = newAssetServer(fsys, true, "public, max-age=31536000, immutable")
	})
	return prodHandler
}

// FS returns the embedded asset tree rooted at static/.
func FS() fs.FS {
	fsys, _ := fs.Sub(staticFS, "static")
	return fsys
}
