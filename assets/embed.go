// Package assets embeds the HTML templates and static files served by the
// web interface.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var FS embed.FS

// Static returns the static file tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
