// Package web serves the companion front-end. The built-in page is embedded
// in the binary; a directory on disk can replace it for local development.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

//go:embed all:static
var staticFiles embed.FS

// Handler returns a file server for the front-end. When dir is empty the
// embedded assets are served.
func Handler(dir string) (http.Handler, error) {
	fsys, err := assets(dir)
	if err != nil {
		return nil, err
	}
	return http.FileServer(http.FS(fsys)), nil
}

func assets(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(staticFiles, "static")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
