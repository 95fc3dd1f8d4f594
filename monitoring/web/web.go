// Package web holds the static page of the model inspector.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path/filepath"
	"runtime"
)

//go:embed dist/*
var staticAssets embed.FS

// Assets returns the inspector page. With fromSource set, the files are read
// from the dist directory next to this source file, so edits show up without
// rebuilding.
func Assets(fromSource bool) http.FileSystem {
	if fromSource {
		return http.Dir(SourceDir())
	}

	subFS, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(subFS)
}

// SourceDir is the dist directory of the source tree this binary was built
// from.
func SourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("error getting path")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}
