// Package assets embeds a small MPLADS snapshot so the server can start
// without any external data.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed data/*.json
var dataFS embed.FS

// Data returns the embedded snapshot rooted at its data directory.
func Data() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
