// Package data provides the embedded sample characters used by the CLI.
package data

import "embed"

// dataFS embeds all JSON files from the data directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing sample data.
func FS() embed.FS {
	return dataFS
}
