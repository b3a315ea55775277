// Package migrations embeds the goose SQL migrations for the challenge store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
