// Package migrations embeds the goose SQL migrations for report export.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
