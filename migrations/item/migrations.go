// Package item embeds the goose migrations for the item tables.
package item

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
