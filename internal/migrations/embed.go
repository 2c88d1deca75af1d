// Package migrations holds the versioned SQL schema for the postgres backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
