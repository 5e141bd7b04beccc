// Package migrations embeds the SQL migrations of the PostgreSQL document store.
package migrations

import "embed"

// FS holds the *.up.sql files applied at startup.
//
//go:embed *.sql
var FS embed.FS
