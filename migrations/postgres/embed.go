// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS contiene las migraciones {version}_{name}.sql.
//
//go:embed *.sql
var FS embed.FS

// Dir is the root of FS where migrations live.
const Dir = "."
