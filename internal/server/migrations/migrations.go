// Package migrations embeds the PostgreSQL schema of the document service.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
