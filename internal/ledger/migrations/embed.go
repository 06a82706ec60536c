// Package migrations embeds the ledger schema so goose can apply it at
// server start and in integration tests.
package migrations

import "embed"

// FS holds all *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
