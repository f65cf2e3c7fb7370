// Package migrations holds the versioned schema for the lexrag SQLite store:
// document records with their cached summaries, and per-document index blobs.
package migrations

import "embed"

// FS holds NNN_name.up.sql and NNN_name.down.sql pairs, applied in order.
//
//go:embed *.sql
var FS embed.FS
