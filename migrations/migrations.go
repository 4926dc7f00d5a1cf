// Package migrations embeds the versioned postgres schema so the server and
// the migrate command run the same files without a path on disk.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
