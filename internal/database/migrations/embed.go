// Package migrations embeds the SQL migration files so the server and the
// integration tests can apply them through goose without a filesystem path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
