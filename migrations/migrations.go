// Package migrations embeds the SQL migrations so the binary and the tests
// apply the same schema without depending on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
