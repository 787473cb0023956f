// Package migrations embeds the SQL schema for the media service.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
