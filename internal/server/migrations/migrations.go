// Package migrations embeds the goose schema migrations for the server
// store, one directory per supported backend.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
