// Package schema embeds the JSON schema for mission catalog files
package schema

import "embed"

// FS holds missions.schema.json
//
//go:embed *.schema.json
var FS embed.FS
