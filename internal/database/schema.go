package database

import _ "embed"

// Schema is the current schema, generated from the migrations. Tests apply it
// directly to skip the migration machinery.
//
//go:embed schema.sql
var Schema string
