// Package migrations carries the forward-only SQL files the database layer
// applies at startup.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
