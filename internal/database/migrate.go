package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// Statements splits an SQL script into individual statements.  Scripts must
// not contain semicolons inside literals.
func Statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate creates missing tables and seeds the default time slots and the
// restaurant profile row.  Every statement is idempotent so it is safe to
// run on each deploy.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Statements(schemaSQL) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}
	return nil
}
