package history

import (
	"context"
	"fmt"
)

// CreateSchema creates the draw table. Safe to call multiple times.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range []string{schemaDraw, schemaDrawIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// drawn_at is unix milliseconds so both drivers store it the same way.
const schemaDraw = `
CREATE TABLE IF NOT EXISTS draw (
    id TEXT PRIMARY KEY,
    ticket_number TEXT NOT NULL,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    participants INTEGER NOT NULL,
    swapped BOOLEAN NOT NULL DEFAULT FALSE,
    drawn_at BIGINT NOT NULL
)`

const schemaDrawIndex = `CREATE INDEX IF NOT EXISTS idx_draw_drawn_at ON draw(drawn_at)`
