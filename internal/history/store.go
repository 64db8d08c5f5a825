// Package history persists drawn winners in SQLite or PostgreSQL.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"raffle-spinner.klederson.com/internal/spin"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Draw is one recorded winner.
type Draw struct {
	ID           uuid.UUID
	TicketNumber string
	FirstName    string
	LastName     string
	Participants int
	Swapped      bool
	DrawnAt      time.Time
}

// FromResult converts a finished spin into a Draw.
func FromResult(r spin.Result) Draw {
	return Draw{
		ID:           r.ID,
		TicketNumber: r.Winner.TicketNumber,
		FirstName:    r.Winner.FirstName,
		LastName:     r.Winner.LastName,
		Participants: r.Participants,
		Swapped:      r.Swapped,
		DrawnAt:      r.FinishedAt,
	}
}

// Name returns the winner's display name.
func (d Draw) Name() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Store is a draw history backed by database/sql.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to dsn with the given driver ("sqlite" or "postgres") and
// verifies the connection. An empty driver means sqlite.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every connection to ":memory:" is its own database, and SQLite
		// allows one writer anyway.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", driver, err)
	}
	return &Store{db: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a draw. A zero ID is replaced with a new one.
func (s *Store) Record(ctx context.Context, d Draw) (Draw, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DrawnAt.IsZero() {
		d.DrawnAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO draw (id, ticket_number, first_name, last_name, participants, swapped, drawn_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		d.ID.String(), d.TicketNumber, d.FirstName, d.LastName, d.Participants, d.Swapped, d.DrawnAt.UnixMilli(),
	)
	if err != nil {
		return d, fmt.Errorf("failed to record draw: %w", err)
	}
	return d, nil
}

// Recent returns up to limit draws, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Draw, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, ticket_number, first_name, last_name, participants, swapped, drawn_at
		FROM draw
		ORDER BY drawn_at DESC, id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var draws []Draw
	for rows.Next() {
		var (
			d      Draw
			id     string
			millis int64
		)
		if err := rows.Scan(&id, &d.TicketNumber, &d.FirstName, &d.LastName, &d.Participants, &d.Swapped, &millis); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad draw id %q: %w", id, err)
		}
		d.DrawnAt = time.UnixMilli(millis)
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// Count returns how many draws are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draw`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return n, nil
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
