package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Dialect selects the SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrNotFound is returned when a requested instance has no row.
var ErrNotFound = errors.New("store: instance not found")

// SQLStore implements Store on database/sql with sqlite or postgres behind it.
type SQLStore struct {
	dialect Dialect
	db      *sql.DB
}

// Open connects, pings, and applies migrations. For sqlite the DSN is a file
// path (parent directories are created); for postgres a connection URL.
func Open(dialect Dialect, dsn string) (*SQLStore, error) {
	var driverName string
	switch dialect {
	case DialectSQLite:
		driverName = "sqlite"
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	case DialectPostgres:
		driverName = "pgx"
		if strings.TrimSpace(dsn) == "" {
			return nil, errors.New("postgres dialect requires a DSN")
		}
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	s := &SQLStore{dialect: dialect, db: db}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logrus.Infof("store: opened %s database", dialect)
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// bind returns the placeholder for positional argument pos, dialect-adjusted.
func (s *SQLStore) bind(pos int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

func (s *SQLStore) applyMigrations(ctx context.Context) error {
	create := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan schema migration: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate schema migrations: %w", err)
	}
	rows.Close()

	pattern := fmt.Sprintf("migrations/%s/*.sql", s.dialect)
	files, err := fs.Glob(migrationFS, pattern)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		base := filepath.Base(file)
		if applied[base] {
			continue
		}
		body, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", base, err)
		}
		if _, err := s.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", base, err)
		}
		record := fmt.Sprintf(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (%s, %s)",
			s.bind(1), s.bind(2))
		if _, err := s.db.ExecContext(ctx, record, base, time.Now().UTC()); err != nil {
			return fmt.Errorf("record migration %s: %w", base, err)
		}
		logrus.Infof("store: applied migration %s", base)
	}
	return nil
}

func (s *SQLStore) UpsertInstance(ctx context.Context, rec InstanceRecord) error {
	ledgers, err := json.Marshal(rec.Ledgers)
	if err != nil {
		return fmt.Errorf("marshal ledgers for %s: %w", rec.ID, err)
	}
	query := fmt.Sprintf(`
		INSERT INTO instances (id, room_id, week, status, ledgers)
		VALUES (%s, %s, %s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
			room_id = excluded.room_id,
			week    = excluded.week,
			status  = excluded.status,
			ledgers = excluded.ledgers`,
		s.bind(1), s.bind(2), s.bind(3), s.bind(4), s.bind(5))
	if _, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.RoomID, rec.Week, rec.Status, string(ledgers)); err != nil {
		return fmt.Errorf("upsert instance %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLStore) GetInstance(ctx context.Context, id string) (InstanceRecord, error) {
	query := fmt.Sprintf(
		"SELECT id, room_id, week, status, ledgers FROM instances WHERE id = %s", s.bind(1))
	var rec InstanceRecord
	var ledgers string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.RoomID, &rec.Week, &rec.Status, &ledgers)
	if errors.Is(err, sql.ErrNoRows) {
		return InstanceRecord{}, ErrNotFound
	}
	if err != nil {
		return InstanceRecord{}, fmt.Errorf("get instance %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(ledgers), &rec.Ledgers); err != nil {
		return InstanceRecord{}, fmt.Errorf("unmarshal ledgers for %s: %w", id, err)
	}
	return rec, nil
}

// InstanceIDs lists every stored instance id in lexical order. Mainly an
// operator convenience for browsing what a database holds.
func (s *SQLStore) InstanceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM instances ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query instance ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan instance id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instance ids: %w", err)
	}
	return ids, nil
}

func (s *SQLStore) AppendTurns(ctx context.Context, turns []TurnRecord) error {
	if len(turns) == 0 {
		return nil
	}
	cols := []string{
		"instance_id", "role", "week",
		"order_received", "shipment_received", "shipment_sent", "order_placed",
		"inventory", "backorder", "week_cost", "total_cost",
	}
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = s.bind(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO turns (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(ph, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append turns: %w", err)
	}
	for _, t := range turns {
		if _, err := tx.ExecContext(ctx, query,
			t.InstanceID, t.Role, t.Week,
			t.OrderReceived, t.ShipmentReceived, t.ShipmentSent, t.OrderPlaced,
			t.Inventory, t.Backorder, t.WeekCost, t.CumulativeCost); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append turn %s/%s week %d: %w", t.InstanceID, t.Role, t.Week, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append turns: %w", err)
	}
	return nil
}

func (s *SQLStore) TurnsForInstance(ctx context.Context, instanceID string) ([]TurnRecord, error) {
	query := fmt.Sprintf(`
		SELECT instance_id, role, week,
		       order_received, shipment_received, shipment_sent, order_placed,
		       inventory, backorder, week_cost, total_cost
		FROM turns WHERE instance_id = %s ORDER BY week, role`, s.bind(1))
	rows, err := s.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("query turns for %s: %w", instanceID, err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		if err := rows.Scan(
			&t.InstanceID, &t.Role, &t.Week,
			&t.OrderReceived, &t.ShipmentReceived, &t.ShipmentSent, &t.OrderPlaced,
			&t.Inventory, &t.Backorder, &t.WeekCost, &t.CumulativeCost); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}
