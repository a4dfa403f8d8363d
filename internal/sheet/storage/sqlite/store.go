// Package sqlite provides a SQLite-backed sheet storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/kisheet/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/kisheet/internal/sheet/storage"
	"github.com/louisbranch/kisheet/internal/sheet/storage/sqlite/migrations"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const tracerName = "github.com/louisbranch/kisheet/internal/sheet/storage/sqlite"

// Store persists sheet state and slots in SQLite.
type Store struct {
	sqlDB  *sql.DB
	tracer trace.Tracer
	now    func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite sheet store and applies embedded migrations. Parent
// directories of path are not created.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{
		sqlDB:  sqlDB,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "sqlite"), attribute.String("db.operation", op))
	return s.tracer.Start(ctx, "sqlite."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// LoadState returns the saved current state.
func (s *Store) LoadState(ctx context.Context) (payload []byte, err error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "load_state")
	defer func() { finish(span, err) }()

	row := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM sheet_state WHERE id = 1`)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	return payload, nil
}

// SaveState replaces the saved current state.
func (s *Store) SaveState(ctx context.Context, payload []byte) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	ctx, span := s.start(ctx, "save_state", attribute.Int("payload.bytes", len(payload)))
	defer func() { finish(span, err) }()

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sheet_state (id, payload, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		payload,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// PutSlot inserts or replaces one slot.
func (s *Store) PutSlot(ctx context.Context, slot storage.Slot) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(slot.ID)
	if id == "" {
		return fmt.Errorf("slot id is required")
	}
	ctx, span := s.start(ctx, "put_slot", attribute.String("slot.id", id))
	defer func() { finish(span, err) }()

	createdAt := slot.CreatedAt.UTC()
	updatedAt := slot.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = s.now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO character_slots (id, name, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		id,
		slot.Name,
		slot.Payload,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put slot: %w", err)
	}
	return nil
}

// GetSlot returns one slot by ID.
func (s *Store) GetSlot(ctx context.Context, id string) (slot storage.Slot, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.Slot{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Slot{}, fmt.Errorf("slot id is required")
	}
	ctx, span := s.start(ctx, "get_slot", attribute.String("slot.id", id))
	defer func() { finish(span, err) }()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, payload, created_at, updated_at
		   FROM character_slots
		  WHERE id = ?`,
		id,
	)
	slot, err = scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Slot{}, storage.ErrNotFound
		}
		return storage.Slot{}, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

// ListSlots returns every slot, most recently updated first.
func (s *Store) ListSlots(ctx context.Context) (slots []storage.Slot, err error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "list_slots")
	defer func() { finish(span, err) }()

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, payload, created_at, updated_at
		   FROM character_slots
		  ORDER BY updated_at DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots = []storage.Slot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	span.SetAttributes(attribute.Int("slot.count", len(slots)))
	return slots, nil
}

// DeleteSlot removes one slot.
func (s *Store) DeleteSlot(ctx context.Context, id string) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("slot id is required")
	}
	ctx, span := s.start(ctx, "delete_slot", attribute.String("slot.id", id))
	defer func() { finish(span, err) }()

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM character_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (storage.Slot, error) {
	var slot storage.Slot
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&slot.ID, &slot.Name, &slot.Payload, &createdAt, &updatedAt); err != nil {
		return storage.Slot{}, err
	}
	slot.CreatedAt = fromMillis(createdAt)
	slot.UpdatedAt = fromMillis(updatedAt)
	return slot, nil
}

var (
	_ storage.StateStore = (*Store)(nil)
	_ storage.SlotStore  = (*Store)(nil)
)
