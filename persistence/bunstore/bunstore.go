// Package bunstore persists the session record in an on-device SQLite
// database through Bun. One row per storage namespace holds the JSON-shaped
// record; writes are synchronous so a Load issued after a Save in the same
// process always observes the written record.
package bunstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-session"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DefaultNamespace keys the record when the host does not configure one.
const DefaultNamespace = "session"

const opTimeout = 5 * time.Second

// SessionRecord is the stored row.
type SessionRecord struct {
	bun.BaseModel `bun:"table:session_records,alias:sr"`

	Namespace string    `bun:"namespace,pk" json:"namespace"`
	Payload   []byte    `bun:"payload,notnull" json:"payload"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// Store implements session.Persistence over a Bun database.
type Store struct {
	db        *bun.DB
	namespace string
	ownsDB    bool
}

// Open creates a store over an SQLite database at the given path, creating
// the schema when needed. Use ":memory:" for a throwaway store.
func Open(path, namespace string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("bunstore: unable to open database: %w", err)
	}

	// every pooled connection to a plain :memory: path would get its own
	// database, so pin the pool to a single connection
	if strings.Contains(path, ":memory:") {
		sqldb.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store, err := NewStore(db, namespace)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.ownsDB = true

	return store, nil
}

// NewStore creates a store over an existing Bun database, creating the
// schema when needed. The caller keeps ownership of the database handle.
func NewStore(db *bun.DB, namespace string) (*Store, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("bunstore: unable to create schema: %w", err)
	}

	return &Store{
		db:        db,
		namespace: namespace,
	}, nil
}

// Load implements session.Persistence. A missing row is (nil, nil); a row
// whose payload does not decode is reported as an error for the session
// store to log and discard.
func (s *Store) Load() (*session.PersistedRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := &SessionRecord{}
	err := s.db.NewSelect().
		Model(row).
		Where("namespace = ?", s.namespace).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bunstore: unable to load record: %w", err)
	}

	var record session.PersistedRecord
	if err := json.Unmarshal(row.Payload, &record); err != nil {
		return nil, fmt.Errorf("bunstore: unrecognized record payload: %w", err)
	}

	return &record, nil
}

// Save implements session.Persistence.
func (s *Store) Save(record session.PersistedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("bunstore: unable to encode record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := &SessionRecord{
		Namespace: s.namespace,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}

	if _, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (namespace) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: unable to save record: %w", err)
	}

	return nil
}

// Clear implements session.Persistence. Clearing an absent record is not an
// error.
func (s *Store) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("namespace = ?", s.namespace).
		Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: unable to clear record: %w", err)
	}

	return nil
}

// Close releases the database handle when the store opened it itself.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

var _ session.Persistence = (*Store)(nil)
