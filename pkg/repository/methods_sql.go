package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	querySchema = `CREATE TABLE IF NOT EXISTS cache_entries (
					   cache_key TEXT PRIMARY KEY,
					   payload   TEXT NOT NULL,
					   stored_at TIMESTAMP NOT NULL
				   )`

	queryUpsert = `INSERT INTO cache_entries (cache_key, payload, stored_at)
				   VALUES (?, ?, ?)
				   ON CONFLICT (cache_key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`

	queryGetByKey = `SELECT payload FROM cache_entries WHERE cache_key = ?`

	queryDeleteAll = `DELETE FROM cache_entries`
)

func migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, querySchema)
	return err
}

// SQLCache keeps entries in the cache_entries table. Queries are written with
// '?' placeholders and rebound for the driver in use.
type SQLCache struct {
	db *sqlx.DB
}

func NewSQLCache(db *sqlx.DB) *SQLCache {
	return &SQLCache{db}
}

func (r *SQLCache) Get(ctx context.Context, key string) ([]byte, bool, error) {

	var payload string
	err := r.db.GetContext(ctx, &payload, r.db.Rebind(queryGetByKey), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(payload), true, nil
}

func (r *SQLCache) Set(ctx context.Context, key string, value []byte) error {

	_, err := r.db.ExecContext(ctx, r.db.Rebind(queryUpsert), key, string(value), time.Now().UTC())
	return err
}

func (r *SQLCache) Clear(ctx context.Context) error {

	_, err := r.db.ExecContext(ctx, queryDeleteAll)
	return err
}
