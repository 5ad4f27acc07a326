// Package snapshotrepo manages the storage backends holding ledger snapshots.
package snapshotrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/munkhbat-e/pocket-ledger/internal/domain"
	"github.com/munkhbat-e/pocket-ledger/pkg/dbpkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/errorspkg"
)

// RepoPGS stores snapshot blobs in a Postgres key-value table. It is the
// primary backend and may be entirely absent when no database is configured.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns snapshot RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const getQuery = `
SELECT value FROM snapshots WHERE key = $1
`

// Get returns the snapshot blob stored under key.
func (r *RepoPGS) Get(ctx context.Context, key string) (string, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrSnapshotNotFound
		}

		l.Error().Err(err).Msgf("Get(ctx, %v)", key)

		return "", errorspkg.ErrInternal
	}

	return value, nil
}

const setQuery = `
INSERT INTO
    snapshots (key, value, updated_at)
VALUES
    ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

// Set upserts the snapshot blob under key. Last write wins.
func (r *RepoPGS) Set(ctx context.Context, key, value string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, setQuery, key, value); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			l.Error().Err(err).Msgf("Set(ctx, %v): pq code %v", key, pqErr.Code)
		} else {
			l.Error().Err(err).Msgf("Set(ctx, %v)", key)
		}

		return errorspkg.ErrInternal
	}

	return nil
}
