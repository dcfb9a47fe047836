package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/db"
	"github.com/sells-group/poi-cli/internal/listing"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var postgresUpsert = mustUpsertSQL(db.Postgres)

func mustUpsertSQL(d db.Dialect) string {
	q, err := db.UpsertSQL(d, upsertConfig)
	if err != nil {
		panic(err)
	}
	return q
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS listings (
	listing_id TEXT PRIMARY KEY,
	listing    JSONB NOT NULL,
	record     JSONB NOT NULL,
	area       TEXT NOT NULL DEFAULT '',
	area_found BOOLEAN NOT NULL DEFAULT false,
	posted     BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_listings_area ON listings(area);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Seen(ctx context.Context, listingID string) (bool, error) {
	var seen bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM listings WHERE listing_id = $1)`, listingID,
	).Scan(&seen)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: seen %s", listingID)
	}
	return seen, nil
}

func (s *PostgresStore) Save(ctx context.Context, l listing.Listing, rec *annotate.Record) (*Entry, error) {
	listingJSON, recordJSON, err := encodeEntry(l, rec)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	_, err = s.pool.Exec(ctx, postgresUpsert,
		l.ID, listingJSON, recordJSON, rec.Area, rec.AreaFound, false, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: save listing %s", l.ID)
	}
	return s.Get(ctx, l.ID)
}

func (s *PostgresStore) MarkPosted(ctx context.Context, listingID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE listings SET posted = true, updated_at = $1 WHERE listing_id = $2`,
		time.Now().UTC(), listingID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark posted %s", listingID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "listing %s", listingID)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, listingID string) (*Entry, error) {
	var e Entry
	var listingJSON, recordJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT listing, record, posted, created_at, updated_at FROM listings WHERE listing_id = $1`,
		listingID,
	).Scan(&listingJSON, &recordJSON, &e.Posted, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get %s", listingID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get %s", listingID)
	}
	if err := decodeEntry(&e, listingJSON, recordJSON); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `SELECT listing, record, posted, created_at, updated_at FROM listings WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Area != "" {
		query += fmt.Sprintf(` AND area = $%d`, argIdx)
		args = append(args, filter.Area)
		argIdx++
	}
	query += ` ORDER BY created_at DESC, listing_id`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list listings")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var listingJSON, recordJSON []byte
		if err := rows.Scan(&listingJSON, &recordJSON, &e.Posted, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing")
		}
		if err := decodeEntry(&e, listingJSON, recordJSON); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list listings iterate")
}
