package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/db"
	"github.com/sells-group/poi-cli/internal/listing"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db         *sql.DB
	upsertStmt string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	upsert, err := db.UpsertSQL(db.SQLite, upsertConfig)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn, upsertStmt: upsert}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS listings (
	listing_id TEXT PRIMARY KEY,
	listing    TEXT NOT NULL,
	record     TEXT NOT NULL,
	area       TEXT NOT NULL DEFAULT '',
	area_found INTEGER NOT NULL DEFAULT 0,
	posted     INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_listings_area ON listings(area);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Seen(ctx context.Context, listingID string) (bool, error) {
	var seen bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM listings WHERE listing_id = ?)`, listingID,
	).Scan(&seen)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: seen %s", listingID)
	}
	return seen, nil
}

func (s *SQLiteStore) Save(ctx context.Context, l listing.Listing, rec *annotate.Record) (*Entry, error) {
	listingJSON, recordJSON, err := encodeEntry(l, rec)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, s.upsertStmt,
		l.ID, string(listingJSON), string(recordJSON), rec.Area, rec.AreaFound, false, now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: save listing %s", l.ID)
	}
	return s.Get(ctx, l.ID)
}

func (s *SQLiteStore) MarkPosted(ctx context.Context, listingID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE listings SET posted = 1, updated_at = ? WHERE listing_id = ?`,
		time.Now().UTC(), listingID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark posted %s", listingID)
	}
	return checkRowsAffected(res, listingID)
}

func (s *SQLiteStore) Get(ctx context.Context, listingID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT listing, record, posted, created_at, updated_at FROM listings WHERE listing_id = ?`,
		listingID,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get %s", listingID)
	}
	return e, err
}

func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `SELECT listing, record, posted, created_at, updated_at FROM listings WHERE 1=1`
	var args []any

	if filter.Area != "" {
		query += ` AND area = ?`
		args = append(args, filter.Area)
	}
	query += ` ORDER BY created_at DESC, listing_id`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list listings")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list listings iterate")
}

func checkRowsAffected(res sql.Result, listingID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "listing %s", listingID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*Entry, error) {
	var e Entry
	var listingJSON, recordJSON string

	err := row.Scan(&listingJSON, &recordJSON, &e.Posted, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan listing")
	}
	if err := decodeEntry(&e, []byte(listingJSON), []byte(recordJSON)); err != nil {
		return nil, err
	}
	return &e, nil
}
