// Package store persists annotated listings so batch runs can skip listings
// they have already handled.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/db"
	"github.com/sells-group/poi-cli/internal/listing"
)

// ErrNotFound is returned by Get when no entry exists for a listing.
var ErrNotFound = eris.New("store: listing not found")

// Entry is a persisted listing together with its annotation.
type Entry struct {
	Listing   listing.Listing `json:"listing"`
	Record    annotate.Record `json:"record"`
	Posted    bool            `json:"posted"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Filter specifies criteria for listing entries.
type Filter struct {
	Area   string `json:"area,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for annotated listings.
type Store interface {
	Seen(ctx context.Context, listingID string) (bool, error)
	Save(ctx context.Context, l listing.Listing, rec *annotate.Record) (*Entry, error)
	MarkPosted(ctx context.Context, listingID string) error
	Get(ctx context.Context, listingID string) (*Entry, error)
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store selected by driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(ctx, dsn, poolCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}

const defaultListLimit = 100

var listingColumns = []string{"listing_id", "listing", "record", "area", "area_found", "posted", "created_at", "updated_at"}

// upsertConfig never overwrites posted or created_at so re-saving a listing
// keeps its history.
var upsertConfig = db.UpsertConfig{
	Table:        "listings",
	Columns:      listingColumns,
	ConflictKeys: []string{"listing_id"},
	UpdateCols:   []string{"listing", "record", "area", "area_found", "updated_at"},
}

func encodeEntry(l listing.Listing, rec *annotate.Record) (listingJSON, recordJSON []byte, err error) {
	if rec == nil {
		return nil, nil, eris.New("store: nil record")
	}
	listingJSON, err = json.Marshal(l)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal listing")
	}
	recordJSON, err = json.Marshal(rec)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal record")
	}
	return listingJSON, recordJSON, nil
}

func decodeEntry(e *Entry, listingJSON, recordJSON []byte) error {
	if err := json.Unmarshal(listingJSON, &e.Listing); err != nil {
		return eris.Wrap(err, "store: unmarshal listing")
	}
	if err := json.Unmarshal(recordJSON, &e.Record); err != nil {
		return eris.Wrap(err, "store: unmarshal record")
	}
	return nil
}
