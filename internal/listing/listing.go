// Package listing defines the listing record consumed by the annotator and
// reads listings exported by an upstream scraper.
package listing

import (
	"github.com/google/uuid"

	"github.com/sells-group/poi-cli/internal/geo"
)

// Listing is one scraped housing listing.
type Listing struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	URL    string          `json:"url"`
	Price  string          `json:"price"`
	Where  string          `json:"where"`
	Geotag *geo.Coordinate `json:"geotag,omitempty"`
}

// HasGeotag reports whether the listing carries coordinates.
func (l Listing) HasGeotag() bool {
	return l.Geotag != nil
}

// EnsureID assigns an ID when the source did not provide one. Listings with a
// URL get a stable name-based UUID so re-imports deduplicate.
func (l *Listing) EnsureID() {
	if l.ID != "" {
		return
	}
	if l.URL != "" {
		l.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(l.URL)).String()
		return
	}
	l.ID = uuid.New().String()
}
