// Package annotate builds point-of-interest annotations for geotagged listings:
// area classification, the nearest stop in each of two shuttle networks with
// walking time, driving time to the office and a reverse-geocoded address.
package annotate

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/geo"
)

// Config is the read-only geographic configuration of an Annotator.
type Config struct {
	Boxes         []geo.NamedBox
	NetworkA      geo.Network
	NetworkB      geo.Network
	Keywords      []string
	OfficeAddress string
}

// ConfigFromLayout builds a Config from a loaded layout. The layout's first
// network becomes NetworkA and the second NetworkB.
func ConfigFromLayout(l *geo.Layout, officeAddress string) Config {
	cfg := Config{
		Boxes:         l.Boxes,
		Keywords:      l.Neighborhoods,
		OfficeAddress: officeAddress,
	}
	if len(l.Networks) > 0 {
		cfg.NetworkA = l.Networks[0]
	}
	if len(l.Networks) > 1 {
		cfg.NetworkB = l.Networks[1]
	}
	return cfg
}

func (c Config) clone() Config {
	return Config{
		Boxes:         slices.Clone(c.Boxes),
		NetworkA:      geo.Network{Name: c.NetworkA.Name, Stops: slices.Clone(c.NetworkA.Stops)},
		NetworkB:      geo.Network{Name: c.NetworkB.Name, Stops: slices.Clone(c.NetworkB.Stops)},
		Keywords:      slices.Clone(c.Keywords),
		OfficeAddress: c.OfficeAddress,
	}
}

// Annotator assembles annotation records. It holds no mutable state and is
// safe for concurrent use when its Provider is.
type Annotator struct {
	cfg      Config
	resolver *Resolver
}

// New creates an Annotator. cfg is copied; later changes to the caller's
// slices do not affect the Annotator.
func New(cfg Config, provider Provider) *Annotator {
	return &Annotator{
		cfg:      cfg.clone(),
		resolver: NewResolver(provider),
	}
}

// Config returns a copy of the Annotator's configuration.
func (a *Annotator) Config() Config {
	return a.cfg.clone()
}

// Annotate produces the annotation record for a geotag and optional
// free-text location. It always returns a fully populated record; provider
// failures are replaced by sentinel values.
func (a *Annotator) Annotate(ctx context.Context, c geo.Coordinate, location string) *Record {
	rec := &Record{}

	rec.AreaFound, rec.Area = geo.ClassifyArea(c, location, a.cfg.Boxes, a.cfg.Keywords)

	rec.NetworkA = a.annotateStop(ctx, c, a.cfg.NetworkA)
	rec.NetworkB = a.annotateStop(ctx, c, a.cfg.NetworkB)

	rec.DriveTime = DurationOrUnknown(a.resolver.DrivingTime(ctx, c, a.cfg.OfficeAddress))
	rec.Address = AddressOrCoordinates(a.resolver.ReverseGeocode(ctx, c), c)

	zap.L().Debug("annotate: record assembled",
		zap.String("coord", c.String()),
		zap.String("area", rec.Area),
		zap.Bool("area_found", rec.AreaFound),
		zap.String("stop_a", rec.NetworkA.Stop),
		zap.String("stop_b", rec.NetworkB.Stop),
	)
	return rec
}

// annotateStop selects the nearest stop in n and resolves the walking time to
// that same stop. An empty network yields a not-found annotation without a
// provider call.
func (a *Annotator) annotateStop(ctx context.Context, c geo.Coordinate, n geo.Network) StopAnnotation {
	sa := StopAnnotation{Network: n.Name, WalkTime: UnknownDuration}

	match, err := geo.NearestStop(c, n)
	if err != nil {
		if errors.Is(err, geo.ErrEmptyNetwork) {
			zap.L().Debug("annotate: no stop available", zap.String("network", n.Name))
		}
		return sa
	}

	sa.Found = true
	sa.Stop = match.Stop.Name
	sa.DistanceKM = match.DistanceKM
	sa.WalkTime = DurationOrUnknown(a.resolver.WalkingTime(ctx, c, match.Stop.Coordinate))
	return sa
}
