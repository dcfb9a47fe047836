package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/pkg/maps"
)

// UnknownDuration replaces a travel time that could not be resolved.
const UnknownDuration = "Unknown"

// Provider operation names used in ProviderError.Op.
const (
	OpWalkingTime    = "walking_time"
	OpDrivingTime    = "driving_time"
	OpReverseGeocode = "reverse_geocode"
)

var errNoProvider = eris.New("annotate: no provider configured")

// Provider is the external routing and geocoding service. maps.Client satisfies it.
type Provider interface {
	WalkingTime(ctx context.Context, lat, lon, destLat, destLon float64) (*maps.TravelTime, error)
	DrivingTime(ctx context.Context, lat, lon float64, destination string) (*maps.TravelTime, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ProviderError records a failed provider call.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("annotate: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one provider call: a value or a ProviderError.
type Result[T any] struct {
	Value T
	Err   *ProviderError
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Or returns the value, or fallback when the call failed.
func (r Result[T]) Or(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// DurationOrUnknown maps a travel-time result to its text or UnknownDuration.
func DurationOrUnknown(r Result[string]) string {
	return r.Or(UnknownDuration)
}

// AddressOrCoordinates maps a reverse-geocode result to its address or the
// "lat,lon" rendering of c.
func AddressOrCoordinates(r Result[string], c geo.Coordinate) string {
	return r.Or(c.String())
}

// Resolver issues the three provider lookups. Every call returns a Result;
// failures, including provider panics, never escape as errors.
type Resolver struct {
	provider Provider
}

// NewResolver creates a Resolver. A nil provider makes every call fail.
func NewResolver(p Provider) *Resolver {
	return &Resolver{provider: p}
}

// WalkingTime resolves the walking time from origin to dest.
func (r *Resolver) WalkingTime(ctx context.Context, origin, dest geo.Coordinate) Result[string] {
	return resolve(ctx, OpWalkingTime, origin, func(ctx context.Context) (string, error) {
		if r.provider == nil {
			return "", errNoProvider
		}
		tt, err := r.provider.WalkingTime(ctx, origin.Lat, origin.Lon, dest.Lat, dest.Lon)
		return travelText(tt, err)
	})
}

// DrivingTime resolves the driving time from origin to a destination address.
func (r *Resolver) DrivingTime(ctx context.Context, origin geo.Coordinate, address string) Result[string] {
	return resolve(ctx, OpDrivingTime, origin, func(ctx context.Context) (string, error) {
		if r.provider == nil {
			return "", errNoProvider
		}
		tt, err := r.provider.DrivingTime(ctx, origin.Lat, origin.Lon, address)
		return travelText(tt, err)
	})
}

// ReverseGeocode resolves the street address of c.
func (r *Resolver) ReverseGeocode(ctx context.Context, c geo.Coordinate) Result[string] {
	return resolve(ctx, OpReverseGeocode, c, func(ctx context.Context) (string, error) {
		if r.provider == nil {
			return "", errNoProvider
		}
		addr, err := r.provider.ReverseGeocode(ctx, c.Lat, c.Lon)
		if err == nil && addr == "" {
			return "", eris.New("annotate: empty address")
		}
		return addr, err
	})
}

func resolve[T any](ctx context.Context, op string, at geo.Coordinate, fn func(context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: &ProviderError{Op: op, Err: eris.Errorf("panic: %v", p)}}
		}
		if res.Err != nil {
			zap.L().Warn("annotate: provider call failed",
				zap.String("op", op),
				zap.Float64("lat", at.Lat),
				zap.Float64("lon", at.Lon),
				zap.Error(res.Err.Err),
			)
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return Result[T]{Err: &ProviderError{Op: op, Err: err}}
	}
	return Result[T]{Value: v}
}

func travelText(tt *maps.TravelTime, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if tt == nil {
		return "", eris.New("annotate: empty travel time")
	}
	if tt.Text != "" {
		return tt.Text, nil
	}
	return formatMinutes(tt.Duration), nil
}

func formatMinutes(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", mins)
}
