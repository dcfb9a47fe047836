// Package geo provides the spatial primitives used to annotate listings:
// great-circle distance, named bounding boxes, keyword area classification
// and nearest-stop selection over ordered stop networks.
package geo

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// ErrInvalidCoordinate is returned by Validate for non-finite or out-of-range values.
var ErrInvalidCoordinate = eris.New("geo: invalid coordinate")

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// NewCoordinate builds a Coordinate from a lat/lon pair.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// DistanceTo returns the great-circle distance to other in kilometers.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return Distance(c.Lat, c.Lon, other.Lat, other.Lon)
}

// String formats the coordinate as "lat,lon" with six decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

// Validate reports whether the coordinate is finite and within the valid
// degree ranges. Distance and box functions never call it; callers at the
// input boundary do.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return eris.Wrapf(ErrInvalidCoordinate, "latitude %v", c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return eris.Wrapf(ErrInvalidCoordinate, "longitude %v", c.Lon)
	}
	return nil
}
