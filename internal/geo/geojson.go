package geo

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Polygon returns the box as a closed lon/lat ring.
func (b Box) Polygon() *geom.Polygon {
	minLon := math.Min(b.BottomLeft.Lon, b.TopRight.Lon)
	maxLon := math.Max(b.BottomLeft.Lon, b.TopRight.Lon)
	minLat := math.Min(b.BottomLeft.Lat, b.TopRight.Lat)
	maxLat := math.Max(b.BottomLeft.Lat, b.TopRight.Lat)

	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}).SetSRID(4326)
}

// Point returns the coordinate as a lon/lat point.
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat}).SetSRID(4326)
}

// FeatureCollection renders the layout's boxes and stops as GeoJSON features.
func (l *Layout) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for _, nb := range l.Boxes {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       nb.Name,
			Geometry: nb.Box.Polygon(),
			Properties: map[string]any{
				"kind": "area",
				"name": nb.Name,
			},
		})
	}
	for _, n := range l.Networks {
		for _, s := range n.Stops {
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       n.Name + "/" + s.Name,
				Geometry: s.Coordinate.Point(),
				Properties: map[string]any{
					"kind":    "stop",
					"network": n.Name,
					"name":    s.Name,
				},
			})
		}
	}
	return fc
}
