package geo

// Box is a rectangular region given by two corners. Longitudes follow the
// configured layout: BottomLeft holds the larger longitude bound and
// TopRight the smaller one.
type Box struct {
	BottomLeft Coordinate `json:"bottom_left" yaml:"bottom_left"`
	TopRight   Coordinate `json:"top_right" yaml:"top_right"`
}

// NamedBox pairs an area name with its bounding box.
type NamedBox struct {
	Name string `json:"name" yaml:"name"`
	Box  Box    `json:"box" yaml:"box"`
}

// InBox reports whether c lies strictly inside b. Points on an edge are outside.
func InBox(c Coordinate, b Box) bool {
	return b.BottomLeft.Lat < c.Lat && c.Lat < b.TopRight.Lat &&
		b.TopRight.Lon < c.Lon && c.Lon < b.BottomLeft.Lon
}

// Contains is InBox with the box as receiver.
func (b Box) Contains(c Coordinate) bool {
	return InBox(c, b)
}

// BoxFromBounds encodes a min/max rectangle in the Box corner convention.
func BoxFromBounds(minLat, minLon, maxLat, maxLon float64) Box {
	return Box{
		BottomLeft: Coordinate{Lat: minLat, Lon: maxLon},
		TopRight:   Coordinate{Lat: maxLat, Lon: minLon},
	}
}
