package geo

import "github.com/rotisserie/eris"

// ErrEmptyNetwork is returned when nearest-stop selection runs on a network without stops.
var ErrEmptyNetwork = eris.New("geo: stop network is empty")

// Stop is a named shuttle stop.
type Stop struct {
	Name       string     `json:"name" yaml:"name"`
	Coordinate Coordinate `json:"coordinate" yaml:"coordinate"`
}

// Network is one shuttle system. Stops keep their configured order, which
// decides ties during selection.
type Network struct {
	Name  string `json:"name" yaml:"name"`
	Stops []Stop `json:"stops" yaml:"stops"`
}

// StopMatch is the result of a nearest-stop selection.
type StopMatch struct {
	Stop       Stop
	DistanceKM float64
}

// NearestStop returns the stop in n closest to c. On exact ties the first
// stop in network order is kept.
func NearestStop(c Coordinate, n Network) (StopMatch, error) {
	if len(n.Stops) == 0 {
		return StopMatch{}, eris.Wrapf(ErrEmptyNetwork, "network %q", n.Name)
	}

	best := StopMatch{Stop: n.Stops[0], DistanceKM: c.DistanceTo(n.Stops[0].Coordinate)}
	for _, s := range n.Stops[1:] {
		d := c.DistanceTo(s.Coordinate)
		if d < best.DistanceKM {
			best = StopMatch{Stop: s, DistanceKM: d}
		}
	}
	return best, nil
}

// Lookup returns the stop with the given name.
func (n Network) Lookup(name string) (Stop, bool) {
	for _, s := range n.Stops {
		if s.Name == name {
			return s, true
		}
	}
	return Stop{}, false
}
