package annotate

// StopAnnotation describes the nearest stop of one network.
type StopAnnotation struct {
	Network    string  `json:"network"`
	Stop       string  `json:"stop"`
	Found      bool    `json:"found"`
	DistanceKM float64 `json:"dist_km"`
	WalkTime   string  `json:"walk_time"`
}

// Record is the annotation produced for a single listing.
type Record struct {
	AreaFound bool           `json:"area_found"`
	Area      string         `json:"area"`
	NetworkA  StopAnnotation `json:"network_a"`
	NetworkB  StopAnnotation `json:"network_b"`
	DriveTime string         `json:"drive_time"`
	Address   string         `json:"address"`
}
