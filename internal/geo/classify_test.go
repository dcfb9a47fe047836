package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// soma follows the layout convention: BottomLeft carries the larger longitude.
var soma = Box{
	BottomLeft: Coordinate{Lat: 37.77, Lon: -122.40},
	TopRight:   Coordinate{Lat: 37.79, Lon: -122.43},
}

func TestInBox(t *testing.T) {
	tests := []struct {
		name     string
		coord    Coordinate
		expected bool
	}{
		{"inside", Coordinate{37.7749, -122.4194}, true},
		{"on south edge", Coordinate{37.77, -122.41}, false},
		{"on north edge", Coordinate{37.79, -122.41}, false},
		{"on east edge", Coordinate{37.78, -122.40}, false},
		{"on west edge", Coordinate{37.78, -122.43}, false},
		{"on corner", Coordinate{37.77, -122.40}, false},
		{"north of box", Coordinate{37.80, -122.41}, false},
		{"west of box", Coordinate{37.78, -122.44}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InBox(tt.coord, soma))
			assert.Equal(t, tt.expected, soma.Contains(tt.coord))
		})
	}
}

func TestInBox_ConventionalEncodingDoesNotMatch(t *testing.T) {
	// A min-lon/max-lon rectangle is not the layout convention and never matches.
	conventional := Box{
		BottomLeft: Coordinate{Lat: 37.77, Lon: -122.43},
		TopRight:   Coordinate{Lat: 37.79, Lon: -122.40},
	}
	assert.False(t, InBox(Coordinate{37.7749, -122.4194}, conventional))
}

func TestBoxFromBounds(t *testing.T) {
	b := BoxFromBounds(37.77, -122.43, 37.79, -122.40)
	assert.Equal(t, soma, b)
	assert.True(t, b.Contains(Coordinate{37.7749, -122.4194}))
}

func TestClassifyArea(t *testing.T) {
	mission := BoxFromBounds(37.74, -122.43, 37.77, -122.40)
	// overlaps soma in its south-east corner
	overlap := BoxFromBounds(37.772, -122.42, 37.776, -122.41)

	keywords := []string{"mission", "soma", "bernal"}

	tests := []struct {
		name      string
		coord     Coordinate
		location  string
		boxes     []NamedBox
		wantFound bool
		wantArea  string
	}{
		{
			name:      "box match",
			coord:     Coordinate{37.7749, -122.4194},
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: true,
			wantArea:  "SOMA",
		},
		{
			name:      "box wins over keyword",
			coord:     Coordinate{37.7749, -122.4194},
			location:  "Bernal Heights",
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: true,
			wantArea:  "SOMA",
		},
		{
			name:      "box wins even when listed after non-matching boxes",
			coord:     Coordinate{37.7749, -122.4194},
			location:  "mission district",
			boxes:     []NamedBox{{"mission", mission}, {"SOMA", soma}},
			wantFound: true,
			wantArea:  "SOMA",
		},
		{
			name:      "last overlapping box wins",
			coord:     Coordinate{37.774, -122.415},
			boxes:     []NamedBox{{"SOMA", soma}, {"overlap", overlap}},
			wantFound: true,
			wantArea:  "overlap",
		},
		{
			name:      "last overlapping box wins reversed",
			coord:     Coordinate{37.774, -122.415},
			boxes:     []NamedBox{{"overlap", overlap}, {"SOMA", soma}},
			wantFound: true,
			wantArea:  "SOMA",
		},
		{
			name:      "keyword fallback lower-cases text",
			coord:     Coordinate{37.9, -122.0},
			location:  "Bernal HEIGHTS",
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: false,
			wantArea:  "bernal",
		},
		{
			name:      "first configured keyword wins",
			coord:     Coordinate{37.9, -122.0},
			location:  "SOMA / Mission border",
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: false,
			wantArea:  "mission",
		},
		{
			name:      "no box and no keyword",
			coord:     Coordinate{37.9, -122.0},
			location:  "Walnut Creek",
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: false,
			wantArea:  "",
		},
		{
			name:      "empty location skips keywords",
			coord:     Coordinate{37.9, -122.0},
			location:  "",
			boxes:     []NamedBox{{"SOMA", soma}},
			wantFound: false,
			wantArea:  "",
		},
		{
			name:      "no boxes configured",
			coord:     Coordinate{37.7749, -122.4194},
			location:  "soma loft",
			wantFound: false,
			wantArea:  "soma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, area := ClassifyArea(tt.coord, tt.location, tt.boxes, keywords)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantArea, area)
		})
	}
}

func TestMatchKeyword(t *testing.T) {
	assert.Equal(t, "oakland", MatchKeyword("North OAKLAND", []string{"berkeley", "oakland"}))
	assert.Equal(t, "", MatchKeyword("anywhere", nil))
	assert.Equal(t, "", MatchKeyword("anywhere", []string{""}))
}

func TestMatchKeyword_MixedCaseKeywords(t *testing.T) {
	assert.Equal(t, "mission", MatchKeyword("inner mission district", []string{"Mission"}))
	assert.Equal(t, "noe valley", MatchKeyword("NOE VALLEY", []string{"Bernal", "Noe Valley"}))

	found, area := ClassifyArea(Coordinate{Lat: 0, Lon: 0}, "the Mission", nil, []string{"MISSION"})
	assert.False(t, found)
	assert.Equal(t, "mission", area)
}
