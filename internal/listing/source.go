package listing

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/poi-cli/internal/geo"
)

// Column names recognised in CSV and XLSX exports.
var columns = []string{"id", "name", "url", "price", "where", "lat", "lon"}

// Load reads listings from a .json, .csv or .xlsx file. Every returned
// listing has an ID.
func Load(path string) ([]Listing, error) {
	var (
		listings []Listing
		err      error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		listings, err = readJSON(path)
	case ".csv":
		listings, err = readCSV(path)
	case ".xlsx":
		listings, err = readXLSX(path)
	default:
		return nil, eris.Errorf("listing: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	for i := range listings {
		listings[i].EnsureID()
	}
	return listings, nil
}

func readJSON(path string) ([]Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "listing: read json")
	}
	var listings []Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, eris.Wrap(err, "listing: parse json")
	}
	return listings, nil
}

func readCSV(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "listing: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "listing: read csv")
	}
	return fromRows(records)
}

func readXLSX(path string) ([]Listing, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "listing: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("listing: xlsx has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return fromRows(rows)
}

// fromRows converts a header row plus data rows into listings. Rows whose
// lat/lon cells are both present and numeric get a geotag.
func fromRows(rows [][]string) ([]Listing, error) {
	if len(rows) < 1 {
		return nil, eris.New("listing: file has no header row")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"url", "lat", "lon"} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("listing: missing required column %q (expected %s)", col, strings.Join(columns, ","))
		}
	}

	var listings []Listing
	for _, row := range rows[1:] {
		l := Listing{
			ID:    getCol(row, colIdx, "id"),
			Name:  getCol(row, colIdx, "name"),
			URL:   getCol(row, colIdx, "url"),
			Price: getCol(row, colIdx, "price"),
			Where: getCol(row, colIdx, "where"),
		}
		if l.URL == "" && l.Name == "" {
			continue
		}

		lat, latErr := strconv.ParseFloat(getCol(row, colIdx, "lat"), 64)
		lon, lonErr := strconv.ParseFloat(getCol(row, colIdx, "lon"), 64)
		if latErr == nil && lonErr == nil {
			c := geo.NewCoordinate(lat, lon)
			l.Geotag = &c
		}

		listings = append(listings, l)
	}
	return listings, nil
}

func getCol(row []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
