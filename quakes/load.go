package quakes

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialmap/spatial"
)

const (
	ErrTypeMissingColumn = "missing_column"
)

const (
	ColumnLatitude  = "LATITUDE"
	ColumnLongitude = "LONGITUDE"
	ColumnYear      = "YEAR"
	ColumnCountry   = "COUNTRY"
	ColumnMagnitude = "EQ_PRIMARY"
)

// Summary describes the outcome of loading records into a map.
type Summary struct {
	Rows     int `json:"rows"`
	Inserted int `json:"inserted"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

type columns struct {
	lat       int
	lon       int
	year      int
	country   int
	magnitude int
}

func readHeader(header []string) (columns, error) {
	cols := columns{lat: -1, lon: -1, year: -1, country: -1, magnitude: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case ColumnLatitude:
			cols.lat = i
		case ColumnLongitude:
			cols.lon = i
		case ColumnYear:
			cols.year = i
		case ColumnCountry:
			cols.country = i
		case ColumnMagnitude:
			cols.magnitude = i
		}
	}

	for name, i := range map[string]int{
		ColumnLatitude:  cols.lat,
		ColumnLongitude: cols.lon,
	} {
		if i < 0 {
			return cols, errors.New("missing csv column").
				WithType(ErrTypeMissingColumn).
				WithTag("column", name)
		}
	}
	return cols, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseCoord(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Load reads CSV earthquake records from r into m. The first row is a header
// that must name the LATITUDE and LONGITUDE columns, YEAR, COUNTRY and
// EQ_PRIMARY are read when present. Rows with a missing or unparsable
// position are skipped. A record sharing its position with a previous one
// replaces it.
func Load(r io.Reader, m *Map) (Summary, error) {
	var summary Summary

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return summary, errors.New("empty csv").
			WithType(ErrTypeMissingColumn).
			WithTag("column", ColumnLatitude)
	}
	if err != nil {
		return summary, errors.New("reading csv header failed").Wrap(err)
	}

	cols, err := readHeader(header)
	if err != nil {
		return summary, err
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, errors.New("reading csv row failed").
				WithTag("row", summary.Rows+1).
				Wrap(err)
		}
		summary.Rows++

		lat, okLat := parseCoord(field(row, cols.lat))
		lon, okLon := parseCoord(field(row, cols.lon))
		if !okLat || !okLon {
			summary.Skipped++
			continue
		}

		rec := Record{
			Year:      field(row, cols.year),
			Country:   field(row, cols.country),
			Magnitude: field(row, cols.magnitude),
			Latitude:  lat,
			Longitude: lon,
		}
		if err := summary.add(m, rec); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// LoadFile loads the CSV file at path into m.
func LoadFile(path string, m *Map) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, errors.New("opening earthquake data failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	s, err := Load(f, m)
	if err != nil {
		return s, errors.New("loading earthquake data failed").
			WithTag("path", path).
			Wrap(err)
	}
	return s, nil
}

// Add puts records into m.
func Add(m *Map, records ...Record) (Summary, error) {
	var summary Summary
	for _, rec := range records {
		summary.Rows++
		if err := summary.add(m, rec); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *Summary) add(m *Map, rec Record) error {
	_, replaced, err := m.Put(rec.Coord(), rec)
	switch {
	case errors.IsType(err, spatial.ErrTypeInvalidKey):
		logs.WithTag("latitude", rec.Latitude).
			WithTag("longitude", rec.Longitude).
			Debug("skipping record with invalid position")
		s.Skipped++

	case err != nil:
		return err

	case replaced:
		s.Replaced++

	default:
		s.Inserted++
	}
	return nil
}
