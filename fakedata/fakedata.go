// Package fakedata generates deterministic synthetic datasets.
package fakedata

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/spatialmap/quakes"
	"github.com/aukilabs/spatialmap/spatial"
	"github.com/brianvoe/gofakeit/v6"
)

// Quakes returns n random earthquake records. The same seed always returns
// the same records.
func Quakes(seed int64, n int) []quakes.Record {
	faker := gofakeit.New(seed)

	records := make([]quakes.Record, n)
	for i := range records {
		records[i] = quakes.Record{
			Year:      strconv.Itoa(faker.Year()),
			Country:   faker.Country(),
			Magnitude: strconv.FormatFloat(faker.Float64Range(2, 9.5), 'f', 1, 64),
			Latitude:  faker.Latitude(),
			Longitude: faker.Longitude(),
		}
	}
	return records
}

// WriteCSV writes records to w in the format read by quakes.Load.
func WriteCSV(w io.Writer, records []quakes.Record) error {
	cw := csv.NewWriter(w)

	err := cw.Write([]string{
		quakes.ColumnYear,
		quakes.ColumnMagnitude,
		quakes.ColumnCountry,
		quakes.ColumnLatitude,
		quakes.ColumnLongitude,
	})
	if err != nil {
		return errors.New("writing csv header failed").Wrap(err)
	}

	for _, r := range records {
		err := cw.Write([]string{
			r.Year,
			r.Magnitude,
			r.Country,
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		})
		if err != nil {
			return errors.New("writing csv record failed").Wrap(err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Name is a random 5 letter name at a random integer coordinate.
type Name = spatial.Entry[int, int, string]

// Names returns n random names scattered over the whole int32 plane.
func Names(seed int64, n int) []Name {
	faker := gofakeit.New(seed)

	names := make([]Name, n)
	for i := range names {
		names[i] = spatial.NewEntry(
			spatial.C(int(faker.Int32()), int(faker.Int32())),
			faker.LetterN(5),
		)
	}
	return names
}

// NamesMap returns a map holding the given names. The value of the last name
// wins when several share a coordinate.
func NamesMap(names []Name) (*spatial.Map[int, int, string], error) {
	m := spatial.New[int, int, string]()
	for _, n := range names {
		if _, _, err := m.Put(n.Key(), n.Value()); err != nil {
			return nil, err
		}
	}
	return m, nil
}
