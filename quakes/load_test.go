package quakes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testCSV = `I_D,FLAG_TSUNAMI,YEAR,MONTH,DAY,EQ_PRIMARY,COUNTRY,LOCATION_NAME,LATITUDE,LONGITUDE
1,,-2150,,,7.3,JORDAN,JORDAN:  BAB-A-DARAA,31.1,35.5
3,,-2000,,,,SYRIA,SYRIA:  UGARIT,35.683,35.8
2,Tsu,-2000,,,,TURKMENISTAN,TURKMENISTAN:  W,38,58.2
5877,Tsu,-1610,,,,GREECE,GREECE:  THERA ISLAND (SANTORINI),36.4,25.4
8,,-1566,,,,ISRAEL,ISRAEL:  ARIHA (JERICHO),31.5,35.3
11,,-1450,,,,ITALY,"ITALY:  LACUS CIMINI, ROME",,
12,,-1365,,,,SYRIA,SYRIA:  UGARIT,  35.683  , 35.8
13,,-1250,,,6.5,ISRAEL,ISRAEL:  ARIHA (JERICHO),31.5x,35.3
10076,,2017,10,10,5.2,INDIA,INDIA:  ASSAM,26.374,90.165
`

func TestLoad(t *testing.T) {
	t.Run("records are keyed by longitude and latitude", func(t *testing.T) {
		m := NewMap()
		summary, err := Load(strings.NewReader(testCSV), m)
		require.NoError(t, err)
		require.Equal(t, Summary{
			Rows:     9,
			Inserted: 6,
			Replaced: 1,
			Skipped:  2,
		}, summary)
		require.Equal(t, 6, m.Len())

		rec, ok, err := m.Get(GPSCoord(31.5, 35.3))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, Record{
			Year:      "-1566",
			Country:   "ISRAEL",
			Latitude:  31.5,
			Longitude: 35.3,
		}, rec)

		rec, ok, err = m.Get(GPSCoord(26.374, 90.165))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "In the year 2017, INDIA had a magnitude 5.2 quake", Report(rec))
	})

	t.Run("surrounding spaces are ignored and duplicates replace", func(t *testing.T) {
		m := NewMap()
		_, err := Load(strings.NewReader(testCSV), m)
		require.NoError(t, err)

		rec, ok, err := m.Get(GPSCoord(35.683, 35.8))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "-1365", rec.Year)
	})

	t.Run("optional columns can be missing", func(t *testing.T) {
		m := NewMap()
		summary, err := Load(strings.NewReader("longitude,latitude\n10,20\n-10,-20\n"), m)
		require.NoError(t, err)
		require.Equal(t, 2, summary.Inserted)

		rec, ok, err := m.Get(GPSCoord(20, 10))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, Record{Latitude: 20, Longitude: 10}, rec)
	})

	t.Run("nan positions are skipped", func(t *testing.T) {
		m := NewMap()
		summary, err := Load(strings.NewReader("LATITUDE,LONGITUDE\nNaN,1\n1,1\n"), m)
		require.NoError(t, err)
		require.Equal(t, Summary{Rows: 2, Inserted: 1, Skipped: 1}, summary)
		require.Equal(t, 1, m.Len())
	})

	t.Run("missing position column returns an error", func(t *testing.T) {
		for _, data := range []string{
			"YEAR,LATITUDE\n2000,10\n",
			"YEAR,LONGITUDE\n2000,10\n",
			"",
		} {
			_, err := Load(strings.NewReader(data), NewMap())
			require.Error(t, err)
			require.Equal(t, ErrTypeMissingColumn, errors.Type(err))
		}
	})

	t.Run("malformed csv returns an error", func(t *testing.T) {
		m := NewMap()
		_, err := Load(strings.NewReader("LATITUDE,LONGITUDE\n1,2\n\"3,4\n"), m)
		require.Error(t, err)
		require.Equal(t, 1, m.Len())
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earthquakes.csv")
	err := os.WriteFile(path, []byte(testCSV), 0o600)
	require.NoError(t, err)

	m := NewMap()
	summary, err := LoadFile(path, m)
	require.NoError(t, err)
	require.Equal(t, 6, summary.Inserted)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), m)
	require.Error(t, err)
}

func TestAdd(t *testing.T) {
	m := NewMap()
	summary, err := Add(m,
		Record{Country: "JAPAN", Latitude: 35.6, Longitude: 139.7},
		Record{Country: "JAPAN", Latitude: 35.6, Longitude: 139.7, Year: "2011"},
		Record{Country: "CHILE", Latitude: -33.4, Longitude: -70.6},
	)
	require.NoError(t, err)
	require.Equal(t, Summary{Rows: 3, Inserted: 2, Replaced: 1}, summary)

	rec, ok, err := m.Get(GPSCoord(35.6, 139.7))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2011", rec.Year)
}
