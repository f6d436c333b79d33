package fakedata

import (
	"bytes"
	"testing"

	"github.com/aukilabs/spatialmap/quakes"
	"github.com/stretchr/testify/require"
)

func TestQuakes(t *testing.T) {
	records := Quakes(2230, 100)
	require.Len(t, records, 100)
	require.Equal(t, records, Quakes(2230, 100))
	require.NotEqual(t, records, Quakes(2231, 100))

	for _, r := range records {
		require.NotEmpty(t, r.Country)
		require.NotEmpty(t, r.Year)
		require.NotEmpty(t, r.Magnitude)
		require.GreaterOrEqual(t, r.Latitude, -90.0)
		require.LessOrEqual(t, r.Latitude, 90.0)
		require.GreaterOrEqual(t, r.Longitude, -180.0)
		require.LessOrEqual(t, r.Longitude, 180.0)
	}
}

func TestWriteCSV(t *testing.T) {
	records := Quakes(42, 50)

	var b bytes.Buffer
	err := WriteCSV(&b, records)
	require.NoError(t, err)

	m := quakes.NewMap()
	summary, err := quakes.Load(&b, m)
	require.NoError(t, err)
	require.Equal(t, 50, summary.Rows)
	require.Zero(t, summary.Skipped)

	for _, r := range records {
		got, ok, err := m.Get(r.Coord())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, r.Latitude, got.Latitude)
		require.Equal(t, r.Longitude, got.Longitude)
	}
}

func TestNames(t *testing.T) {
	names := Names(2230, 1000)
	require.Len(t, names, 1000)
	require.Equal(t, names, Names(2230, 1000))

	for _, n := range names {
		require.Len(t, n.Value(), 5)
	}

	m, err := NamesMap(names)
	require.NoError(t, err)
	require.LessOrEqual(t, m.Len(), 1000)
	require.Greater(t, m.Len(), 990)

	pick := names[len(names)/2]
	name, ok, err := m.Get(pick.Key())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pick.Value(), name)
}
