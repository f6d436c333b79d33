// Package quakes loads historical earthquake records into a spatial map keyed
// by their GPS coordinates.
package quakes

import (
	"fmt"

	"github.com/aukilabs/spatialmap/spatial"
)

// Map indexes earthquake records by (longitude, latitude).
type Map = spatial.Map[float64, float64, Record]

// Coord is a (longitude, latitude) key.
type Coord = spatial.Coord[float64, float64]

// Record is an earthquake as found in the NOAA significant earthquake
// database. Descriptive fields are kept as they appear in the data, they are
// often empty.
type Record struct {
	Year      string  `json:"year,omitempty"`
	Country   string  `json:"country,omitempty"`
	Magnitude string  `json:"magnitude,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coord returns the key the record is indexed with.
func (r Record) Coord() Coord {
	return GPSCoord(r.Latitude, r.Longitude)
}

func NewMap() *Map {
	return spatial.New[float64, float64, Record]()
}

// GPSCoord returns the map key of a GPS position. X is the longitude and Y the
// latitude so that the NW, NE, SW and SE quadrants match geography.
func GPSCoord(lat, lon float64) Coord {
	return spatial.C(lon, lat)
}

// Report returns a one line description of r.
func Report(r Record) string {
	return fmt.Sprintf("In the year %s, %s had a magnitude %s quake", r.Year, r.Country, r.Magnitude)
}
