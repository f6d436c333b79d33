package quakes

import "strings"

// Region is a named rectangle of the globe.
type Region struct {
	Name string
	NW   Coord
	SE   Coord
}

// Slug returns the lower case, dash separated name of r.
func (r Region) Slug() string {
	return strings.ReplaceAll(strings.ToLower(r.Name), " ", "-")
}

// Regions are bounding boxes roughly covering well known areas.
var Regions = []Region{
	{
		Name: "USA",
		NW:   GPSCoord(47.88, -127.73),
		SE:   GPSCoord(21.14, -71.16),
	},
	{
		Name: "Italy",
		NW:   GPSCoord(46.381044, 3.993234),
		SE:   GPSCoord(35.536696, 20.509447),
	},
	{
		Name: "Japan",
		NW:   GPSCoord(45.217357, 127.434924),
		SE:   GPSCoord(31.590234, 145.924457),
	},
	{
		Name: "Iowa",
		NW:   GPSCoord(43.360882, -96.585850),
		SE:   GPSCoord(40.316970, -90.084788),
	},
	{
		Name: "Los Angeles",
		NW:   GPSCoord(34.617316, -119.269167),
		SE:   GPSCoord(33.360284, -117.017954),
	},
}

// FindRegion returns the region whose name or slug matches name, ignoring
// case.
func FindRegion(name string) (Region, bool) {
	for _, r := range Regions {
		if strings.EqualFold(r.Name, name) || strings.EqualFold(r.Slug(), name) {
			return r, true
		}
	}
	return Region{}, false
}
