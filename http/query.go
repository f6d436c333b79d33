package http

import (
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialmap/featureflag"
	"github.com/aukilabs/spatialmap/quakes"
	"github.com/aukilabs/spatialmap/query"
	"github.com/google/uuid"
)

type gpsResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func gps(c quakes.Coord) gpsResponse {
	return gpsResponse{Lat: c.Y, Lon: c.X}
}

type pointResponse struct {
	Found  bool           `json:"found"`
	Record *quakes.Record `json:"record,omitempty"`
	Report string         `json:"report,omitempty"`
}

type explorationResponse struct {
	Explored int     `json:"explored"`
	Found    int     `json:"found"`
	TookMS   float64 `json:"took_ms"`
}

func exploration(e query.Exploration) explorationResponse {
	return explorationResponse{
		Explored: e.Explored,
		Found:    e.Found,
		TookMS:   float64(e.Took) / float64(time.Millisecond),
	}
}

type rangeResponse struct {
	ID      string               `json:"id"`
	Region  string               `json:"region,omitempty"`
	NW      gpsResponse          `json:"nw"`
	SE      gpsResponse          `json:"se"`
	Found   int                  `json:"found"`
	Records []quakes.Record      `json:"records"`
	Tree    explorationResponse  `json:"tree"`
	Linear  *explorationResponse `json:"linear,omitempty"`
	Cached  bool                 `json:"cached"`
}

func newRangeResponse(region string, res query.RangeResult) rangeResponse {
	resp := rangeResponse{
		ID:      uuid.NewString(),
		Region:  region,
		NW:      gps(res.NW),
		SE:      gps(res.SE),
		Found:   len(res.Records),
		Records: res.Records,
		Tree:    exploration(res.Tree),
		Cached:  res.Cached,
	}
	if resp.Records == nil {
		resp.Records = []quakes.Record{}
	}
	if res.Linear != nil {
		linear := exploration(*res.Linear)
		resp.Linear = &linear
	}

	logs.WithTag("query_id", resp.ID).
		WithTag("region", region).
		WithTag("found", resp.Found).
		WithTag("tree_explored", resp.Tree.Explored).
		WithTag("cached", resp.Cached).
		Debug("range query")
	return resp
}

type regionResponse struct {
	Name string      `json:"name"`
	Slug string      `json:"slug"`
	NW   gpsResponse `json:"nw"`
	SE   gpsResponse `json:"se"`
}

// HandlePoint returns the earthquake recorded at the lat and lon query
// parameters.
func HandlePoint(s *query.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, err := floatParam(r, "lat")
		if err != nil {
			writeError(w, err)
			return
		}
		lon, err := floatParam(r, "lon")
		if err != nil {
			writeError(w, err)
			return
		}

		rec, ok, err := s.Point(lat, lon)
		if err != nil {
			writeError(w, err)
			return
		}

		var resp pointResponse
		if ok {
			resp = pointResponse{
				Found:  true,
				Record: &rec,
				Report: quakes.Report(rec),
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleRange returns the earthquakes recorded in the rectangle spanned by
// the nw_lat, nw_lon, se_lat and se_lon query parameters.
func HandleRange(s *query.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var corners [4]float64
		for i, name := range []string{"nw_lat", "nw_lon", "se_lat", "se_lon"} {
			v, err := floatParam(r, name)
			if err != nil {
				writeError(w, err)
				return
			}
			corners[i] = v
		}

		res, err := s.Range(
			quakes.GPSCoord(corners[0], corners[1]),
			quakes.GPSCoord(corners[2], corners[3]),
		)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newRangeResponse("", res))
	}
}

func HandleRegions(w http.ResponseWriter, r *http.Request) {
	regions := make([]regionResponse, len(quakes.Regions))
	for i, reg := range quakes.Regions {
		regions[i] = regionResponse{
			Name: reg.Name,
			Slug: reg.Slug(),
			NW:   gps(reg.NW),
			SE:   gps(reg.SE),
		}
	}
	writeJSON(w, http.StatusOK, regions)
}

// HandleRegion returns the earthquakes recorded in the region named by the
// name path value.
func HandleRegion(s *query.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, res, err := s.Region(r.PathValue("name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newRangeResponse(reg.Name, res))
	}
}

func HandleStats(s *query.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Stats())
	}
}

// HandleDump writes the structure of the quake tree as text. It responds
// with 404 when the debug dump is disabled.
func HandleDump(s *query.Service, flags featureflag.FeatureFlag) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flags.IsSet(featureflag.FlagDisableDebugDump) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := s.Dump(w); err != nil {
			logs.Warn(err)
		}
	}
}
