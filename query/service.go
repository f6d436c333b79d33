// Package query runs point and range queries over earthquake records.
package query

import (
	"io"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/spatialmap/featureflag"
	"github.com/aukilabs/spatialmap/quakes"
	"github.com/aukilabs/spatialmap/spatial"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	ErrTypeRangeDivergence = "range_divergence"
	ErrTypeUnknownRegion   = "unknown_region"
)

const (
	pointQuery  = "point"
	rangeQuery  = "range"
	regionQuery = "region"

	treeStrategy   = "tree"
	linearStrategy = "linear"
)

// Exploration describes how a range query strategy went.
type Exploration struct {
	Explored int           `json:"explored"`
	Found    int           `json:"found"`
	Took     time.Duration `json:"took"`
}

type RangeResult struct {
	NW      quakes.Coord    `json:"-"`
	SE      quakes.Coord    `json:"-"`
	Records []quakes.Record `json:"records"`
	Tree    Exploration     `json:"tree"`

	// Linear is nil when range verification is disabled.
	Linear *Exploration `json:"linear,omitempty"`
	Cached bool         `json:"cached"`
}

type rect struct {
	nw quakes.Coord
	se quakes.Coord
}

// Service answers queries over a loaded earthquake map. The map must not be
// modified once given to a Service.
type Service struct {
	quakes *quakes.Map
	flags  featureflag.FeatureFlag
	cache  *lru.Cache[rect, RangeResult]
}

// NewService returns a service querying m. Range results are cached when
// cacheSize is positive.
func NewService(m *quakes.Map, flags featureflag.FeatureFlag, cacheSize int) (*Service, error) {
	s := &Service{
		quakes: m,
		flags:  flags,
	}

	if cacheSize > 0 {
		cache, err := lru.New[rect, RangeResult](cacheSize)
		if err != nil {
			return nil, errors.New("creating range cache failed").
				WithTag("size", cacheSize).
				Wrap(err)
		}
		s.cache = cache
	}
	return s, nil
}

// Point returns the record located exactly at the given GPS position.
func (s *Service) Point(lat, lon float64) (quakes.Record, bool, error) {
	defer instrumentQuery(pointQuery, time.Now())

	rec, ok, err := s.quakes.Get(quakes.GPSCoord(lat, lon))
	if err != nil {
		instrumentQueryError(pointQuery, err)
		return quakes.Record{}, false, err
	}
	return rec, ok, nil
}

// Range returns the records located in the rectangle spanned by the nw and se
// corners. The records come from a tree-pruned search and are cross-checked
// against a linear scan unless range verification is disabled.
func (s *Service) Range(nw, se quakes.Coord) (RangeResult, error) {
	defer instrumentQuery(rangeQuery, time.Now())

	res, err := s.subMap(nw, se)
	if err != nil {
		instrumentQueryError(rangeQuery, err)
	}
	return res, err
}

// Region runs a range query over the named region.
func (s *Service) Region(name string) (quakes.Region, RangeResult, error) {
	defer instrumentQuery(regionQuery, time.Now())

	r, ok := quakes.FindRegion(name)
	if !ok {
		err := errors.New("unknown region").
			WithType(ErrTypeUnknownRegion).
			WithTag("region", name)
		instrumentQueryError(regionQuery, err)
		return r, RangeResult{}, err
	}

	res, err := s.subMap(r.NW, r.SE)
	if err != nil {
		instrumentQueryError(regionQuery, err)
		return r, RangeResult{}, err
	}
	return r, res, nil
}

func (s *Service) subMap(nw, se quakes.Coord) (RangeResult, error) {
	key := rect{nw: nw, se: se}
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			instrumentCache(true)
			res.Cached = true
			return res, nil
		}
		instrumentCache(false)
	}

	res := RangeResult{NW: nw, SE: se}

	var explored spatial.Counter
	start := time.Now()
	entries, err := s.quakes.SubMap(nw, se, spatial.Chain(
		spatial.CountVisits[float64, float64, quakes.Record](&explored),
		spatial.LogVisits[float64, float64, quakes.Record](),
	))
	if err != nil {
		return RangeResult{}, err
	}
	res.Tree = Exploration{
		Explored: explored.Count(),
		Found:    len(entries),
		Took:     time.Since(start),
	}
	instrumentExploration(treeStrategy, res.Tree)

	res.Records = make([]quakes.Record, len(entries))
	for i, e := range entries {
		res.Records[i] = e.Value()
	}

	var verifyErr error
	s.flags.IfNotSet(featureflag.FlagDisableRangeVerification, func() {
		var linear *Exploration
		linear, verifyErr = s.verify(nw, se, entries)
		res.Linear = linear
	})
	if verifyErr != nil {
		return RangeResult{}, verifyErr
	}

	if s.cache != nil {
		s.cache.Add(key, res)
	}
	return res, nil
}

// verify runs a linear scan over the map and checks that it finds the same
// entries as found.
func (s *Service) verify(nw, se quakes.Coord, found []spatial.Entry[float64, float64, quakes.Record]) (*Exploration, error) {
	var explored spatial.Counter
	start := time.Now()
	entries, err := s.quakes.SubMapLinear(nw, se, spatial.CountVisits[float64, float64, quakes.Record](&explored))
	if err != nil {
		return nil, err
	}

	linear := &Exploration{
		Explored: explored.Count(),
		Found:    len(entries),
		Took:     time.Since(start),
	}
	instrumentExploration(linearStrategy, *linear)

	if !sameKeys(found, entries) {
		err := errors.New("linear and tree range queries returned different results").
			WithType(ErrTypeRangeDivergence).
			WithTag("nw", nw.String()).
			WithTag("se", se.String()).
			WithTag("tree_found", len(found)).
			WithTag("linear_found", len(entries))
		logs.WithTag("query", rangeQuery).Error(err)
		instrumentDivergence()
		return linear, err
	}
	return linear, nil
}

func sameKeys[X, Y comparable, V any](a, b []spatial.Entry[X, Y, V]) bool {
	if len(a) != len(b) {
		return false
	}

	keys := make(map[spatial.Coord[X, Y]]struct{}, len(a))
	for _, e := range a {
		keys[e.Key()] = struct{}{}
	}
	for _, e := range b {
		if _, ok := keys[e.Key()]; !ok {
			return false
		}
	}
	return len(keys) == len(a)
}

// Len returns the number of indexed records.
func (s *Service) Len() int {
	return s.quakes.Len()
}

func (s *Service) Stats() spatial.DebugInfo {
	return s.quakes.DebugInfo()
}

// Dump writes the structure of the underlying tree to w.
func (s *Service) Dump(w io.Writer) error {
	return s.quakes.Dump(w)
}
