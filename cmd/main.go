package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/spatialmap/fakedata"
	"github.com/aukilabs/spatialmap/featureflag"
	smhttp "github.com/aukilabs/spatialmap/http"
	"github.com/aukilabs/spatialmap/quakes"
	"github.com/aukilabs/spatialmap/query"
	"github.com/aukilabs/spatialmap/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	_ "go.uber.org/automaxprocs"
)

var (
	// The spatialmap version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "spatialmap_info",
		Help:        "Spatialmap information.",
		ConstLabels: prometheus.Labels{"version": version},
	})

	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spatialmap_entries",
		Help: "The number of indexed earthquakes.",
	})

	heightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spatialmap_tree_height",
		Help: "The height of the earthquake tree.",
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr            string        `cli:""        env:"SPATIALMAP_ADDR"             help:"Listening address for queries."`
	AdminAddr       string        `cli:""        env:"SPATIALMAP_ADMIN_ADDR"       help:"Admin listening address."`
	DataFile        string        `cli:""        env:"SPATIALMAP_DATA_FILE"        help:"CSV file of earthquakes to index. Synthetic earthquakes are generated when empty."`
	SyntheticQuakes int           `cli:""        env:"SPATIALMAP_SYNTHETIC_QUAKES" help:"The number of synthetic earthquakes generated when no data file is given."`
	RandomPoints    int           `cli:""        env:"SPATIALMAP_RANDOM_POINTS"    help:"The number of random names inserted in a throwaway map to report its shape at startup. Disabled when 0."`
	Seed            int64         `cli:""        env:"SPATIALMAP_SEED"             help:"Seed of the synthetic data generators."`
	CacheSize       int           `cli:""        env:"SPATIALMAP_CACHE_SIZE"       help:"The number of range query results kept in cache. Disabled when 0."`
	LogLevel        string        `cli:""        env:"SPATIALMAP_LOG_LEVEL"        help:"Log level (debug|info|warning|error)."`
	LogIndent       bool          `cli:""        env:"SPATIALMAP_LOG_INDENT"       help:"Indent logs."`
	ShutdownTimeout time.Duration `cli:",hidden" env:"SPATIALMAP_SHUTDOWN_TIMEOUT" help:"The time given to in-flight requests to complete on shutdown."`
	Events          eventsConfig  `cli:",hidden" env:"-"                           help:"Event pusher configuration."`
	FeatureFlags    []string      `cli:",hidden" env:"SPATIALMAP_FEATURE_FLAGS"    help:"Comma separated feature flags"`
	Version         bool          `cli:""        env:"-"                           help:"Show version."`
	Help            bool          `cli:""        env:"-"                           help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"SPATIALMAP_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed. Disabled when empty."`
	FlushInterval time.Duration `cli:",hidden" env:"SPATIALMAP_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"SPATIALMAP_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"SPATIALMAP_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:            ":4000",
		AdminAddr:       ":18190",
		SyntheticQuakes: 5000,
		Seed:            2230,
		CacheSize:       256,
		LogLevel:        logs.InfoLevel.String(),
		ShutdownTimeout: time.Second * 10,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the spatialmap earthquake query server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "spatialmap",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)
	if unknown := flags.Unknown(); len(unknown) != 0 {
		logs.WithTag("flags", unknown).Warn("unknown feature flags")
	}

	var service atomic.Pointer[query.Service]
	getService := func() *query.Service {
		return service.Load()
	}
	readinessCheck := func() bool {
		return getService() != nil
	}

	go func() {
		s, err := loadService(conf, flags)
		if err != nil {
			logs.Fatal(err)
		}
		service.Store(s)
		logs.WithTag("entries", s.Len()).Info("earthquakes are ready to be queried")
	}()

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", smhttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	admin.HandleFunc("/ready", smhttp.HandleReadyCheck(readinessCheck))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("data_file", conf.DataFile).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting spatialmap server")

	smhttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		&http.Server{
			Addr: conf.Addr,
			Handler: metrics.HTTPHandler(smhttp.NewServiceHandler(smhttp.ServiceOptions{
				Version:      version,
				FeatureFlags: flags,
				Service:      getService,
			}), smhttp.MetricsPathFormatter),
		},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func validateConfig(conf config) error {
	if conf.DataFile == "" && conf.SyntheticQuakes <= 0 {
		return errors.New("have to specify either a data file or a positive number of synthetic earthquakes")
	}

	if conf.RandomPoints < 0 {
		return errors.New("the number of random points cannot be negative").
			WithTag("random_points", conf.RandomPoints)
	}

	if conf.CacheSize < 0 {
		return errors.New("the cache size cannot be negative").
			WithTag("cache_size", conf.CacheSize)
	}

	return nil
}

// loadService indexes the earthquakes and reports the shape of the resulting
// tree along with a few sample queries.
func loadService(conf config, flags featureflag.FeatureFlag) (*query.Service, error) {
	start := time.Now()
	m := quakes.NewMap()

	var summary quakes.Summary
	var err error
	if conf.DataFile != "" {
		summary, err = quakes.LoadFile(conf.DataFile, m)
	} else {
		summary, err = quakes.Add(m, fakedata.Quakes(conf.Seed, conf.SyntheticQuakes)...)
	}
	if err != nil {
		return nil, err
	}

	info := m.DebugInfo()
	entriesGauge.Set(float64(info.Entries))
	heightGauge.Set(float64(info.Height))

	logs.WithTag("rows", summary.Rows).
		WithTag("inserted", summary.Inserted).
		WithTag("replaced", summary.Replaced).
		WithTag("skipped", summary.Skipped).
		WithTag("size", info.Entries).
		WithTag("height", info.Height).
		WithTag("min_height", info.MinHeight).
		WithTag("took", time.Since(start).String()).
		Info("earthquakes loaded")

	s, err := query.NewService(m, flags, conf.CacheSize)
	if err != nil {
		return nil, err
	}

	reportSamplePoints(s)
	reportRegions(s)

	if conf.RandomPoints > 0 {
		if err := reportRandomPoints(conf.Seed, conf.RandomPoints); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func reportSamplePoints(s *query.Service) {
	for _, c := range []quakes.Coord{
		quakes.GPSCoord(31.5, 35.3),
		quakes.GPSCoord(26.374, 90.165),
	} {
		rec, ok, err := s.Point(c.Y, c.X)
		if err != nil {
			logs.Warn(err)
			continue
		}
		if !ok {
			logs.WithTag("coord", c.String()).Debug("no earthquake at sample point")
			continue
		}
		logs.WithTag("coord", c.String()).Info(quakes.Report(rec))
	}
}

func reportRegions(s *query.Service) {
	for _, r := range quakes.Regions {
		_, res, err := s.Region(r.Slug())
		if err != nil {
			logs.Warn(errors.New("region report failed").
				WithTag("region", r.Name).
				Wrap(err))
			continue
		}

		entry := logs.WithTag("region", r.Name).
			WithTag("size", s.Len()).
			WithTag("tree_explored", res.Tree.Explored).
			WithTag("tree_found", res.Tree.Found).
			WithTag("tree_took", res.Tree.Took.String())
		if res.Linear != nil {
			entry = entry.
				WithTag("linear_explored", res.Linear.Explored).
				WithTag("linear_found", res.Linear.Found).
				WithTag("linear_took", res.Linear.Took.String())
		}
		entry.Info("earthquakes in region")

		for _, rec := range res.Records {
			logs.WithTag("region", r.Name).Debug(quakes.Report(rec))
		}
	}
}

// reportRandomPoints inserts n random names in a map and reports whether one
// of them can be found again and how balanced the tree is.
func reportRandomPoints(seed int64, n int) error {
	names := fakedata.Names(seed, n)
	m, err := fakedata.NamesMap(names)
	if err != nil {
		return err
	}

	pick := names[len(names)/2]
	name, ok, err := m.Get(pick.Key())
	if err != nil {
		return err
	}

	logs.WithTag("coord", pick.Key().String()).
		WithTag("name", pick.Value()).
		WithTag("found", ok).
		WithTag("found_name", name).
		WithTag("size", m.Len()).
		WithTag("expected_size", n).
		WithTag("height", m.Height()).
		WithTag("min_height", spatial.MinHeight(m.Len())).
		Info("random points inserted")
	return nil
}
