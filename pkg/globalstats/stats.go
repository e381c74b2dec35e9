// Package globalstats keeps per-source counters of data-quality findings
// (unexpected columns, missing columns, dropped rows) and flushes them to a
// stats handler in the background.
package globalstats

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/events/v2"
	"github.com/segmentio/stats/v4"

	"github.com/covidactnow/datapublic/pkg/utils"
)

const (
	statsPrefix    = "datapublic.global"
	defaultAppName = "unknown"
	// beyond this many distinct (name, source) pairs new counters are
	// dropped and counted in dropped-stats
	maxCounters = 10000
)

type (
	Config struct {
		Version      string
		AppName      string // set this to your app name
		StatsHandler stats.Handler
		FlushEvery   time.Duration
		SamplePct    float64
	}

	counterKey struct {
		name   string
		source string
	}
)

var (
	engine      *stats.Engine
	samplePct   float64
	mut         sync.Mutex
	counters    map[counterKey]int64
	dropped     int64
	stopFlusher context.CancelFunc
)

// Observe records a sampled value, e.g. rows per source.
func Observe(name string, value interface{}, tags ...stats.Tag) {
	mut.Lock()
	e := engine
	mut.Unlock()
	if e == nil {
		return
	}
	if rand.Float64() > samplePct {
		return
	}
	e.Observe(name, value, tags...)
}

// Incr counts one occurrence of name for source. Counts are aggregated and
// sent on the next flush.
func Incr(name, source string) {
	mut.Lock()
	defer mut.Unlock()
	if engine == nil {
		return
	}
	key := counterKey{name: name, source: source}
	if _, ok := counters[key]; !ok && len(counters) >= maxCounters {
		dropped++
		return
	}
	counters[key]++
}

// Disable turns off all globalstats behavior.  Calls to Observe and Incr will
// effectively be no-ops.
func Disable() {
	mut.Lock()
	defer mut.Unlock()

	if stopFlusher != nil {
		stopFlusher()
		stopFlusher = nil
	}
	engine = nil
	counters = nil
}

// Initialize globalstats behavior.
func Initialize(ctx context.Context, config Config) {
	mut.Lock()
	defer mut.Unlock()

	if stopFlusher != nil {
		// stop any goroutines from a previous Initialize
		stopFlusher()
		stopFlusher = nil
	}
	if config.AppName == "" {
		config.AppName = defaultAppName
	}
	if config.Version == "" {
		config.Version = "unknown"
	}
	if config.SamplePct <= 0 || config.SamplePct > 1 {
		// by default only sample 10% of the observations
		config.SamplePct = 0.10
	}
	samplePct = config.SamplePct
	counters = make(map[counterKey]int64)
	dropped = 0

	e, err := buildEngine(config)
	if err != nil {
		events.Log("Could not initialize global stats: %{error}s", err)
		engine = nil
		return
	}
	engine = e
	flushEvery := 10 * time.Second
	if config.FlushEvery > 0 {
		flushEvery = config.FlushEvery
	}
	ctx, stopFlusher = context.WithCancel(ctx)
	go utils.CtxLoop(ctx, flushEvery, true, func() { flush(e) })
}

// Flush sends the aggregated counters now.
func Flush() {
	mut.Lock()
	e := engine
	mut.Unlock()
	if e != nil {
		flush(e)
	}
}

func flush(e *stats.Engine) {
	mut.Lock()
	pending := counters
	droppedCount := dropped
	counters = make(map[counterKey]int64)
	dropped = 0
	mut.Unlock()

	e.Add("dropped-stats", droppedCount)
	for key, n := range pending {
		e.Add(key.name, n, stats.T("source", key.source))
	}
	e.Flush()
}

func buildEngine(config Config) (*stats.Engine, error) {
	handler := config.StatsHandler
	if handler == nil {
		return nil, errors.New("no stats handler supplied")
	}
	tags := []stats.Tag{
		{Name: "app", Value: config.AppName},
		{Name: "version", Value: config.Version},
	}
	return stats.NewEngine(statsPrefix, handler, tags...), nil
}
