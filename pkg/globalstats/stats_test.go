package globalstats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/stats/v4"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	mut      sync.Mutex
	measures []stats.Measure
}

// fakeHandler needs to conform to the stats.Handler interface.
var _ stats.Handler = &fakeHandler{}

func (h *fakeHandler) HandleMeasures(t time.Time, measures ...stats.Measure) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for _, m := range measures {
		h.measures = append(h.measures, m.Clone())
	}
}

// counts returns field name + source tag -> summed counter value.
func (h *fakeHandler) counts() map[string]int64 {
	h.mut.Lock()
	defer h.mut.Unlock()
	out := map[string]int64{}
	for _, m := range h.measures {
		source := ""
		for _, tag := range m.Tags {
			if tag.Name == "source" {
				source = tag.Value
			}
		}
		for _, f := range m.Fields {
			out[f.Name+"/"+source] += f.Value.Int()
		}
	}
	return out
}

func TestGlobalStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer Disable()

	h := &fakeHandler{}
	Initialize(ctx, Config{
		StatsHandler: h,
		FlushEvery:   time.Hour,
	})

	Incr("reconcile.extra_columns", "covid_tracking")
	Incr("reconcile.extra_columns", "covid_tracking")
	Incr("reconcile.missing_columns", "hhs_testing")
	Flush()

	counts := h.counts()
	require.Equal(t, int64(2), counts["reconcile.extra_columns/covid_tracking"])
	require.Equal(t, int64(1), counts["reconcile.missing_columns/hhs_testing"])
	require.Equal(t, int64(0), counts["dropped-stats/"])

	// counters reset after each flush
	Flush()
	require.Equal(t, int64(2), h.counts()["reconcile.extra_columns/covid_tracking"])

	h.mut.Lock()
	require.Equal(t, statsPrefix, h.measures[0].Name)
	h.mut.Unlock()
}

func TestDisabledIsNoop(t *testing.T) {
	Disable()
	Incr("x", "y")
	Observe("x", 1)
	Flush()
}

func TestInitializeWithoutHandler(t *testing.T) {
	defer Disable()
	Initialize(context.Background(), Config{})
	Incr("x", "y")
	mut.Lock()
	defer mut.Unlock()
	require.Nil(t, engine)
}
