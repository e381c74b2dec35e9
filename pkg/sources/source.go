// Package sources turns each upstream dataset into a table of canonical
// fields. Every source declares the raw inputs it reads, the mappings it
// reconciles against and a Transform from inputs to the canonical table.
package sources

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// Country is stamped on every row.
const Country = "USA"

// Aggregate levels.
const (
	LevelState  = "state"
	LevelCounty = "county"
)

// InputSpec describes one raw file a source reads.
type InputSpec struct {
	Name string
	// URL is the upstream location, empty when the file is produced by
	// another tool.
	URL string
	// Locate, when set, extracts the file URL from the document at URL.
	Locate func(index []byte) (string, error)
	// Dir inputs are a directory of CSV files. Each file is loaded as the
	// table Name + "/" + its base name without extension.
	Dir  bool
	Read table.ReadOptions
}

// Input carries the raw tables of one run keyed by InputSpec.Name.
type Input struct {
	Tables map[string]*table.Table
	// Logger defaults to events.DefaultLogger.
	Logger *events.Logger
	// Suggestions receives mapping entries for unexpected columns.
	Suggestions io.Writer
}

func (in Input) logger() *events.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return events.DefaultLogger
}

// Table returns the named input or a configuration error when the run did
// not provide it.
func (in Input) Table(source, name string) (*table.Table, error) {
	t, ok := in.Tables[name]
	if !ok || t == nil {
		return nil, errs.Configuration(source, "input %q not provided", name)
	}
	return t, nil
}

type Source interface {
	Name() string
	Inputs() []InputSpec
	// Mappings are the native field declarations the source reconciles
	// against, in the order they are applied.
	Mappings() []*schema.Mapping
	// IndexFields identify a row of the output. They lead the CSV columns
	// and define its row order.
	IndexFields() []fields.CommonField
	Transform(ctx context.Context, in Input) (*table.Table, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// Register adds s to the registry. Called from init in each source file.
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.Name()]; dup {
		panic("sources: duplicate source " + s.Name())
	}
	registry[s.Name()] = s
}

// Get returns the registered source called name.
func Get(name string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, errs.NotFound("unknown source %q", name)
	}
	return s, nil
}

// Names returns the registered source names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var timeseriesIndex = []fields.CommonField{fields.FIPS, fields.Date}

func stampLocation(t *table.Table, level string) *table.Table {
	t = t.SetConstant(fields.Country.String(), Country)
	if level != "" {
		t = t.SetConstant(fields.AggregateLevel.String(), level)
	}
	return t
}
