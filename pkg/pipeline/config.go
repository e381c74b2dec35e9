package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/fetch"
	"github.com/covidactnow/datapublic/pkg/sources"
)

// Config is one update of one source.
type Config struct {
	Source string
	// Inputs maps input names to local files, or directories for inputs
	// that are a directory of CSV files.
	Inputs map[string]string
	// Fetch downloads inputs that are not in Inputs from their upstream URL
	// into DownloadDir.
	Fetch       bool
	DownloadDir string
	// URLs overrides the upstream URL of inputs by name.
	URLs    map[string]string
	Fetcher *fetch.Fetcher

	// Output is the path of the CSV file written. version.txt is written
	// next to it.
	Output string

	// PublishURL is a file:// or s3:// destination. Empty disables
	// publishing.
	PublishURL string
	// PublishGzip publishes gzip compressed copies.
	PublishGzip bool

	// ExportDriver and ExportDSN select a database the output is exported
	// to. Empty disables the export.
	ExportDriver string
	ExportDSN    string

	Logger *events.Logger
	// Suggestions receives mapping entries for unexpected columns.
	Suggestions io.Writer
	Now         func() time.Time
}

func (c Config) logger() *events.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return events.DefaultLogger
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) fetcher() *fetch.Fetcher {
	if c.Fetcher != nil {
		return c.Fetcher
	}
	return fetch.New(fetch.Options{Logger: c.Logger})
}

// DefaultOutput is where update-all writes the output of source.
func DefaultOutput(dataDir, source string) string {
	return filepath.Join(dataDir, source, "timeseries-common.csv")
}

// DefaultInputs finds the inputs of src under inputsDir, laid out as
// <source>/<input>.csv or, for directory inputs, <source>/<input>/. Inputs
// that do not exist are left out so they can be fetched.
func DefaultInputs(inputsDir string, src sources.Source) map[string]string {
	out := map[string]string{}
	if inputsDir == "" {
		return out
	}
	for _, spec := range src.Inputs() {
		p := filepath.Join(inputsDir, src.Name(), spec.Name)
		if !spec.Dir {
			p += ".csv"
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() != spec.Dir {
			continue
		}
		out[spec.Name] = p
	}
	return out
}
