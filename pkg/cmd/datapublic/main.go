package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/conf"
	"github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"
	_ "github.com/segmentio/events/v2/sigevents"
	"github.com/segmentio/stats/v4"
	"github.com/segmentio/stats/v4/datadog"
	"github.com/segmentio/stats/v4/procstats"

	"github.com/covidactnow/datapublic"
	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fetch"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/pipeline"
	"github.com/covidactnow/datapublic/pkg/sources"
	"github.com/covidactnow/datapublic/pkg/utils"
)

type dogstatsdConfig struct {
	Address    string        `conf:"address" help:"Address of the dogstatsd agent that will receive metrics"`
	BufferSize int           `conf:"buffer-size" help:"Size of the statsd metrics buffer" validate:"min=0"`
	FlushEvery time.Duration `conf:"flush-every" help:"Flush AT LEAST this frequently"`
}

type fetchConfig struct {
	Enabled    bool          `conf:"enabled" help:"Download inputs that are not given locally"`
	Dir        string        `conf:"dir" help:"Where downloaded inputs are written"`
	Timeout    time.Duration `conf:"timeout" help:"Timeout of one download"`
	RetryCount int           `conf:"retry-count" help:"How many times a failed download is retried"`
}

type exportConfig struct {
	Driver string `conf:"driver" help:"Database driver the output is exported to (sqlite or mysql)"`
	DSN    string `conf:"dsn" help:"DSN of the export database"`
}

type publishConfig struct {
	URL  string `conf:"url" help:"Destination of the output files (file://dir or s3://bucket/prefix)"`
	Gzip bool   `conf:"gzip" help:"Publish gzip compressed outputs"`
}

type updateCliConfig struct {
	Source    string          `conf:"source" help:"Name of the source to update" validate:"nonzero"`
	Inputs    string          `conf:"inputs" help:"Local inputs as name=path pairs separated by commas"`
	Output    string          `conf:"output" help:"Path of the CSV file written" validate:"nonzero"`
	Watch     bool            `conf:"watch" help:"Update again whenever a local input changes"`
	Fetch     fetchConfig     `conf:"fetch" help:"Download configuration"`
	Publish   publishConfig   `conf:"publish" help:"Publish configuration"`
	Export    exportConfig    `conf:"export" help:"SQL export configuration"`
	Debug     bool            `conf:"debug" help:"Turns on debug logging"`
	Dogstatsd dogstatsdConfig `conf:"dogstatsd" help:"dogstatsd Configuration"`
}

type updateAllCliConfig struct {
	InputsDir string          `conf:"inputs-dir" help:"Directory holding <source>/<input>.csv files"`
	DataDir   string          `conf:"data-dir" help:"Directory outputs are written to as <source>/timeseries-common.csv" validate:"nonzero"`
	Sources   string          `conf:"sources" help:"Comma separated sources to update, all when empty"`
	Parallel  int             `conf:"parallel" help:"How many sources are updated at once" validate:"min=0"`
	Fetch     fetchConfig     `conf:"fetch" help:"Download configuration"`
	Publish   publishConfig   `conf:"publish" help:"Publish configuration"`
	Export    exportConfig    `conf:"export" help:"SQL export configuration"`
	Debug     bool            `conf:"debug" help:"Turns on debug logging"`
	Dogstatsd dogstatsdConfig `conf:"dogstatsd" help:"dogstatsd Configuration"`
}

func loadConfig(config interface{}, name string, args []string, help ...string) {
	var usage string

	if len(help) != 0 {
		usage = strings.Join(help, " ")
	}

	conf.LoadWith(config, conf.Loader{
		Name:  "datapublic " + name,
		Args:  args,
		Usage: usage,
		Sources: []conf.Source{
			conf.NewEnvSource("DATAPUBLIC", os.Environ()...),
		},
	})
}

func main() {
	ld := conf.Loader{
		Name: "datapublic",
		Args: os.Args[1:],
		Commands: []conf.Command{
			{Name: "version", Help: "Get the datapublic version"},
			{Name: "fields", Help: "List the canonical fields"},
			{Name: "sources", Help: "List the sources and their inputs"},
			{Name: "update", Help: "Update one source"},
			{Name: "update-all", Help: "Update every source"},
		},
	}

	ctx, cancel := events.WithSignals(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	events.DefaultLogger.EnableDebug = false

	var err error
	cmd, args := conf.LoadWith(nil, ld)
	switch cmd {
	case "version":
		fmt.Println(datapublic.Version)
	case "fields":
		for _, f := range fields.All() {
			fmt.Println(f)
		}
	case "sources":
		listSources()
	case "update":
		err = update(ctx, args)
	case "update-all":
		err = updateAll(ctx, args)
	default:
		panic("inconceivable")
	}
	if err != nil && !errs.IsCanceled(err) {
		events.Log("Fatal error: %{error}+v", err)
		errs.IncrDefault(stats.T("command", cmd))
		globalstats.Flush()
		stats.Flush()
		os.Exit(errs.ExitCode(err))
	}
	globalstats.Flush()
}

func enableDebug() {
	events.DefaultLogger.EnableDebug = true
	events.DefaultLogger.EnableSource = true
}

func defaultDogstatsdConfig() dogstatsdConfig {
	return dogstatsdConfig{
		BufferSize: 1024,
		FlushEvery: 5 * time.Second,
	}
}

func defaultFetchConfig() fetchConfig {
	return fetchConfig{
		Timeout:    5 * time.Minute,
		RetryCount: 2,
	}
}

func configureDogstatsd(ctx context.Context, config dogstatsdConfig, statsPrefix string) (teardown func()) {
	if config.Address == "" {
		return func() {}
	}
	dd := datadog.NewClientWith(datadog.ClientConfig{
		Address:    config.Address,
		BufferSize: config.BufferSize,
	})
	stats.Register(dd)
	events.Log("Setup dogstatsd with addr:%{addr}s, buffersize:%{buffersize}d, prefix:%{pfx}s, version:%{version}s",
		config.Address, config.BufferSize, statsPrefix, datapublic.Version)

	stats.DefaultEngine.Prefix = fmt.Sprintf("datapublic.%s", statsPrefix)
	stats.DefaultEngine.Tags = append(stats.DefaultEngine.Tags, stats.Tag{Name: "version", Value: datapublic.Version})
	stats.DefaultEngine.Tags = stats.SortTags(stats.DefaultEngine.Tags) // tags must be sorted

	datapublic.InitializeWithConfig(ctx, datapublic.Config{
		Stats: globalstats.Config{
			AppName:      statsPrefix,
			StatsHandler: dd,
			FlushEvery:   config.FlushEvery,
		},
	})

	c := procstats.StartCollector(procstats.NewGoMetrics())
	go utils.CtxLoop(ctx, config.FlushEvery, false, stats.Flush)
	return func() {
		c.Close()
		stats.Flush()
	}
}

func listSources() {
	for _, name := range sources.Names() {
		src, err := sources.Get(name)
		if err != nil {
			continue
		}
		var inputs []string
		for _, in := range src.Inputs() {
			inputs = append(inputs, in.Name)
		}
		fmt.Printf("%s\t%s\n", name, strings.Join(inputs, ","))
	}
}

// parseInputs parses name=path pairs separated by commas.
func parseInputs(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, errs.BadRequest("invalid input %q, expected name=path", pair)
		}
		out[name] = path
	}
	return out, nil
}

func newFetcher(cfg fetchConfig) *fetch.Fetcher {
	return fetch.New(fetch.Options{Timeout: cfg.Timeout, RetryCount: cfg.RetryCount})
}

func update(ctx context.Context, args []string) error {
	cliCfg := updateCliConfig{
		Fetch:     defaultFetchConfig(),
		Dogstatsd: defaultDogstatsdConfig(),
	}
	loadConfig(&cliCfg, "update", args)
	if cliCfg.Debug {
		enableDebug()
	}
	teardown := configureDogstatsd(ctx, cliCfg.Dogstatsd, "update")
	defer teardown()

	inputs, err := parseInputs(cliCfg.Inputs)
	if err != nil {
		return err
	}
	cfg := pipeline.Config{
		Source:       cliCfg.Source,
		Inputs:       inputs,
		Fetch:        cliCfg.Fetch.Enabled,
		DownloadDir:  cliCfg.Fetch.Dir,
		Fetcher:      newFetcher(cliCfg.Fetch),
		Output:       cliCfg.Output,
		PublishURL:   cliCfg.Publish.URL,
		PublishGzip:  cliCfg.Publish.Gzip,
		ExportDriver: cliCfg.Export.Driver,
		ExportDSN:    cliCfg.Export.DSN,
	}
	if cliCfg.Watch {
		return pipeline.Watch(ctx, cfg, pipeline.DefaultSettle, nil)
	}
	_, err = pipeline.Run(ctx, cfg)
	return err
}

func updateAll(ctx context.Context, args []string) error {
	cliCfg := updateAllCliConfig{
		Parallel:  4,
		Fetch:     defaultFetchConfig(),
		Dogstatsd: defaultDogstatsdConfig(),
	}
	loadConfig(&cliCfg, "update-all", args)
	if cliCfg.Debug {
		enableDebug()
	}
	teardown := configureDogstatsd(ctx, cliCfg.Dogstatsd, "update_all")
	defer teardown()

	names := sources.Names()
	if cliCfg.Sources != "" {
		names = strings.Split(cliCfg.Sources, ",")
	}
	fetcher := newFetcher(cliCfg.Fetch)
	var cfgs []pipeline.Config
	for _, name := range names {
		src, err := sources.Get(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		cfgs = append(cfgs, pipeline.Config{
			Source:       src.Name(),
			Inputs:       pipeline.DefaultInputs(cliCfg.InputsDir, src),
			Fetch:        cliCfg.Fetch.Enabled,
			DownloadDir:  cliCfg.Fetch.Dir,
			Fetcher:      fetcher,
			Output:       pipeline.DefaultOutput(cliCfg.DataDir, src.Name()),
			PublishURL:   cliCfg.Publish.URL,
			PublishGzip:  cliCfg.Publish.Gzip,
			ExportDriver: cliCfg.Export.Driver,
			ExportDSN:    cliCfg.Export.DSN,
		})
	}
	results, err := pipeline.RunAll(ctx, cfgs, cliCfg.Parallel)
	if err != nil {
		return errors.Wrap(err, "update all")
	}
	for _, res := range results {
		rel, _ := filepath.Rel(cliCfg.DataDir, res.Output)
		events.Log("Updated %{source}s: %{rows}d rows in %{output}s", res.Source, res.Rows, rel)
	}
	return nil
}
