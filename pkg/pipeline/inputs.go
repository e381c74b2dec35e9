package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/sources"
	"github.com/covidactnow/datapublic/pkg/table"
)

// resolveInputs returns the local path of every input of src, downloading
// the missing ones when cfg.Fetch is set. The second result names the
// upstream URL of the first input, used in version.txt.
func resolveInputs(ctx context.Context, cfg Config, src sources.Source, log *events.Logger) (map[string]string, string, error) {
	paths := make(map[string]string, len(src.Inputs()))
	from := ""
	for _, spec := range src.Inputs() {
		url := spec.URL
		if u, ok := cfg.URLs[spec.Name]; ok {
			url = u
		}
		if p, ok := cfg.Inputs[spec.Name]; ok {
			paths[spec.Name] = p
			continue
		}
		if !cfg.Fetch || url == "" {
			return nil, "", errs.Configuration(src.Name(), "input %q not provided", spec.Name)
		}
		if spec.Dir {
			return nil, "", errs.Configuration(src.Name(), "input %q is a directory of CSV exports and cannot be fetched", spec.Name)
		}
		f := cfg.fetcher()
		if spec.Locate != nil {
			located, err := f.Locate(ctx, url, spec.Locate)
			if err != nil {
				return nil, "", err
			}
			url = located
		}
		dir := cfg.DownloadDir
		if dir == "" {
			dir = filepath.Dir(cfg.Output)
		}
		p := filepath.Join(dir, src.Name(), spec.Name+".csv")
		if err := f.Download(ctx, url, p); err != nil {
			return nil, "", err
		}
		log.Debug("Fetched %{input}s from %{url}s", spec.Name, url)
		paths[spec.Name] = p
		if from == "" {
			from = url
		}
	}
	return paths, from, nil
}

// readInputs loads every input of src from paths.
func readInputs(src sources.Source, paths map[string]string) (map[string]*table.Table, error) {
	tables := map[string]*table.Table{}
	for _, spec := range src.Inputs() {
		p := paths[spec.Name]
		if !spec.Dir {
			t, err := readCSV(p, spec.Read)
			if err != nil {
				return nil, err
			}
			tables[spec.Name] = t
			continue
		}
		files, err := filepath.Glob(filepath.Join(p, "*.csv"))
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", p)
		}
		if len(files) == 0 {
			return nil, errs.Configuration(src.Name(), "no CSV files in %s", p)
		}
		sort.Strings(files)
		for _, file := range files {
			t, err := readCSV(file, spec.Read)
			if err != nil {
				return nil, err
			}
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			tables[spec.Name+"/"+name] = t
		}
	}
	return tables, nil
}

func readCSV(path string, opts table.ReadOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	t, err := table.ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}
