// Package pipeline runs one source end to end: read its inputs, transform
// them to canonical fields, write the CSV and version.txt, then optionally
// publish the files and export the table to a database.
package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path"
	"path/filepath"
	"time"

	// export drivers
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"
	"github.com/segmentio/stats/v4"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fetch"
	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/publish"
	"github.com/covidactnow/datapublic/pkg/sources"
	"github.com/covidactnow/datapublic/pkg/sqlexport"
	"github.com/covidactnow/datapublic/pkg/table"
	"github.com/covidactnow/datapublic/pkg/utils"
)

// VersionFile is written next to every output.
const VersionFile = "version.txt"

// Result describes a finished run.
type Result struct {
	RunID    string
	Source   string
	Output   string
	Rows     int
	Duration time.Duration
}

// Run updates cfg.Source once.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Output == "" {
		return nil, errs.BadRequest("no output path")
	}
	src, err := sources.Get(cfg.Source)
	if err != nil {
		return nil, err
	}
	res := &Result{RunID: uuid.New().String(), Source: src.Name(), Output: cfg.Output}
	log := cfg.logger().With(events.Args{
		{Name: "run_id", Value: res.RunID},
		{Name: "source", Value: src.Name()},
	})
	start := cfg.now()
	log.Log("Updating %{source}s", src.Name())

	paths, from, err := resolveInputs(ctx, cfg, src, log)
	if err != nil {
		return nil, err
	}
	tables, err := readInputs(src, paths)
	if err != nil {
		return nil, err
	}
	out, err := src.Transform(ctx, sources.Input{Tables: tables, Logger: log, Suggestions: cfg.Suggestions})
	if err != nil {
		globalstats.Incr("pipeline.errors", src.Name())
		return nil, err
	}
	res.Rows = out.Len()

	if err := writeOutput(cfg.Output, out, src); err != nil {
		return nil, err
	}
	versionPath := filepath.Join(filepath.Dir(cfg.Output), VersionFile)
	if err := os.WriteFile(versionPath, []byte(fetch.VersionLine(cfg.now(), from)), 0644); err != nil {
		return nil, errors.Wrap(err, "write version file")
	}

	if cfg.PublishURL != "" {
		if err := publishOutputs(ctx, cfg, src.Name(), versionPath); err != nil {
			errs.Incr("pipeline.publish-errors", stats.T("source", src.Name()))
			return nil, err
		}
	}
	if cfg.ExportDriver != "" {
		if err := exportOutput(ctx, cfg, src, out, log); err != nil {
			errs.Incr("pipeline.export-errors", stats.T("source", src.Name()))
			return nil, err
		}
	}

	res.Duration = cfg.now().Sub(start)
	globalstats.Incr("pipeline.runs", src.Name())
	globalstats.Observe("pipeline.rows", res.Rows, stats.T("source", src.Name()))
	log.Log("Wrote %{rows}d rows to %{output}s", res.Rows, cfg.Output)
	return res, nil
}

func writeOutput(p string, out *table.Table, src sources.Source) error {
	if err := utils.EnsureDirForFile(p); err != nil {
		return errors.Wrap(err, "ensure output dir exists")
	}
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()
	if err := table.WriteCSV(f, out, table.WriteOptions{Index: src.IndexFields(), SortRows: true}); err != nil {
		return err
	}
	return f.Close()
}

func publishOutputs(ctx context.Context, cfg Config, source, versionPath string) error {
	dest, err := publish.FromURL(cfg.PublishURL)
	if err != nil {
		return errs.BadRequest("publish url: %v", err)
	}
	name := path.Join(source, filepath.Base(cfg.Output))
	if cfg.PublishGzip {
		name += ".gz"
	}
	if err := dest.Publish(ctx, cfg.Output, name); err != nil {
		return errors.Wrap(err, "publish output")
	}
	if err := dest.Publish(ctx, versionPath, path.Join(source, VersionFile)); err != nil {
		return errors.Wrap(err, "publish version file")
	}
	return nil
}

func exportOutput(ctx context.Context, cfg Config, src sources.Source, out *table.Table, log *events.Logger) error {
	db, err := sql.Open(cfg.ExportDriver, cfg.ExportDSN)
	if err != nil {
		return errors.Wrap(err, "open export db")
	}
	defer db.Close()
	_, err = sqlexport.Export(ctx, db, out, sqlexport.Options{
		DriverName: cfg.ExportDriver,
		TableName:  src.Name(),
		Index:      src.IndexFields(),
		Logger:     log,
	})
	return err
}

// RunAll runs every config with at most parallel runs at a time. The first
// error cancels the runs not yet finished.
func RunAll(ctx context.Context, cfgs []Config, parallel int) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range cfgs {
		i := i
		g.Go(func() error {
			res, err := Run(ctx, cfgs[i])
			if err != nil {
				return errors.Wrapf(err, "update %s", cfgs[i].Source)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
