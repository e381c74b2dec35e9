// Package fetch downloads upstream datasets and stamps them with the time
// they were fetched.
package fetch

import (
	"context"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/utils"
	"github.com/covidactnow/datapublic/pkg/version"
)

type Options struct {
	Timeout    time.Duration
	RetryCount int
	// Logger defaults to events.DefaultLogger.
	Logger *events.Logger
}

// Fetcher is an HTTP client for upstream datasets.
type Fetcher struct {
	client *resty.Client
	logger *events.Logger
}

func New(opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = events.DefaultLogger
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(time.Second).
		SetHeader("User-Agent", "datapublic/"+version.Get())
	return &Fetcher{client: client, logger: opts.Logger}
}

// Get returns the body of url. Responses with an error status fail.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, errors.WithTypes(errors.Wrapf(err, "get %s", url), errs.ErrTypeTemporary)
	}
	if res.IsError() {
		typ := errs.ErrTypePermanent
		if res.StatusCode() >= 500 {
			typ = errs.ErrTypeTemporary
		}
		return nil, errors.WithTypes(errors.Errorf("get %s: %s", url, res.Status()), typ)
	}
	globalstats.Observe("fetch.bytes", len(res.Body()))
	return res.Body(), nil
}

// Download writes the body of url to path, creating its directory.
func (f *Fetcher) Download(ctx context.Context, url, path string) error {
	f.logger.Log("Fetching %{url}s to %{path}s", url, path)
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := utils.EnsureDirForFile(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Locate fetches an index document and returns the URL locate finds in it.
func (f *Fetcher) Locate(ctx context.Context, indexURL string, locate func([]byte) (string, error)) (string, error) {
	f.logger.Log("Fetching index %{url}s", indexURL)
	body, err := f.Get(ctx, indexURL)
	if err != nil {
		return "", err
	}
	url, err := locate(body)
	if err != nil {
		return "", errors.Wrapf(err, "locate dataset in %s", indexURL)
	}
	return url, nil
}
