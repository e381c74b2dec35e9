package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/tests"
)

func newServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher() *Fetcher {
	return New(Options{Timeout: 5 * time.Second, Logger: tests.CaptureEvents().Logger})
}

func TestDownload(t *testing.T) {
	srv := newServer(t, map[string]string{"/data.csv": "a,b\n1,2\n"})
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()

	path := filepath.Join(dir, "nested", "data.csv")
	require.NoError(t, newFetcher().Download(context.Background(), srv.URL+"/data.csv", path))
	require.Equal(t, "a,b\n1,2\n", tests.ReadFile(t, path))

	err := newFetcher().Download(context.Background(), srv.URL+"/missing.csv", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.False(t, errs.IsTemporary(err))
}

func TestLocate(t *testing.T) {
	srv := newServer(t, map[string]string{"/index.json": `{"url":"x"}`})
	f := newFetcher()

	url, err := f.Locate(context.Background(), srv.URL+"/index.json", func(b []byte) (string, error) {
		return strings.ToUpper(string(b)), nil
	})
	require.NoError(t, err)
	require.Equal(t, `{"URL":"X"}`, url)

	_, err = f.Locate(context.Background(), srv.URL+"/index.json", func([]byte) (string, error) {
		return "", fmt.Errorf("nothing here")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "nothing here")
}

const archiveHTML = `<html><body>
<a href="https://example.com/about">About</a>
<p><a href="%[1]s/data.cms.gov/download/week2">County Positivity Week Ending 10/13/20</a></p>
<p><a href="%[1]s/data.cms.gov/download/week1">County Positivity Week Ending 10/6/20</a></p>
<a name="anchor">no href</a>
</body></html>`

func TestArchiveLinks(t *testing.T) {
	links, err := ArchiveLinks(strings.NewReader(fmt.Sprintf(archiveHTML, "https://x")))
	require.NoError(t, err)
	require.Equal(t, []ArchiveLink{
		{Name: "County Positivity Week Ending 10/13/20", URL: "https://x/data.cms.gov/download/week2", WeekEnding: time.Date(2020, 10, 13, 0, 0, 0, 0, time.UTC)},
		{Name: "County Positivity Week Ending 10/6/20", URL: "https://x/data.cms.gov/download/week1", WeekEnding: time.Date(2020, 10, 6, 0, 0, 0, 0, time.UTC)},
	}, links)
	require.Equal(t, "2020-10-06.zip", links[1].FileName(".zip"))

	_, err = ArchiveLinks(strings.NewReader(`<a href="https://data.cms.gov/download/x">Latest</a>`))
	require.Error(t, err)
}

func TestDownloadArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.html":
			fmt.Fprintf(w, archiveHTML, "http://"+r.Host)
		case "/data.cms.gov/download/week1":
			fmt.Fprint(w, "one")
		case "/data.cms.gov/download/week2":
			fmt.Fprint(w, "two")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()

	links, err := newFetcher().DownloadArchive(context.Background(), srv.URL+"/index.html", dir)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, "two", tests.ReadFile(t, filepath.Join(dir, "2020-10-13.zip")))
	require.Equal(t, "one", tests.ReadFile(t, filepath.Join(dir, "2020-10-06.zip")))
}

func TestVersionLine(t *testing.T) {
	now := time.Date(2020, 10, 11, 18, 30, 0, 0, time.UTC)
	require.Equal(t, "Sunday Oct 11 11:30:00 AM PDT", VersionStamp(now))
	require.Equal(t, "Updated at Sunday Oct 11 11:30:00 AM PDT\n", VersionLine(now, ""))
	require.Equal(t, "Updated at Saturday Jan 02 04:00:00 AM PST from https://x/y.csv\n",
		VersionLine(time.Date(2021, 1, 2, 12, 0, 0, 0, time.UTC), "https://x/y.csv"))
}

func TestGetServerErrorIsTemporary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "try later", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newFetcher().Get(context.Background(), srv.URL+"/testing.csv")
	require.Error(t, err)
	require.True(t, errs.IsTemporary(err), "%v", err)
	require.Equal(t, 75, errs.ExitCode(err))
}
