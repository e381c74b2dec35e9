package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fetch"
	"github.com/covidactnow/datapublic/pkg/sources"
	"github.com/covidactnow/datapublic/pkg/tests"
)

const hhsTestingCSV = `state,state_name,state_fips,fema_region,overall_outcome,date,new_results_reported,total_results_reported
AL,Alabama,01,Region 4,Negative,2020-10-01,10,1000
AL,Alabama,01,Region 4,Positive,2020-10-01,2,100
AL,Alabama,01,Region 4,Negative,2020-10-02,10,1100
AL,Alabama,01,Region 4,Positive,2020-10-02,2,110
`

var fixedNow = time.Date(2020, 10, 3, 18, 30, 0, 0, time.UTC)

func now() time.Time { return fixedNow }

func TestRun(t *testing.T) {
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	input := filepath.Join(dir, "in", "testing.csv")
	tests.WriteFile(t, input, []byte(hhsTestingCSV))
	output := filepath.Join(dir, "data", "hhs_testing", "timeseries-common.csv")
	rec := tests.CaptureEvents()

	res, err := Run(context.Background(), Config{
		Source:       "hhs_testing",
		Inputs:       map[string]string{"testing": input},
		Output:       output,
		PublishURL:   "file://" + filepath.Join(dir, "published"),
		PublishGzip:  true,
		ExportDriver: "sqlite",
		ExportDSN:    filepath.Join(dir, "export.db"),
		Logger:       rec.Logger,
		Now:          now,
	})
	require.NoError(t, err)
	require.Equal(t, "hhs_testing", res.Source)
	require.Equal(t, 2, res.Rows)
	require.NotEmpty(t, res.RunID)

	lines := strings.Split(strings.TrimSpace(tests.ReadFile(t, output)), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "fips,date,"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "01,2020-10-01,"), lines[1])
	require.True(t, strings.HasPrefix(lines[2], "01,2020-10-02,"), lines[2])

	version := tests.ReadFile(t, filepath.Join(dir, "data", "hhs_testing", VersionFile))
	require.Equal(t, fetch.VersionLine(fixedNow, ""), version)
	require.Equal(t, version, tests.ReadFile(t, filepath.Join(dir, "published", "hhs_testing", VersionFile)))
	require.FileExists(t, filepath.Join(dir, "published", "hhs_testing", "timeseries-common.csv.gz"))

	db, err := sql.Open("sqlite", filepath.Join(dir, "export.db"))
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM hhs_testing").Scan(&count))
	require.Equal(t, 2, count)

	for _, e := range rec.Events() {
		runID, ok := tests.Arg(e, "run_id")
		require.True(t, ok, e.Message)
		require.Equal(t, res.RunID, runID)
	}
}

func TestRunFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/meta", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result":[{"resources":[{"url":"http://%s/testing.csv"}]}]}`, r.Host)
	})
	mux.HandleFunc("/testing.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hhsTestingCSV)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	output := filepath.Join(dir, "data", "timeseries-common.csv")
	res, err := Run(context.Background(), Config{
		Source:      "hhs_testing",
		Fetch:       true,
		DownloadDir: filepath.Join(dir, "raw"),
		URLs:        map[string]string{"testing": srv.URL + "/meta"},
		Fetcher:     fetch.New(fetch.Options{Timeout: 5 * time.Second, Logger: tests.CaptureEvents().Logger}),
		Output:      output,
		Logger:      tests.CaptureEvents().Logger,
		Now:         now,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Rows)
	require.Equal(t, hhsTestingCSV, tests.ReadFile(t, filepath.Join(dir, "raw", "hhs_testing", "testing.csv")))
	require.Equal(t,
		fetch.VersionLine(fixedNow, srv.URL+"/testing.csv"),
		tests.ReadFile(t, filepath.Join(dir, "data", VersionFile)))
}

const covidTrackingCSV = `date,state,positive,negative,hospitalizedCurrently,inIcuCurrently,fips,hash
20200802,NY,50,60,20,8,36,c
20200801,NY,45,55,22,9,36,b
20200801,CT,100,200,10,5,09,a
`

func TestRunFetchCovidTracking(t *testing.T) {
	require.True(t, strings.HasSuffix(sources.CovidTrackingURL, ".csv"), sources.CovidTrackingURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/states/daily.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, covidTrackingCSV)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	output := filepath.Join(dir, "data", "timeseries-common.csv")
	url := srv.URL + "/api/v1/states/daily.csv"
	res, err := Run(context.Background(), Config{
		Source:      "covid_tracking",
		Fetch:       true,
		DownloadDir: filepath.Join(dir, "raw"),
		URLs:        map[string]string{"daily": url},
		Fetcher:     fetch.New(fetch.Options{Timeout: 5 * time.Second, Logger: tests.CaptureEvents().Logger}),
		Output:      output,
		Logger:      tests.CaptureEvents().Logger,
		Now:         now,
	})
	require.NoError(t, err)
	require.Equal(t, "covid_tracking", res.Source)
	require.Equal(t, 3, res.Rows)
	require.Equal(t, covidTrackingCSV, tests.ReadFile(t, filepath.Join(dir, "raw", "covid_tracking", "daily.csv")))
	require.Equal(t, fetch.VersionLine(fixedNow, url), tests.ReadFile(t, filepath.Join(dir, "data", VersionFile)))

	lines := strings.Split(strings.TrimSpace(tests.ReadFile(t, output)), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "fips,date,"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "09,2020-08-01,"), lines[1])
}

func TestRunErrors(t *testing.T) {
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	output := filepath.Join(dir, "out.csv")
	logger := tests.CaptureEvents().Logger

	suite := []struct {
		desc     string
		cfg      Config
		exitCode int
	}{
		{"no output", Config{Source: "hhs_testing"}, 2},
		{"unknown source", Config{Source: "nope", Output: output}, 2},
		{"missing input", Config{Source: "hhs_testing", Output: output}, 3},
		{"directory inputs are not fetched", Config{Source: "cms_testing", Output: output, Fetch: true}, 3},
		{"unreadable input", Config{Source: "hhs_testing", Output: output, Inputs: map[string]string{"testing": filepath.Join(dir, "nope.csv")}}, 1},
	}
	for i, testCase := range suite {
		t.Run(fmt.Sprintf("%d %s", i, testCase.desc), func(t *testing.T) {
			testCase.cfg.Logger = logger
			_, err := Run(context.Background(), testCase.cfg)
			require.Error(t, err)
			require.Equal(t, testCase.exitCode, errs.ExitCode(err), "%v", err)
		})
	}
}

func TestReadInputsDir(t *testing.T) {
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	tests.WriteFile(t, filepath.Join(dir, "2020-10-08.csv"), []byte("County,State\nAutauga,AL\n"))
	tests.WriteFile(t, filepath.Join(dir, "2020-10-01.csv"), []byte("County,State\nAutauga,AL\n"))
	tests.WriteFile(t, filepath.Join(dir, "notes.txt"), []byte("ignored"))

	src, err := sources.Get("cms_testing")
	require.NoError(t, err)
	tables, err := readInputs(src, map[string]string{"archive": dir})
	require.NoError(t, err)
	var names []string
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	require.Equal(t, []string{"archive/2020-10-01", "archive/2020-10-08"}, names)

	empty, teardown2 := tests.WithTmpDir(t)
	defer teardown2()
	_, err = readInputs(src, map[string]string{"archive": empty})
	require.True(t, errs.IsConfiguration(err), "%v", err)
}

func TestRunAll(t *testing.T) {
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	input := filepath.Join(dir, "testing.csv")
	tests.WriteFile(t, input, []byte(hhsTestingCSV))
	logger := tests.CaptureEvents().Logger

	cfg := func(out string) Config {
		return Config{
			Source: "hhs_testing",
			Inputs: map[string]string{"testing": input},
			Output: filepath.Join(dir, out, "timeseries-common.csv"),
			Logger: logger,
			Now:    now,
		}
	}
	results, err := RunAll(context.Background(), []Config{cfg("a"), cfg("b"), cfg("c")}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		require.Equal(t, 2, res.Rows, "run %d", i)
	}

	bad := cfg("d")
	bad.Source = "nope"
	_, err = RunAll(context.Background(), []Config{cfg("e"), bad}, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "update nope")
}

func TestDefaultInputs(t *testing.T) {
	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	tests.WriteFile(t, filepath.Join(dir, "covid_care_map", "state.csv"), []byte("State\nAL\n"))
	tests.WriteFile(t, filepath.Join(dir, "cms_testing", "archive", "2020-10-01.csv"), []byte("County\nx\n"))
	// a directory where a file is expected is skipped
	tests.WriteFile(t, filepath.Join(dir, "covid_care_map", "county.csv", "x"), []byte("x"))

	ccm, err := sources.Get("covid_care_map")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"state": filepath.Join(dir, "covid_care_map", "state.csv"),
	}, DefaultInputs(dir, ccm))

	cms, err := sources.Get("cms_testing")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"archive": filepath.Join(dir, "cms_testing", "archive"),
	}, DefaultInputs(dir, cms))
	require.Empty(t, DefaultInputs("", cms))

	require.Equal(t, filepath.Join("data", "cdc_testing", "timeseries-common.csv"), DefaultOutput("data", "cdc_testing"))
}
