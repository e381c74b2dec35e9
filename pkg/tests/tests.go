package tests

import (
	"database/sql"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/utils"
)

func WithTmpDir(t testing.TB) (dir string, teardown func()) {
	tmpDir, err := ioutil.TempDir("", "")
	if err != nil {
		t.Fatal(err)
	}
	return tmpDir, func() {
		os.RemoveAll(tmpDir)
	}
}

func WithTmpFile(t testing.TB, name string) (file *os.File, teardown func()) {
	var teardowns utils.Teardowns
	dir, teardown := WithTmpDir(t)
	teardowns.Add(teardown)

	path := filepath.Join(dir, name)
	var err error
	file, err = os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	teardowns.AddErr(file.Close)
	return file, func() { teardowns.Teardown() }
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	if err := utils.EnsureDirForFile(path); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the contents of path.
func ReadFile(t testing.TB, path string) string {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// EventRecorder collects events emitted through its Logger.
type EventRecorder struct {
	Logger *events.Logger

	mut    sync.Mutex
	events []*events.Event
}

// CaptureEvents returns a recorder whose Logger has debug enabled.
func CaptureEvents() *EventRecorder {
	r := &EventRecorder{}
	r.Logger = events.NewLogger(events.HandlerFunc(func(e *events.Event) {
		r.mut.Lock()
		r.events = append(r.events, e.Clone())
		r.mut.Unlock()
	}))
	r.Logger.EnableDebug = true
	return r
}

// Events returns the recorded events, optionally only those whose message
// equals one of msgs.
func (r *EventRecorder) Events(msgs ...string) []*events.Event {
	r.mut.Lock()
	defer r.mut.Unlock()
	if len(msgs) == 0 {
		return append([]*events.Event(nil), r.events...)
	}
	var out []*events.Event
	for _, e := range r.events {
		for _, m := range msgs {
			if e.Message == m {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Messages returns the messages of all non-debug events.
func (r *EventRecorder) Messages() []string {
	var out []string
	for _, e := range r.Events() {
		if !e.Debug {
			out = append(out, e.Message)
		}
	}
	return out
}

// Arg returns the value of the named argument of e.
func Arg(e *events.Event, name string) (interface{}, bool) {
	for _, a := range e.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// MySQLDSN returns the DSN of the MySQL instance used by export tests,
// skipping the test when none is configured or reachable.
func MySQLDSN(t testing.TB) string {
	dsn := os.Getenv("DATAPUBLIC_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("DATAPUBLIC_TEST_MYSQL_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err == nil {
		err = db.Ping()
		db.Close()
	}
	if err != nil {
		t.Skipf("mysql not reachable: %v", err)
	}
	return dsn
}
