// Package reconcile renames the columns of a source table onto canonical
// fields and reports columns that drifted from the source's mapping.
package reconcile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// Log messages other tooling greps for. Do not change them.
const (
	MissingColumnsMessage = "DataFrame is missing expected column(s)"
	ExtraColumnsMessage   = "DataFrame has extra unexpected column(s)"
)

const (
	suggestionsHeader = "-- Add the following lines to the appropriate source mapping --"
	suggestionsFooter = "-- end of suggested new fields --"
)

type Options struct {
	// Logger receives the extra and missing column events. Defaults to
	// events.DefaultLogger.
	Logger *events.Logger
	// SkipExtraFieldCheck disables the unexpected column diagnostic, for
	// sources that knowingly carry many unmapped columns.
	SkipExtraFieldCheck bool
	// Suggestions receives mapping entries for unexpected columns. When nil
	// they are logged at debug level.
	Suggestions io.Writer
}

func (o Options) logger() *events.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return events.DefaultLogger
}

// Report describes how a set of columns differs from a mapping.
type Report struct {
	// Extra columns are in the table but neither declared nor already canonical.
	Extra []string
	// Missing are declared native names with a canonical field that are not
	// in the table.
	Missing []string
}

// Check compares columns against m. Both lists in the report are sorted.
func Check(columns []string, m *schema.Mapping, alreadyCanonical []string) Report {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	skip := make(map[string]bool, len(alreadyCanonical))
	for _, c := range alreadyCanonical {
		skip[c] = true
	}

	var r Report
	for _, c := range columns {
		if !m.Has(c) && !skip[c] {
			r.Extra = append(r.Extra, c)
		}
	}
	for _, native := range m.MappedNativeNames() {
		if !present[native] {
			r.Missing = append(r.Missing, native)
		}
	}
	sort.Strings(r.Extra)
	sort.Strings(r.Missing)
	return r
}

// Reconcile returns a table holding only the columns of t that map to a
// canonical field, renamed to that field, plus the alreadyCanonical columns
// unchanged. Columns are ordered by the field registry.
//
// Unexpected and missing columns are logged and tolerated. Two columns
// resolving to one canonical name is a *errs.ConfigurationError, as is a
// mapping where two native names share a canonical field even when the
// table holds only one of them.
func Reconcile(t *table.Table, m *schema.Mapping, alreadyCanonical []string, opts Options) (*table.Table, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	columns := t.Columns()
	report := Check(columns, m, alreadyCanonical)
	if len(report.Extra) > 0 && !opts.SkipExtraFieldCheck {
		log.With(events.Args{{Name: "extra_fields", Value: report.Extra}}).Log(ExtraColumnsMessage)
		globalstats.Incr("reconcile.extra_columns", m.Source())
		writeSuggestions(opts.Suggestions, log, report.Extra)
	}
	if len(report.Missing) > 0 {
		log.With(events.Args{{Name: "missing_fields", Value: report.Missing}}).Log(MissingColumnsMessage)
		globalstats.Incr("reconcile.missing_columns", m.Source())
	}

	var (
		rename = make(map[string]string, len(columns))
		// canonical name -> column producing it
		produced = make(map[string]string, len(columns))
		keep     []string
	)
	for _, c := range alreadyCanonical {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("already canonical column %q is not in the table", c)
		}
		if _, dup := produced[c]; dup {
			continue
		}
		rename[c] = c
		produced[c] = c
		keep = append(keep, c)
	}
	for _, c := range columns {
		sf, ok := m.Get(c)
		if !ok || sf.Canonical == fields.None {
			continue
		}
		if _, ok := rename[c]; ok {
			return nil, errs.Configuration(m.Source(), "field %q misconfigured: column is also passed as already canonical", c)
		}
		target := sf.Canonical.String()
		if prev, ok := produced[target]; ok {
			return nil, errs.Configuration(m.Source(), "field %q misconfigured: %s is already produced by column %q", c, target, prev)
		}
		rename[c] = target
		produced[target] = c
		keep = append(keep, c)
	}

	selected, err := t.Select(keep...)
	if err != nil {
		return nil, err
	}
	renamed, err := selected.Rename(rename)
	if err != nil {
		return nil, err
	}
	return renamed.Reorder(fields.SortColumns(renamed.Columns()))
}

// EnumName derives an upper snake case name from a native column name by
// inserting an underscore before every capital not at the start.
func EnumName(native string) string {
	var b strings.Builder
	for i, r := range native {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// SuggestionLines returns one mapping entry per column, ready to paste into
// a source definition.
func SuggestionLines(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = fmt.Sprintf("\t{Native: %q}, // %s", c, EnumName(c))
	}
	return out
}

func writeSuggestions(w io.Writer, log *events.Logger, extra []string) {
	lines := SuggestionLines(extra)
	if w == nil {
		log.Debug(suggestionsHeader)
		for _, l := range lines {
			log.Debug("%{suggestion}s", strings.TrimSpace(l))
		}
		log.Debug(suggestionsFooter)
		return
	}
	fmt.Fprintln(w, suggestionsHeader)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, suggestionsFooter)
}
