package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	useFlagSource(checkCmd)
	useFlagCSV(checkCmd)
	useFlagMappingFile(checkCmd)
	useFlagAlreadyCanonical(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check --csv [file] (--source [name] | --mapping-file [file])",
	Short: "Checks the header of a CSV file against source mappings",
	Long: unindent(`
		Checks the header of a CSV file against source mappings

		Every mapping of the source, or the mapping in the given file, is
		compared with the columns of the CSV file. Unexpected columns are
		printed together with mapping entries that can be pasted into the
		source definition. Missing columns are declared by the mapping with a
		canonical field but absent from the file.
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath, err := cmd.Flags().GetString(keyCSV)
		if err != nil {
			return err
		}
		if csvPath == "" {
			return errs.BadRequest("--%s is required", keyCSV)
		}
		already, err := cmd.Flags().GetStringArray(keyAlreadyCanonical)
		if err != nil {
			return err
		}
		mappings, err := getMappings(cmd)
		if err != nil {
			return err
		}
		header, err := readHeader(csvPath)
		if err != nil {
			return err
		}
		checkHeader(cmd.OutOrStdout(), header, mappings, already)
		return nil
	},
}

func getMappings(cmd *cobra.Command) ([]*schema.Mapping, error) {
	path, err := cmd.Flags().GetString(keyMappingFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		m, err := schema.LoadMappingFile(path)
		if err != nil {
			return nil, err
		}
		return []*schema.Mapping{m}, nil
	}
	src, err := getSource(cmd)
	if err != nil {
		return nil, err
	}
	return src.Mappings(), nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	return header, nil
}

func checkHeader(w io.Writer, header []string, mappings []*schema.Mapping, already []string) {
	for _, m := range mappings {
		report := reconcile.Check(header, m, already)
		fmt.Fprintf(w, "%s: %d columns, %d unexpected, %d missing\n", m.Source(), len(header), len(report.Extra), len(report.Missing))
		if len(report.Missing) > 0 {
			fmt.Fprintf(w, "missing: %s\n", strings.Join(report.Missing, ", "))
		}
		if len(report.Extra) > 0 {
			fmt.Fprintf(w, "unexpected: %s\n", strings.Join(report.Extra, ", "))
			for _, line := range reconcile.SuggestionLines(report.Extra) {
				fmt.Fprintln(w, line)
			}
		}
	}
}
