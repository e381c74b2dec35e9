package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/sources"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	useFlagQuiet(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists the registered sources",
	Long: unindent(`
		Lists the registered sources

		For each source the output shows its inputs, the fields that index
		its rows and how many native columns its mappings declare.
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Flags().GetBool(keyQuiet)
		if err != nil {
			return err
		}
		return printSources(cmd.OutOrStdout(), quiet)
	},
}

func printSources(w io.Writer, quiet bool) error {
	t := newTable(w, quiet, "SOURCE", "INPUTS", "INDEX", "NATIVE COLUMNS")
	for _, name := range sources.Names() {
		src, err := sources.Get(name)
		if err != nil {
			return err
		}
		var inputs []string
		for _, in := range src.Inputs() {
			if in.Dir {
				inputs = append(inputs, in.Name+"/")
				continue
			}
			inputs = append(inputs, in.Name)
		}
		natives := 0
		for _, m := range src.Mappings() {
			natives += m.Len()
		}
		t.AppendRow([]interface{}{
			name,
			strings.Join(inputs, ","),
			strings.Join(fields.Strings(src.IndexFields()), ","),
			natives,
		})
	}
	t.Render()
	return nil
}
