package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/fields"
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
	useFlagQuiet(fieldsCmd)
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Lists the canonical fields in output order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Flags().GetBool(keyQuiet)
		if err != nil {
			return err
		}
		printFields(cmd.OutOrStdout(), quiet)
		return nil
	},
}

func printFields(w io.Writer, quiet bool) {
	t := newTable(w, quiet, "#", "FIELD")
	for _, f := range fields.All() {
		t.AppendRow([]interface{}{f.Order(), f.String()})
	}
	t.Render()
}
