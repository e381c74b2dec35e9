package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/schema"
)

func init() {
	rootCmd.AddCommand(mappingCmd)
	mappingCmd.AddCommand(mappingDumpCmd)
	mappingCmd.AddCommand(mappingValidateCmd)
	useFlagSource(mappingDumpCmd)
	useFlagMappingFile(mappingValidateCmd)
}

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Dumps and validates source mappings",
}

var mappingDumpCmd = &cobra.Command{
	Use:   "dump --source [name]",
	Short: "Prints the mappings of a source as YAML mapping files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := getSource(cmd)
		if err != nil {
			return err
		}
		return dumpMappings(cmd.OutOrStdout(), src.Mappings())
	},
}

var mappingValidateCmd = &cobra.Command{
	Use:   "validate --mapping-file [file]",
	Short: "Validates a YAML mapping file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString(keyMappingFile)
		if err != nil {
			return err
		}
		if path == "" {
			return errs.BadRequest("--%s is required", keyMappingFile)
		}
		m, err := schema.LoadMappingFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d native columns, %d canonical fields\n",
			m.Source(), m.Len(), len(m.CanonicalFields()))
		return nil
	},
}

func dumpMappings(w io.Writer, mappings []*schema.Mapping) error {
	for i, m := range mappings {
		out, err := schema.MarshalMapping(m)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}
