package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/errs"
)

var rootCmd = &cobra.Command{
	Use:           "datapublic-cli",
	Short:         "datapublic-cli inspects canonical fields, source mappings and upstream files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errs.ExitCode(err))
	}
}
