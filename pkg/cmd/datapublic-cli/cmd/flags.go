package cmd

import (
	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fetch"
	"github.com/covidactnow/datapublic/pkg/sources"
)

const (
	keySource                = "source"
	keySourceShort           = "s"
	keyCSV                   = "csv"
	keyMappingFile           = "mapping-file"
	keyMappingFileShort      = "m"
	keyAlreadyCanonical      = "already-canonical"
	keyQuiet                 = "quiet"
	keyQuietShort            = "q"
	keyIndexURL              = "index-url"
	keyDownloadDir           = "download-dir"
	keyTimeout               = "timeout"
	defaultCMSArchiveTimeout = "5m"
)

func useFlagSource(cmd *cobra.Command) {
	cmd.Flags().StringP(keySource, keySourceShort, "", "the name of the source")
}

func useFlagCSV(cmd *cobra.Command) {
	cmd.Flags().String(keyCSV, "", "a CSV file whose header is checked")
}

func useFlagMappingFile(cmd *cobra.Command) {
	cmd.Flags().StringP(keyMappingFile, keyMappingFileShort, "", "a YAML mapping file used instead of the source's mappings")
}

func useFlagAlreadyCanonical(cmd *cobra.Command) {
	cmd.Flags().StringArray(keyAlreadyCanonical, nil, "columns that already carry canonical names")
}

func useFlagQuiet(cmd *cobra.Command) {
	cmd.Flags().BoolP(keyQuiet, keyQuietShort, false, "omit header output")
}

func useFlagIndexURL(cmd *cobra.Command) {
	cmd.Flags().String(keyIndexURL, sources.CMSArchiveIndexURL, "the page listing the weekly archives")
}

func useFlagDownloadDir(cmd *cobra.Command) {
	cmd.Flags().String(keyDownloadDir, "", "download the archives into this directory")
}

func useFlagTimeout(cmd *cobra.Command) {
	cmd.Flags().String(keyTimeout, defaultCMSArchiveTimeout, "timeout of the whole command")
}

func getSource(cmd *cobra.Command) (sources.Source, error) {
	name, err := cmd.Flags().GetString(keySource)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.BadRequest("--%s is required", keySource)
	}
	return sources.Get(name)
}

func newFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Options{RetryCount: 2})
}
