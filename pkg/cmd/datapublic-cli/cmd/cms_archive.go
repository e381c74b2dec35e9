package cmd

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fetch"
)

func init() {
	rootCmd.AddCommand(cmsArchiveCmd)
	useFlagIndexURL(cmsArchiveCmd)
	useFlagDownloadDir(cmsArchiveCmd)
	useFlagTimeout(cmsArchiveCmd)
	useFlagQuiet(cmsArchiveCmd)
}

var cmsArchiveCmd = &cobra.Command{
	Use:   "cms-archive",
	Short: "Lists, and optionally downloads, the weekly CMS testing archives",
	Long: unindent(`
		Lists, and optionally downloads, the weekly CMS testing archives

		The archives are spreadsheets inside zip files. They are saved as
		<week ending>.zip and must be exported to <week ending>.csv before
		the cms_testing source can read them.
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		indexURL, err := cmd.Flags().GetString(keyIndexURL)
		if err != nil {
			return err
		}
		dir, err := cmd.Flags().GetString(keyDownloadDir)
		if err != nil {
			return err
		}
		timeoutStr, err := cmd.Flags().GetString(keyTimeout)
		if err != nil {
			return err
		}
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return errs.BadRequest("invalid --%s: %v", keyTimeout, err)
		}
		quiet, err := cmd.Flags().GetBool(keyQuiet)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return cmsArchive(ctx, cmd.OutOrStdout(), newFetcher(), indexURL, dir, quiet)
	},
}

func cmsArchive(ctx context.Context, w io.Writer, f *fetch.Fetcher, indexURL, dir string, quiet bool) error {
	var (
		links []fetch.ArchiveLink
		err   error
	)
	if dir != "" {
		links, err = f.DownloadArchive(ctx, indexURL, dir)
	} else {
		var body []byte
		body, err = f.Get(ctx, indexURL)
		if err == nil {
			links, err = fetch.ArchiveLinks(bytes.NewReader(body))
		}
	}
	if err != nil {
		return err
	}
	t := newTable(w, quiet, "WEEK ENDING", "FILE", "URL")
	for _, l := range links {
		t.AppendRow([]interface{}{l.FileName(""), l.FileName(".zip"), l.URL})
	}
	t.Render()
	return nil
}
