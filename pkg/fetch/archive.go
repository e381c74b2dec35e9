package fetch

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/table"
)

const archiveLinkMarker = "data.cms.gov/download"

var weekEnding = regexp.MustCompile(`Week Ending (\S+)`)

// ArchiveLink is one weekly dataset on the CMS archive page.
type ArchiveLink struct {
	Name       string
	URL        string
	WeekEnding time.Time
}

// FileName is where the dataset is stored in an archive directory.
func (l ArchiveLink) FileName(ext string) string {
	return l.WeekEnding.Format(table.DateLayout) + ext
}

// ArchiveLinks returns the dataset download links of the CMS archive index
// page in document order.
func ArchiveLinks(r io.Reader) ([]ArchiveLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse archive index")
	}
	var (
		links []ArchiveLink
		bad   error
	)
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, archiveLinkMarker) || bad != nil {
			return
		}
		name := strings.TrimSpace(a.Text())
		m := weekEnding.FindStringSubmatch(name)
		if m == nil {
			bad = errors.Errorf("archive link %q has no week ending date", name)
			return
		}
		date, err := time.Parse("1/2/06", m[1])
		if err != nil {
			bad = errors.Wrapf(err, "archive link %q", name)
			return
		}
		links = append(links, ArchiveLink{Name: name, URL: href, WeekEnding: date})
	})
	return links, bad
}

// DownloadArchive fetches the index page and every dataset it links to into
// dir, named by week ending date.
func (f *Fetcher) DownloadArchive(ctx context.Context, indexURL, dir string) ([]ArchiveLink, error) {
	body, err := f.Get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	links, err := ArchiveLinks(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if err := f.Download(ctx, l.URL, filepath.Join(dir, l.FileName(".zip"))); err != nil {
			return nil, err
		}
	}
	return links, nil
}
