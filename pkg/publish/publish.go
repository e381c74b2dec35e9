// Package publish copies pipeline outputs to a local directory or an S3
// prefix.
package publish

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/segmentio/events/v2"
	"github.com/segmentio/stats/v4"

	"github.com/covidactnow/datapublic/pkg/utils"
)

// Destination receives published files. name is relative to the
// destination root and uses forward slashes.
type Destination interface {
	Publish(ctx context.Context, localPath, name string) error
}

type localDestination struct {
	Dir string
}

func (d *localDestination) Publish(ctx context.Context, localPath, name string) error {
	dst := filepath.Join(d.Dir, filepath.FromSlash(name))
	if err := utils.EnsureDirForFile(dst); err != nil {
		return errors.Wrap(err, "ensure destination dir exists")
	}
	fdst, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening destination file")
	}
	defer fdst.Close()
	fsrc, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, "opening src file")
	}
	defer fsrc.Close()

	var src io.Reader = fsrc
	if strings.HasSuffix(name, ".gz") {
		src = newGZIPCompressionReader(fsrc)
	}
	if _, err = io.Copy(fdst, src); err != nil {
		return errors.Wrap(err, "copying file")
	}
	events.Log("Published %{file}s to %{dest}s", localPath, dst)
	return fdst.Close()
}

// sendToS3Func sends the specified content to an s3 bucket
type sendToS3Func func(ctx context.Context, key string, bucket string, body io.Reader) error

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// S3Client is the part of the S3 API the uploader needs.
//
//counterfeiter:generate -o fakes/s3_client.go . S3Client
type S3Client interface {
	manager.UploadAPIClient
}

// NewS3 returns a destination uploading under bucket/prefix with client.
// FromURL builds the client from the default AWS config instead.
func NewS3(bucket, prefix string, client S3Client) Destination {
	return &s3Destination{Bucket: bucket, Prefix: prefix, s3Client: client}
}

type s3Destination struct {
	Bucket       string
	Prefix       string
	sendToS3Func sendToS3Func
	s3Client     S3Client
}

func (d *s3Destination) key(name string) string {
	return strings.TrimPrefix(path.Join(d.Prefix, name), "/")
}

func (d *s3Destination) Publish(ctx context.Context, localPath, name string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, "opening file")
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat file")
	}
	size := stat.Size()
	key := d.key(name)
	var reader io.Reader = bufio.NewReaderSize(f, 1024*32)

	cs, err := getChecksum(localPath)
	if err != nil {
		return errors.Wrap(err, "generate file checksum")
	}

	var gpr *gzipCompressionReader
	if strings.HasSuffix(key, ".gz") {
		events.Log("Compressing s3 payload with GZIP")
		gpr = newGZIPCompressionReader(reader)
		reader = gpr
	}
	events.Log("Uploading %{file}s (%d bytes) to %{bucket}s/%{key}s", localPath, size, d.Bucket, key)

	start := time.Now()
	if err = d.sendToS3(ctx, key, d.Bucket, reader, cs); err != nil {
		return errors.Wrap(err, "send to s3")
	}
	stats.Observe("publish-upload-time", time.Since(start), stats.T("compressed", isCompressed(gpr)))

	events.Log("Successfully uploaded %{file}s to %{bucket}s/%{key}s", localPath, d.Bucket, key)
	if gpr != nil && size > 0 {
		ratio := 1 - (float64(gpr.bytesRead) / float64(size))
		stats.Set("publish-compression-ratio", ratio)
		events.Log("Compression reduced %d -> %d bytes (%0.2f %%)", size, gpr.bytesRead, ratio*100)
	}
	return nil
}

func getChecksum(localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "hash file")
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

func isCompressed(gpr *gzipCompressionReader) string {
	if gpr == nil {
		return "false"
	}
	return "true"
}

func (d *s3Destination) sendToS3(ctx context.Context, key string, bucket string, body io.Reader, cs string) error {
	if d.sendToS3Func != nil {
		return d.sendToS3Func(ctx, key, bucket, body)
	}

	client, err := d.getS3Client(ctx)
	if err != nil {
		return err
	}
	var partMiBs int64 = 16
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = partMiBs * 1024 * 1024
	})

	output, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:            pointer.ToString(bucket),
		Key:               pointer.ToString(key),
		Body:              body,
		ContentType:       pointer.ToString(contentType(key)),
		ChecksumAlgorithm: "sha256",
		Metadata: map[string]string{
			"checksum": cs,
		},
	})
	if err != nil {
		return errors.Wrap(err, "upload with context")
	}
	events.Log("Wrote to S3 location: %s", output.Location)
	return nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	default:
		return "text/plain"
	}
}

func (d *s3Destination) getS3Client(ctx context.Context) (S3Client, error) {
	if d.s3Client != nil {
		return d.s3Client, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return s3.NewFromConfig(cfg), nil
}

// FromURL returns the destination for a file:// directory or an
// s3://bucket/prefix URL.
func FromURL(URL string) (Destination, error) {
	parsed, err := url.Parse(URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing url")
	}
	switch parsed.Scheme {
	case "s3":
		if parsed.Host == "" {
			return nil, errors.Errorf("s3 url %q has no bucket", URL)
		}
		events.Log("Using s3 destination bucket=%v prefix=%v", parsed.Host, parsed.Path)
		return &s3Destination{Bucket: parsed.Host, Prefix: parsed.Path}, nil
	case "file":
		events.Log("Using local FS destination dir=%v", parsed.Path)
		return &localDestination{Dir: parsed.Path}, nil
	default:
		return nil, errors.Errorf("Unknown scheme %s", parsed.Scheme)
	}
}
