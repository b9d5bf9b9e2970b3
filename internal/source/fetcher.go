package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/app/appconfig"
)

// maxResourceSize caps the size of a remote history resource.
const maxResourceSize = 32 << 20

// ErrResourceUnavailable is returned when the history resource cannot be read.
// It skips every stage that parses the resource.
var ErrResourceUnavailable = errors.New("history resource unavailable")

// FetchFunc reads the raw bytes behind a resource location.
type FetchFunc func(ctx context.Context, location string) ([]byte, error)

// Fetcher reads history resources from the filesystem, over http(s) or from S3.
type Fetcher struct {
	conf    *appconfig.Config
	client  *http.Client
	maxSize int64

	s3Once   sync.Once
	s3Client *s3.Client
	s3Err    error
}

func NewFetcher(conf *appconfig.Config) *Fetcher {
	return &Fetcher{
		conf: conf,
		client: &http.Client{
			Timeout: conf.HistoryFetchTimeout,
		},
		maxSize: maxResourceSize,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.Wrap(ErrResourceUnavailable, "no history resource configured")
	}

	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		// plain paths, including windows drive letters
		return readFile(location)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return readFile(u.Path)
	case "http", "https":
		return f.fetchHTTP(ctx, location)
	case "s3":
		return f.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, errors.Wrapf(ErrResourceUnavailable, "unsupported scheme %q", u.Scheme)
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(ErrResourceUnavailable, err.Error())
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	attempts := f.conf.HistoryFetchAttempts
	if attempts == 0 {
		attempts = 1
	}

	var data []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := f.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				err := fmt.Errorf("unexpected status %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			data, err = f.readLimited(resp.Body)
			if errors.Is(err, errResourceTooLarge) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Err(err).
				Str("evt.name", "source.fetch.retry").
				Uint("attempt", n+1).
				Str("resource", location).
				Msg("retrying history resource fetch")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(ErrResourceUnavailable, err.Error())
	}
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" || key == "" {
		return nil, errors.Wrap(ErrResourceUnavailable, "s3 location needs both bucket and key")
	}

	client, err := f.s3(ctx)
	if err != nil {
		return nil, errors.Wrap(ErrResourceUnavailable, err.Error())
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			log.Warn().
				Str("evt.name", "source.fetch.s3").
				Str("bucket", bucket).
				Str("key", key).
				Str("code", ae.ErrorCode()).
				Msg("s3 rejected history resource request")
			return nil, errors.Wrapf(ErrResourceUnavailable, "s3: %s: %s", ae.ErrorCode(), ae.ErrorMessage())
		}
		return nil, errors.Wrap(ErrResourceUnavailable, err.Error())
	}
	defer out.Body.Close()

	data, err := f.readLimited(out.Body)
	if err != nil {
		return nil, errors.Wrap(ErrResourceUnavailable, err.Error())
	}
	return data, nil
}

var errResourceTooLarge = errors.New("resource exceeds size limit")

// readLimited reads r in full. A body larger than maxSize is rejected rather
// than truncated into a partial table.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxSize {
		return nil, errors.Wrapf(errResourceTooLarge, "more than %d bytes", f.maxSize)
	}
	return buf.Bytes(), nil
}

func (f *Fetcher) s3(ctx context.Context) (*s3.Client, error) {
	f.s3Once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if f.conf.AWSRegion != "" {
			opts = append(opts, awsconfig.WithRegion(f.conf.AWSRegion))
		}
		if f.conf.AWSAccessKey != "" && f.conf.AWSSecretKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(f.conf.AWSAccessKey, f.conf.AWSSecretKey, ""),
			))
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			f.s3Err = err
			return
		}
		f.s3Client = s3.NewFromConfig(cfg)
	})
	return f.s3Client, f.s3Err
}
