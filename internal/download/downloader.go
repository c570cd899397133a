// Package download reconstructs a remote file from ranged GET requests.
//
// A download runs as a single-threaded session: one HEAD preflight, a chunk
// plan, and a queue drained one range at a time. Failed ranges go to the back
// of the queue and draw from one retry budget shared by the whole session.
// Part files live in a session-unique directory that is removed when the
// session ends, whichever way it ends.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
)

const (
	DefaultChunkSize    int64 = 10 * 1024 * 1024
	DefaultMaxRetries         = 5
	DefaultMaxRedirects       = 10
	DefaultRetryDelay         = 500 * time.Millisecond
)

type Options struct {
	ChunkSize    int64
	MaxRetries   int // session-wide, not per chunk
	MaxRedirects int
	// RangeUnit replaces the Accept-Ranges token as the unit of the Range
	// header. Empty keeps the advertised token, even when it is "none".
	RangeUnit string
	Overwrite bool
	// TempRoot holds the session directory; defaults to the destination's
	// parent directory.
	TempRoot   string
	RetryDelay time.Duration // multiplied by the number of failures so far
	Progress   func(done, total int64)
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:    DefaultChunkSize,
		MaxRetries:   DefaultMaxRetries,
		MaxRedirects: DefaultMaxRedirects,
		RetryDelay:   DefaultRetryDelay,
	}
}

type Downloader struct {
	client utils.HTTPDoer
	opts   Options
}

type Result struct {
	Preflight PreflightResult
	Bytes     int64
	Chunks    int
	Failures  int
}

func New(client utils.HTTPDoer, opts Options) *Downloader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	return &Downloader{client: client, opts: opts}
}

// Download fetches sourceURL into dest. Nothing is written at dest unless
// every chunk succeeded.
func (d *Downloader) Download(ctx context.Context, sourceURL, dest string) (*Result, error) {
	if err := d.checkDestination(dest); err != nil {
		return nil, err
	}
	preflight, err := d.Preflight(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	return d.DownloadPreflighted(ctx, preflight, dest)
}

// DownloadPreflighted runs the ranged transfer for a preflight the caller
// already made, without a second HEAD walk.
func (d *Downloader) DownloadPreflighted(ctx context.Context, preflight *PreflightResult, dest string) (*Result, error) {
	if err := d.checkDestination(dest); err != nil {
		return nil, err
	}
	if preflight.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: preflight.SourceURL, StatusCode: preflight.StatusCode}
	}

	session, err := d.newSession(preflight, dest)
	if err != nil {
		return nil, err
	}
	defer session.close()

	if preflight.Size == 0 {
		log.Debug().Str("op", "download/downloader").Msgf("No size advertised for %s, fetching a single chunk", dest)
	}
	if err := session.run(ctx); err != nil {
		return nil, err
	}
	written, err := session.assemble(dest, d.opts.Overwrite)
	if err != nil {
		return nil, err
	}
	log.Info().Str("op", "download/downloader").Int("chunks", session.plan.Count()).Int("failures", session.failures()).Msgf("Download complete for %s", dest)
	return &Result{
		Preflight: *preflight,
		Bytes:     written,
		Chunks:    session.plan.Count(),
		Failures:  session.failures(),
	}, nil
}

func (d *Downloader) checkDestination(dest string) error {
	info, err := os.Stat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationIsDir, dest)
	}
	if !d.opts.Overwrite {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}
	return nil
}
