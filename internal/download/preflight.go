package download

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

type PreflightResult struct {
	SourceURL    string
	FinalURL     string
	Size         int64
	AcceptRanges string
	ContentType  string
	StatusCode   int
}

// Preflight issues HEAD requests, following 301/302 Location headers up to
// MaxRedirects hops, and reports what the terminal response advertised.
func (d *Downloader) Preflight(ctx context.Context, sourceURL string) (*PreflightResult, error) {
	current := sourceURL
	redirects := 0
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, current, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
			if location := resp.Header.Get("Location"); location != "" {
				if redirects >= d.opts.MaxRedirects {
					return nil, fmt.Errorf("%w: stopped after %d hops at %s", ErrTooManyRedirects, redirects, current)
				}
				next, err := req.URL.Parse(location)
				if err != nil {
					return nil, fmt.Errorf("%w: bad redirect location %q: %v", ErrConnection, location, err)
				}
				log.Debug().Str("op", "download/preflight").Int("status", resp.StatusCode).Msgf("Following redirect to %s", next.Redacted())
				current = next.String()
				redirects++
				continue
			}
		}

		result := &PreflightResult{
			SourceURL:  sourceURL,
			FinalURL:   current,
			StatusCode: resp.StatusCode,
		}
		if resp.StatusCode == http.StatusOK {
			result.ContentType = resp.Header.Get("Content-Type")
			result.AcceptRanges = resp.Header.Get("Accept-Ranges")
			if result.AcceptRanges == "" {
				result.AcceptRanges = "none"
			}
			if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
				size, err := strconv.ParseInt(contentLength, 10, 64)
				if err == nil && size > 0 {
					result.Size = size
				}
			}
		}
		log.Debug().Str("op", "download/preflight").Int("status", result.StatusCode).Int64("size", result.Size).Str("acceptRanges", result.AcceptRanges).Msg("Preflight finished")
		return result, nil
	}
}
