package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/askanna-io/askanna-cli/internal/chunks"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type part struct {
	index int
	path  string
	size  int64
}

type session struct {
	d         *Downloader
	preflight *PreflightResult
	plan      chunks.Plan
	pending   []chunks.Chunk
	finished  []part
	remaining int
	unit      string
	dir       string
	done      int64
}

func (d *Downloader) newSession(preflight *PreflightResult, dest string) (*session, error) {
	plan, err := chunks.NewPlan(preflight.Size, d.opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	root := d.opts.TempRoot
	if root == "" {
		root = filepath.Dir(dest)
	}
	dir := filepath.Join(root, utils.TempDirName, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating temp directory: %v", err)
	}
	unit := d.opts.RangeUnit
	if unit == "" {
		unit = preflight.AcceptRanges
	}
	pending := make([]chunks.Chunk, len(plan))
	copy(pending, plan)
	return &session{
		d:         d,
		preflight: preflight,
		plan:      plan,
		pending:   pending,
		remaining: d.opts.MaxRetries,
		unit:      unit,
		dir:       dir,
	}, nil
}

func (s *session) failures() int {
	return s.d.opts.MaxRetries - s.remaining
}

func (s *session) partPath(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("file_%d.part", index))
}

func (s *session) rangeHeader(c chunks.Chunk) string {
	return fmt.Sprintf("%s=%d-%d", s.unit, c.StartByte, c.EndByte)
}

// run drains the pending queue. Every failure, whichever chunk it hit, spends
// one unit of the session budget.
func (s *session) run(ctx context.Context) error {
	for len(s.pending) > 0 {
		c := s.pending[0]
		s.pending = s.pending[1:]

		n, err := s.fetch(ctx, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.remaining--
			log.Debug().Str("op", "download/session").Err(err).Int("chunkId", c.Index).Int("remaining", s.remaining).Msg("Chunk attempt failed")
			if s.remaining <= 0 {
				return &GetError{Index: c.Index, URL: s.preflight.SourceURL, Err: err}
			}
			s.pending = append(s.pending, c)
			if delay := s.d.opts.RetryDelay; delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(s.failures()) * delay):
				}
			}
			continue
		}

		s.finished = append(s.finished, part{index: c.Index, path: s.partPath(c.Index), size: n})
		s.done += n
		if s.d.opts.Progress != nil {
			s.d.opts.Progress(s.done, s.preflight.Size)
		}
	}
	return nil
}

func (s *session) fetch(ctx context.Context, c chunks.Chunk) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.preflight.FinalURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", s.rangeHeader(c))
	resp, err := s.d.client.Do(req)
	if err != nil {
		// the url.Error text repeats the storage URL, which may carry a signature
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return 0, urlErr.Err
		}
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	path := s.partPath(c.Index)
	partFile, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("error creating part file: %v", err)
	}
	n, err := io.Copy(partFile, resp.Body)
	if closeErr := partFile.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = errEmptyBody
	}
	if want := c.Len(s.preflight.Size); err == nil && resp.StatusCode == http.StatusPartialContent && s.preflight.Size > 0 && n != want {
		err = fmt.Errorf("%w: got %d of %d bytes", errShortBody, n, want)
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return n, nil
}

// assemble concatenates the parts in index order into a staging file inside
// the session directory and moves it onto dest.
func (s *session) assemble(dest string, overwrite bool) (int64, error) {
	if len(s.finished) != s.plan.Count() {
		return 0, fmt.Errorf("only %d of %d chunks finished", len(s.finished), len(s.plan))
	}
	sort.Slice(s.finished, func(i, j int) bool {
		return s.finished[i].index < s.finished[j].index
	})

	staging := filepath.Join(s.dir, "assembled")
	out, err := os.OpenFile(staging, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %v", err)
	}
	var written int64
	for _, p := range s.finished {
		in, err := os.Open(p.path)
		if err != nil {
			out.Close()
			return 0, fmt.Errorf("error opening chunk %d: %v", p.index, err)
		}
		n, err := io.Copy(out, in)
		in.Close()
		if err != nil {
			out.Close()
			return 0, fmt.Errorf("error copying chunk %d: %v", p.index, err)
		}
		written += n
		os.Remove(p.path)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return 0, fmt.Errorf("%w: %s", ErrDestinationExists, dest)
		}
	}
	if err := os.Rename(staging, dest); err != nil {
		return 0, fmt.Errorf("error renaming (finalizing) output file: %v", err)
	}
	return written, nil
}

// close removes the session directory and, when nothing else uses it, the
// shared temp directory above it.
func (s *session) close() {
	os.RemoveAll(s.dir)
	os.Remove(filepath.Dir(s.dir)) // fails while other sessions still use it
}
