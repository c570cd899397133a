package download

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrPrecondition      = errors.New("download precondition failed")
	ErrDestinationIsDir  = fmt.Errorf("%w: destination is a directory", ErrPrecondition)
	ErrDestinationExists = fmt.Errorf("%w: destination already exists", ErrPrecondition)
	ErrConnection        = errors.New("connection error")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrGetFailed         = errors.New("get error")
	ErrNotFound          = errors.New("not found")
	errEmptyBody         = errors.New("empty response body")
	errShortBody         = errors.New("partial content shorter than requested range")
)

// GetError reports the chunk that exhausted the session retry budget.
type GetError struct {
	Index int
	URL   string
	Err   error
}

func (e *GetError) Error() string {
	return fmt.Sprintf("get error: chunk %d of %s could not be downloaded: %v", e.Index, e.URL, e.Err)
}

func (e *GetError) Unwrap() error {
	return e.Err
}

func (e *GetError) Is(target error) bool {
	return target == ErrGetFailed
}

// StatusError is a terminal preflight response other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
