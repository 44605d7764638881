package fetch

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrFetchFailed matches every error returned by Fetch.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError is the only error kind the fetcher produces. It covers transport
// failures, non-2xx responses and bodies that are not a JSON array of records.
type FetchError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailed) hold for any *FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
