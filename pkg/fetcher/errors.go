package fetcher

import (
	"errors"
	"fmt"
)

// Stage tells where a fetch failed.
type Stage string

const (
	// StageRequest covers everything up to receiving response headers:
	// URL validation, DNS, connect, TLS and timeouts.
	StageRequest Stage = "request"
	// StageBody means the response arrived but its body could not be read.
	StageBody Stage = "body"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	ErrHostNotAllowed    = errors.New("host is not in the allow-list")
	ErrTooLarge          = errors.New("attachment exceeds size limit")
	ErrNoObjectStore     = errors.New("s3 urls require an object store")
)

// FetchError is a failed fetch.
type FetchError struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *FetchError) Error() string {
	switch e.Stage {
	case StageBody:
		return fmt.Sprintf("read body from %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("request %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
