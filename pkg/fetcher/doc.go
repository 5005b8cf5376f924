// Package fetcher downloads attachment content.
//
// A Fetcher resolves http, https and (when an object store is configured)
// s3 URLs. Failures are reported as *FetchError with a Stage telling whether
// the request itself failed or the response body could not be read:
//
//	data, err := f.Fetch(ctx, "https://files.example.com/report.pdf")
//	var fe *fetcher.FetchError
//	if errors.As(err, &fe) && fe.Stage == fetcher.StageBody {
//	    // connection dropped mid-download
//	}
//
// The HTTP status code is not checked. A 404 page is returned like any other
// body and logged at warn level. Nothing is retried.
//
// Optional hardening is available through Config: a per-fetch timeout, a
// size cap, a host allow-list and a read-through cache shared by concurrent
// requests for the same URL.
package fetcher
