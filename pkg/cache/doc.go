// Package cache stores downloaded attachment content between requests.
//
// Two backends implement [Cache]: [Memory], a size-bounded LRU with per-entry
// expiry, and [Redis], which keeps entries under a key prefix so several
// relays can share one instance. [Loader] sits in front of either and
// collapses concurrent misses for the same key into a single load:
//
//	c := cache.NewMemory[[]byte](cache.WithMaxEntries(256))
//	l := cache.NewLoader[[]byte](c, 5*time.Minute)
//	data, err := l.Load(ctx, url, func(ctx context.Context) ([]byte, bool, error) {
//	    body, err := download(ctx, url)
//	    return body, err == nil, err
//	})
//
// Failed loads are never stored, and a LoadFunc can opt out of storing a
// successful result. Cache errors on the read or write path are
// logged by the Loader and otherwise ignored; the cache only ever saves work.
package cache
