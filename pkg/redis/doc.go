// Package redis opens go-redis clients from a URL-based Config.
//
// Open verifies the connection with PING, retrying a bounded number of times
// with a linear backoff, so the process fails fast on a misconfigured
// REDIS_URL instead of on the first cache lookup. Both redis:// and rediss://
// (TLS) URLs are accepted.
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	checks["redis"] = redis.Healthcheck(client)
//	hooks = append(hooks, redis.Shutdown(client))
package redis
