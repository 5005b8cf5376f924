// Package health serves liveness and readiness probes.
//
// LivenessHandler always answers 200 while the process is up. ReadinessHandler
// runs a set of named checks in parallel under a shared timeout and answers
// 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "smtp":  sender.Healthcheck(),
//	    "redis": redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Probes get plain text ("OK" / "Service Unavailable"). Clients that send
// Accept: application/json or ?format=json get the per-check breakdown:
//
//	{"status":"unhealthy","checks":{"smtp":{"status":"unhealthy","error":"dial tcp: connection refused","duration_ms":3}}}
package health
