// Package health aggregates dependency probes into a single service status
// and exposes it over HTTP.
//
// A Checker runs every probe concurrently with a per-probe timeout. A failed
// critical probe makes the aggregate unhealthy; any other failure makes it
// degraded. Results are recorded as Prometheus metrics when a Metrics value
// is supplied.
//
// Routes:
//
//	GET /health        full status, 503 when unhealthy
//	GET /health/ready  same as /health
//	GET /health/live   always 200 while the process is serving
//	GET /metrics       Prometheus exposition
package health
