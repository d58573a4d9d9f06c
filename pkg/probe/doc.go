// Package probe checks that the backends named by the loaded settings are
// reachable.
//
// Every probe is built from one validated settings section and performs a
// single read-only round trip:
//
//   - auth: signs and verifies a token with the configured HMAC algorithm
//   - openai: GET <api base>/models with the configured API key
//   - postgres: ping plus SELECT 1 over DatabaseURL (lib/pq)
//   - qdrant: GET <url>/readyz
//   - minio: ListBuckets against Endpoint with static credentials
//   - redis: PING over URL (go-redis)
//
// A section whose probe cannot be built, such as an auth section with a
// non-HMAC algorithm, gets a probe that reports the build error from Check.
//
// Probes never create, write or delete anything. Each check runs inside an
// OpenTelemetry span named "probe.<name>".
//
//	probes := probe.FromSettings(ctx, settings)
//	defer probe.CloseAll(probes)
//
//	for _, p := range probes {
//		if err := p.Check(ctx); err != nil {
//			log.Printf("%s: %v", p.Name(), err)
//		}
//	}
package probe
