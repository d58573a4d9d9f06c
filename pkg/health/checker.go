package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/ragstack/pkg/observability"
	"github.com/platinummonkey/ragstack/pkg/probe"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// DefaultTimeout bounds a single probe check
const DefaultTimeout = 5 * time.Second

// DefaultCritical lists the probes whose failure makes the service unhealthy
var DefaultCritical = []string{"auth", "postgres"}

// Status represents the overall health status
type Status struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"-"`
	LatencyMS int64         `json:"latency_ms"`
	Critical  bool          `json:"critical"`
	Timestamp time.Time     `json:"timestamp"`
}

// Failed returns the names of dependencies that did not report healthy, sorted
func (s Status) Failed() []string {
	var out []string
	for name, dep := range s.Dependencies {
		if dep.Status != StatusHealthy {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Checker runs probes and aggregates their results
type Checker struct {
	probes   []probe.Probe
	timeout  time.Duration
	critical map[string]bool
	metrics  *observability.Metrics
	logger   *observability.Logger
	version  string
	now      func() time.Time
}

// Option configures a Checker
type Option func(*Checker)

// WithTimeout sets the per-probe timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCritical replaces the set of critical probe names
func WithCritical(names ...string) Option {
	return func(c *Checker) {
		c.critical = make(map[string]bool, len(names))
		for _, n := range names {
			c.critical[n] = true
		}
	}
}

// WithMetrics records every check on m
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithLogger sets the logger used for failed checks
func WithLogger(l *observability.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVersion sets the version reported in Status
func WithVersion(v string) Option {
	return func(c *Checker) { c.version = v }
}

// NewChecker creates a new health checker over probes
func NewChecker(probes []probe.Probe, opts ...Option) *Checker {
	c := &Checker{
		probes:  probes,
		timeout: DefaultTimeout,
		logger:  observability.NopLogger(),
		now:     time.Now,
	}
	WithCritical(DefaultCritical...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs all probes concurrently and returns the aggregate status.
// It never returns early: every probe gets its own timeout and reports.
func (c *Checker) Check(ctx context.Context) Status {
	status := Status{
		Status:       StatusHealthy,
		Timestamp:    c.now(),
		Version:      c.version,
		Dependencies: make(map[string]DependencyStatus, len(c.probes)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, p := range c.probes {
		p := p
		g.Go(func() error {
			dep := c.checkOne(ctx, p)
			mu.Lock()
			status.Dependencies[p.Name()] = dep
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, dep := range status.Dependencies {
		if dep.Status == StatusHealthy {
			continue
		}
		if dep.Critical {
			status.Status = StatusUnhealthy
		} else if status.Status != StatusUnhealthy {
			status.Status = StatusDegraded
		}
	}

	if c.metrics != nil {
		c.metrics.RecordHealthCheck(status.Status)
	}
	return status
}

func (c *Checker) checkOne(ctx context.Context, p probe.Probe) DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name := p.Name()
	start := time.Now()
	err := c.runProbe(ctx, p)
	latency := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordDependencyCheck(name, latency, err)
	}

	dep := DependencyStatus{
		Status:    StatusHealthy,
		Latency:   latency,
		LatencyMS: latency.Milliseconds(),
		Critical:  c.critical[name],
		Timestamp: c.now(),
	}
	if err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
		c.logger.WithFields(map[string]interface{}{
			"dependency": name,
			"critical":   dep.Critical,
			"latency_ms": latency.Milliseconds(),
		}).WithError(err).Warn("dependency check failed")
	}
	return dep
}

func (c *Checker) runProbe(ctx context.Context, p probe.Probe) (err error) {
	defer observability.RecoverAsError(c.logger, "probe "+p.Name(), &err)
	return p.Check(ctx)
}
