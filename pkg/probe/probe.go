package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/ragstack/pkg/config"
)

var tracer = otel.Tracer("github.com/platinummonkey/ragstack/pkg/probe")

// DefaultOpenAIBaseURL is the API base used by the openai probe
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// Probe checks one backend
type Probe interface {
	Name() string
	Check(ctx context.Context) error
	Close() error
}

// Options tunes how probes are built from settings
type Options struct {
	HTTPClient    *http.Client
	OpenAIBaseURL string
	// PostgresSSLMode is appended to the connection URL as sslmode
	PostgresSSLMode string
	// S3Region is the signing region used against the object store
	S3Region string
}

// Option mutates Options
type Option func(*Options)

// WithHTTPClient sets the client used by the qdrant and openai probes
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

// WithOpenAIBaseURL overrides DefaultOpenAIBaseURL
func WithOpenAIBaseURL(u string) Option {
	return func(o *Options) { o.OpenAIBaseURL = u }
}

// WithPostgresSSLMode sets the sslmode passed to lib/pq
func WithPostgresSSLMode(mode string) Option {
	return func(o *Options) { o.PostgresSSLMode = mode }
}

// WithS3Region sets the region used to sign MinIO requests
func WithS3Region(region string) Option {
	return func(o *Options) { o.S3Region = region }
}

func defaultOptions() Options {
	return Options{
		HTTPClient:      &http.Client{Timeout: 10 * time.Second},
		OpenAIBaseURL:   DefaultOpenAIBaseURL,
		PostgresSSLMode: "disable",
		S3Region:        "us-east-1",
	}
}

// FromSettings builds one probe per section of s. Building opens no network
// connections. A section whose probe cannot be built still gets a probe,
// one that reports the build error from Check, so the remaining sections
// are checked as usual.
func FromSettings(ctx context.Context, s *config.Settings, opts ...Option) []Probe {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	probes := make([]Probe, 0, 6)
	add := func(name string, p Probe, err error) {
		if err != nil {
			probes = append(probes, Failed(name, err))
			return
		}
		probes = append(probes, p)
	}

	authProbe, err := NewAuthProbe(s.Auth)
	add(config.SectionAuth, authProbe, err)

	add(config.SectionOpenAI, NewOpenAIProbe(s.OpenAI, o.OpenAIBaseURL, o.HTTPClient), nil)

	pg, err := NewPostgresProbe(s.Postgres, o.PostgresSSLMode)
	add(config.SectionPostgres, pg, err)

	add(config.SectionQdrant, NewQdrantProbe(s.Qdrant, o.HTTPClient), nil)

	minio, err := NewMinioProbe(ctx, s.Minio, o.S3Region)
	add(config.SectionMinio, minio, err)

	rp, err := NewRedisProbe(s.Redis)
	add(config.SectionRedis, rp, err)

	return probes
}

// FailedProbe stands in for a probe that could not be built
type FailedProbe struct {
	name string
	err  error
}

// Failed returns a probe named name whose Check always reports err
func Failed(name string, err error) *FailedProbe {
	return &FailedProbe{name: name, err: err}
}

// Name returns the dependency name
func (p *FailedProbe) Name() string { return p.name }

// Check returns the build error
func (p *FailedProbe) Check(ctx context.Context) error {
	return traced(ctx, p.name, func(context.Context) error {
		return fmt.Errorf("probe not built: %w", p.err)
	})
}

// Close is a no-op
func (p *FailedProbe) Close() error { return nil }

// Select keeps the probes whose names are listed. An empty list keeps all.
func Select(probes []Probe, names ...string) []Probe {
	if len(names) == 0 {
		return probes
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Probe
	for _, p := range probes {
		if want[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}

// CloseAll closes every probe and joins the errors
func CloseAll(probes []Probe) error {
	var errs []error
	for _, p := range probes {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// traced runs fn inside a span for dependency name
func traced(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "probe."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("dependency", name)),
	)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dependency check failed")
		return err
	}

	span.SetStatus(codes.Ok, "dependency reachable")
	return nil
}
