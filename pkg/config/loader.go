package config

import (
	"os"
	"strings"

	"github.com/platinummonkey/ragstack/pkg/observability"
)

// DefaultEnvFile is the environment file consulted when no other path is given,
// relative to the working directory of the process.
const DefaultEnvFile = ".env"

// EnvFileStatus describes the environment file consulted by a load
type EnvFileStatus struct {
	Path   string `json:"path" yaml:"path"`
	Loaded bool   `json:"loaded" yaml:"loaded"`
}

// Loader reads Settings from the environment and an environment file
type Loader struct {
	envFile string
	environ func() []string
	logger  *observability.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithEnvFile sets the environment file path
func WithEnvFile(path string) Option {
	return func(l *Loader) {
		l.envFile = path
	}
}

// WithoutEnvFile disables the environment file fallback
func WithoutEnvFile() Option {
	return func(l *Loader) {
		l.envFile = ""
	}
}

// WithEnviron replaces the process environment with KEY=VALUE pairs
func WithEnviron(environ []string) Option {
	return func(l *Loader) {
		l.environ = func() []string { return environ }
	}
}

// WithLogger sets the logger used to report what was loaded
func WithLogger(logger *observability.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader reading os.Environ and DefaultEnvFile
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		envFile: DefaultEnvFile,
		environ: os.Environ,
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is shorthand for NewLoader(opts...).Load()
func Load(opts ...Option) (*Settings, error) {
	return NewLoader(opts...).Load()
}

// Load resolves every section. It returns a *ValidationError carrying all
// field failures, or a plain error when the environment file exists but
// cannot be parsed.
func (l *Loader) Load() (*Settings, error) {
	stack := []*layer{environLayer(l.environ())}
	status := EnvFileStatus{Path: l.envFile}

	if l.envFile != "" {
		fileLayer, found, err := envFileLayer(l.envFile)
		if err != nil {
			return nil, err
		}
		status.Loaded = found
		stack = append(stack, fileLayer)
		if found {
			l.logger.WithField("path", l.envFile).Debug("Read environment file")
		} else {
			l.logger.WithField("path", l.envFile).Debug("Environment file not found, using process environment only")
		}
	}

	src := &layers{stack: stack, consumed: make(map[string]bool)}

	top := newSectionReader(SectionSettings, "", src)
	auth := newSectionReader(SectionAuth, AuthPrefix, src)
	openai := newSectionReader(SectionOpenAI, OpenAIPrefix, src)
	postgres := newSectionReader(SectionPostgres, PostgresPrefix, src)
	qdrant := newSectionReader(SectionQdrant, QdrantPrefix, src)
	minio := newSectionReader(SectionMinio, MinioPrefix, src)
	redis := newSectionReader(SectionRedis, RedisPrefix, src)

	settings := &Settings{
		BaseURL:  readTopLevel(top),
		Auth:     readAuth(auth),
		OpenAI:   readOpenAI(openai),
		Postgres: readPostgres(postgres),
		Qdrant:   readQdrant(qdrant),
		Minio:    readMinio(minio),
		Redis:    readRedis(redis),
		envFile:  status,
	}

	var errs []*FieldError
	for _, r := range []*sectionReader{top, auth, openai, postgres, qdrant, minio, redis} {
		errs = append(errs, r.errs...)
		settings.attributes = append(settings.attributes, r.attrs...)
	}

	if n := src.unused(SourceEnvFile); n > 0 {
		l.logger.Debugf("Ignoring %d unknown keys in environment file %s", n, l.envFile)
	}

	if len(errs) > 0 {
		l.logger.WithField("errors", len(errs)).Error("Settings validation failed")
		return nil, &ValidationError{Errors: errs}
	}

	l.logger.WithFields(map[string]interface{}{
		"env_file":        status.Path,
		"env_file_loaded": status.Loaded,
	}).Info("Settings loaded")

	return settings, nil
}

// EnvFile reports which environment file was consulted
func (s *Settings) EnvFile() EnvFileStatus {
	return s.envFile
}

// Source returns where the value for key came from. Keys are matched
// case-insensitively; unknown keys report false.
func (s *Settings) Source(key string) (Source, bool) {
	for _, a := range s.attributes {
		if strings.EqualFold(a.Key, key) {
			return a.Source, true
		}
	}
	return "", false
}

// Value returns the resolved, unmasked value of section.field as a string.
// Derived values are addressed by their field name, e.g. ("postgres",
// "database_url").
func (s *Settings) Value(section, field string) (string, bool) {
	for _, a := range append(s.attributes[:len(s.attributes):len(s.attributes)], s.derived(false)...) {
		if a.Section == section && a.Field == field {
			return a.Value, true
		}
	}
	return "", false
}
