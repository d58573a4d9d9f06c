package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/ragstack/pkg/config"
	"github.com/platinummonkey/ragstack/pkg/observability"
	"github.com/platinummonkey/ragstack/pkg/probe"
)

type commonFlags struct {
	envFile  string
	logLevel string
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "Environment file to read (empty to disable)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

type probeFlags struct {
	openAIBaseURL string
	sslMode       string
	s3Region      string
}

func (f *probeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.openAIBaseURL, "openai-base-url", probe.DefaultOpenAIBaseURL, "OpenAI API base URL")
	fs.StringVar(&f.sslMode, "pg-sslmode", "disable", "PostgreSQL sslmode used by the postgres probe")
	fs.StringVar(&f.s3Region, "s3-region", "us-east-1", "Region used to sign MinIO requests")
}

func (f *probeFlags) options() []probe.Option {
	return []probe.Option{
		probe.WithOpenAIBaseURL(f.openAIBaseURL),
		probe.WithPostgresSSLMode(f.sslMode),
		probe.WithS3Region(f.s3Region),
	}
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

func setupLogger(w io.Writer, logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func (e Env) loadSettings(f commonFlags, logger *observability.Logger) (*config.Settings, error) {
	opts := []config.Option{config.WithLogger(logger)}
	if f.envFile == "" {
		opts = append(opts, config.WithoutEnvFile())
	} else {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if e.Environ != nil {
		opts = append(opts, config.WithEnviron(e.Environ))
	}

	settings, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// splitList splits a comma-separated flag value, dropping blanks and repeats
func splitList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
