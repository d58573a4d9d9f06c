package cli

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/ragstack/pkg/config"
	"github.com/platinummonkey/ragstack/pkg/observability"
)

type renderFunc func(*config.Settings) (string, error)

func renderer(format string) (renderFunc, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return func(s *config.Settings) (string, error) { return s.FormatText(), nil }, nil
	case "json":
		return (*config.Settings).FormatJSON, nil
	case "yaml", "yml":
		return (*config.Settings).FormatYAML, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func observabilityLogger(env Env, level string) *observability.Logger {
	return observability.NewLogger(observability.ParseLogLevel(level), env.Stderr)
}
