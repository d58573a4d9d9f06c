package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const maskedValue = "********"

func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	return maskedValue
}

// derived lists the computed values of every section. With masked set,
// values embedding a secret show a placeholder instead.
func (s *Settings) derived(masked bool) []Attribute {
	pg := s.Postgres
	if masked {
		pg.Password = maskSecret(pg.Password)
	}

	d := func(section, field, value string, secret bool) Attribute {
		return Attribute{Section: section, Field: field, Value: value, Source: SourceDerived, Secret: secret}
	}

	return []Attribute{
		d(SectionPostgres, "database_url", pg.DatabaseURL(), true),
		d(SectionPostgres, "async_database_url", pg.AsyncDatabaseURL(), true),
		d(SectionQdrant, "url", s.Qdrant.URL(), false),
		d(SectionMinio, "endpoint", s.Minio.Endpoint(), false),
		d(SectionRedis, "url", s.Redis.URL(), false),
	}
}

// Attributes returns every setting, followed by the derived values, with
// secrets masked.
func (s *Settings) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(s.attributes)+5)
	for _, a := range s.attributes {
		if a.Secret {
			a.Value = maskSecret(a.Value)
		}
		attrs = append(attrs, a)
	}
	return append(attrs, s.derived(true)...)
}

type report struct {
	EnvFile    EnvFileStatus `json:"env_file" yaml:"env_file"`
	Attributes []Attribute   `json:"attributes" yaml:"attributes"`
}

func (s *Settings) report() report {
	return report{EnvFile: s.envFile, Attributes: s.Attributes()}
}

// FormatText renders the settings as an aligned table
func (s *Settings) FormatText() string {
	var sb strings.Builder

	switch {
	case s.envFile.Path == "":
		sb.WriteString("Env file: (disabled)\n\n")
	case s.envFile.Loaded:
		fmt.Fprintf(&sb, "Env file: %s\n\n", s.envFile.Path)
	default:
		fmt.Fprintf(&sb, "Env file: %s (not found)\n\n", s.envFile.Path)
	}

	fmt.Fprintf(&sb, "%-10s %-28s %-45s %s\n", "SECTION", "FIELD", "VALUE", "SOURCE")
	fmt.Fprintf(&sb, "%-10s %-28s %-45s %s\n", "-------", "-----", "-----", "------")
	for _, a := range s.Attributes() {
		value := a.Value
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(&sb, "%-10s %-28s %-45s %s\n", a.Section, a.Field, value, a.Source)
	}
	return sb.String()
}

// FormatJSON renders the settings as indented JSON
func (s *Settings) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(s.report(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	return string(data), nil
}

// FormatYAML renders the settings as YAML
func (s *Settings) FormatYAML() (string, error) {
	data, err := yaml.Marshal(s.report())
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	return string(data), nil
}
