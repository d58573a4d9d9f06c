package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Source records where a setting's value came from
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceEnvFile     Source = "env_file"
	SourceDefault     Source = "default"
	SourceDerived     Source = "derived"
)

// layer is one key/value source. Lookups try the exact key first and then
// the upper-cased key.
type layer struct {
	source Source
	exact  map[string]string
	folded map[string]string
}

func newLayer(source Source, values map[string]string) *layer {
	l := &layer{
		source: source,
		exact:  values,
		folded: make(map[string]string, len(values)),
	}

	// sorted so the winner among case variants does not depend on map order
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		upper := strings.ToUpper(k)
		if _, seen := l.folded[upper]; !seen {
			l.folded[upper] = values[k]
		}
	}

	return l
}

func (l *layer) lookup(key string) (string, bool) {
	if v, ok := l.exact[key]; ok {
		return v, true
	}
	v, ok := l.folded[strings.ToUpper(key)]
	return v, ok
}

// environLayer builds a layer from KEY=VALUE pairs as returned by os.Environ
func environLayer(environ []string) *layer {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		values[k] = v
	}
	return newLayer(SourceEnvironment, values)
}

// envFileLayer parses path with godotenv. A missing file yields an empty
// layer and found=false.
func envFileLayer(path string) (l *layer, found bool, err error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newLayer(SourceEnvFile, map[string]string{}), false, nil
		}
		return nil, false, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return newLayer(SourceEnvFile, values), true, nil
}

// layers resolves keys against an ordered list of layers, highest
// precedence first, and remembers which keys were consumed.
type layers struct {
	stack    []*layer
	consumed map[string]bool
}

func (ls *layers) lookup(key string) (string, Source, bool) {
	ls.consumed[strings.ToUpper(key)] = true
	for _, l := range ls.stack {
		if v, ok := l.lookup(key); ok {
			return v, l.source, true
		}
	}
	return "", "", false
}

// unused counts keys of the given source that no field asked for
func (ls *layers) unused(source Source) int {
	n := 0
	for _, l := range ls.stack {
		if l.source != source {
			continue
		}
		for k := range l.folded {
			if !ls.consumed[k] {
				n++
			}
		}
	}
	return n
}
