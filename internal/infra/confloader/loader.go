package confloader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "KIWI_"

// Loader layers defaults, a YAML file and the environment into a koanf
// tagged struct. Later sources override earlier ones.
type Loader struct {
	envPrefix string
	filePath  string
	defaults  map[string]any

	// envApplied lists the variables used by the last successful Load.
	envApplied []string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDefaults sets flattened default values ("a.b.c" keys) loaded
// before any other source.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source from scratch and unmarshals into target.
// Calling it again picks up file and environment changes.
func (l *Loader) Load(target any) error {
	k := koanf.New(".")

	if l.defaults != nil {
		if err := k.Load(mapProvider(maps.Unflatten(l.defaults, ".")), nil); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}

	if l.filePath != "" {
		if err := k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	applied, err := l.loadEnv(k)
	if err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.envApplied = applied
	return nil
}

// Reload is Load, named for the config watcher's call site.
func (l *Loader) Reload(target any) error {
	return l.Load(target)
}

// EnvOverrides returns the names of the environment variables applied by
// the last successful Load, sorted. Values are not kept.
func (l *Loader) EnvOverrides() []string {
	return append([]string(nil), l.envApplied...)
}

// loadEnv maps PREFIX_SECTION_KEY onto section.key. Underscores are
// ambiguous, so a variable that matches an already loaded key keeps that
// key's spelling: KIWI_SERVER_REDIS_RATE_LIMIT sets server.redis.rate_limit.
func (l *Loader) loadEnv(k *koanf.Koanf) ([]string, error) {
	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	var applied []string
	transform := func(name string) string {
		if _, set := os.LookupEnv(name); set {
			applied = append(applied, name)
		}
		s := strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
		if key, ok := known[s]; ok {
			return key
		}
		return strings.ReplaceAll(s, "_", ".")
	}

	if err := k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return nil, err
	}
	sort.Strings(applied)
	return applied, nil
}
