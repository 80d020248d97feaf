// Package loader merges configuration sources in priority order.
package loader

import (
	"sort"

	"gatehouse/internal/config/schema"
	"gatehouse/internal/config/source"
	"gatehouse/internal/config/validator"
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "GATEHOUSE"

type Loader struct {
	sources      []source.Source
	skipValidate bool
}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) AddSource(s source.Source) {
	l.sources = append(l.sources, s)
}

// Load applies every source lowest priority first, then validates.
func (l *Loader) Load() (*schema.Root, error) {
	if len(l.sources) == 0 {
		return nil, coreerrors.New(coreerrors.CodeConfigError, "no configuration sources registered")
	}

	sorted := make([]source.Source, len(l.sources))
	copy(sorted, l.sources)
	sort.Stable(source.ByPriority(sorted))

	cfg := &schema.Root{}
	for _, s := range sorted {
		corelog.Debugf("loading configuration from %s (priority %d)", s.Name(), s.Priority())
		if err := s.LoadInto(cfg); err != nil {
			return nil, coreerrors.Wrapf(err, coreerrors.CodeConfigError, "load configuration from %s", s.Name())
		}
	}

	if !l.skipValidate {
		if err := validator.ValidateConfig(cfg).Err(); err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeConfigError, "invalid configuration")
		}
	}
	return cfg, nil
}

// Builder assembles the standard source chain.
type Builder struct {
	prefix       string
	configFile   string
	appEnv       string
	dotEnv       bool
	skipValidate bool
	extra        []source.Source
}

func NewBuilder() *Builder {
	return &Builder{prefix: EnvPrefix, dotEnv: true}
}

func (b *Builder) WithPrefix(prefix string) *Builder   { b.prefix = prefix; return b }
func (b *Builder) WithConfigFile(path string) *Builder { b.configFile = path; return b }
func (b *Builder) WithAppEnv(env string) *Builder      { b.appEnv = env; return b }
func (b *Builder) WithDotEnv(enabled bool) *Builder    { b.dotEnv = enabled; return b }

// WithoutValidation lets commands inspect a partial configuration.
func (b *Builder) WithoutValidation() *Builder { b.skipValidate = true; return b }

// WithSource adds a source such as CLI flag overrides.
func (b *Builder) WithSource(s source.Source) *Builder {
	b.extra = append(b.extra, s)
	return b
}

func (b *Builder) Build() *Loader {
	l := NewLoader()
	l.skipValidate = b.skipValidate
	l.AddSource(source.NewDefaultSource())

	configFile := source.FindConfigFile(b.configFile)
	if configFile != "" {
		l.AddSource(source.NewYAMLSource(configFile))
	}
	if b.dotEnv {
		l.AddSource(source.NewDotEnvSource(source.FindDotEnvDirs(configFile), b.appEnv))
	}
	l.AddSource(source.NewEnvSource(b.prefix))
	for _, s := range b.extra {
		l.AddSource(s)
	}
	return l
}
