package geostd

import (
	"os"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scorer names accepted by Config.Scorer.
const (
	ScorerRatio       = "ratio"
	ScorerLevenshtein = "levenshtein"
)

// Config holds the tunables of a Standardizer.
type Config struct {
	CountryThreshold int `yaml:"countryThreshold" json:"countryThreshold"` // 0-100
	StateThreshold   int `yaml:"stateThreshold" json:"stateThreshold"`     // 0-100
	CityThreshold    int `yaml:"cityThreshold" json:"cityThreshold"`       // 0-100

	// CityCorpusLimit bounds the fuzzy candidate pool to the first N cities
	// in load order; 0 means every city. Fuzzy city matches are best-effort.
	CityCorpusLimit int `yaml:"cityCorpusLimit" json:"cityCorpusLimit"`

	Scorer string `yaml:"scorer" json:"scorer"` // "ratio" or "levenshtein"

	// MaxUnknownValues caps the distinct unknown raw values kept per class.
	MaxUnknownValues int `yaml:"maxUnknownValues" json:"maxUnknownValues"`

	// Workers is the parallelism of StandardizeBatch.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CountryThreshold: 85,
		StateThreshold:   80,
		CityThreshold:    75,
		CityCorpusLimit:  50000,
		Scorer:           ScorerRatio,
		MaxUnknownValues: 1000,
		Workers:          runtime.GOMAXPROCS(0),
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	thresholds := []struct {
		name string
		v    int
	}{
		{"countryThreshold", c.CountryThreshold},
		{"stateThreshold", c.StateThreshold},
		{"cityThreshold", c.CityThreshold},
	}
	for _, t := range thresholds {
		if t.v < 0 || t.v > 100 {
			return eris.Wrapf(ErrInvalidConfig, "%s must be within 0-100, got %d", t.name, t.v)
		}
	}
	if c.CityCorpusLimit < 0 {
		return eris.Wrapf(ErrInvalidConfig, "cityCorpusLimit must not be negative, got %d", c.CityCorpusLimit)
	}
	if c.MaxUnknownValues < 0 {
		return eris.Wrapf(ErrInvalidConfig, "maxUnknownValues must not be negative, got %d", c.MaxUnknownValues)
	}
	if c.Workers < 1 {
		return eris.Wrapf(ErrInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}
	if _, err := scorerByName(c.Scorer); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "opening config %q", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, eris.Wrapf(err, "parsing config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

type options struct {
	config Config
	logger *zap.Logger
}

// Option is a functional option for Load, NewStore and New.
type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithThresholds sets the fuzzy acceptance thresholds per class.
func WithThresholds(country, state, city int) Option {
	return func(o *options) {
		o.config.CountryThreshold = country
		o.config.StateThreshold = state
		o.config.CityThreshold = city
	}
}

// WithCityCorpusLimit bounds the fuzzy city corpus. 0 disables the bound.
func WithCityCorpusLimit(n int) Option {
	return func(o *options) {
		o.config.CityCorpusLimit = n
	}
}

// WithScorer selects the similarity scorer by name.
func WithScorer(name string) Option {
	return func(o *options) {
		o.config.Scorer = name
	}
}

// WithWorkers sets StandardizeBatch parallelism.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.config.Workers = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		config: DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
