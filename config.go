package stockpile

import (
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds global configuration for worlds and row stores
var Config config = config{
	logger:              zap.NewNop(),
	parallelism:         runtime.GOMAXPROCS(0),
	layoutCacheCapacity: 1024,
}

type config struct {
	logger              *zap.Logger
	parallelism         int
	layoutCacheCapacity int
}

// Options is the file form of Config.
type Options struct {
	LogLevel            string `yaml:"log_level"`
	Parallelism         int    `yaml:"parallelism"`
	LayoutCacheCapacity int    `yaml:"layout_cache_capacity"`
}

// LoadOptions decodes YAML options from r.
func LoadOptions(r io.Reader) (Options, error) {
	var o Options
	if err := yaml.NewDecoder(r).Decode(&o); err != nil {
		return Options{}, fmt.Errorf("failed to decode options: %w", err)
	}
	return o, nil
}

// Apply sets every non-zero option. A log level builds a production zap logger
// at that level.
func (c *config) Apply(o Options) error {
	if o.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(o.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
		}
		zc := zap.NewProductionConfig()
		zc.Level = level
		logger, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		c.SetLogger(logger)
	}
	if o.Parallelism > 0 {
		c.SetParallelism(o.Parallelism)
	}
	if o.LayoutCacheCapacity > 0 {
		c.SetLayoutCacheCapacity(o.LayoutCacheCapacity)
	}
	return nil
}

// SetLogger sets the logger used by worlds created afterwards and by row
// store growth. A nil logger disables logging.
func (c *config) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

func (c *config) Logger() *zap.Logger {
	return c.logger
}

// SetParallelism bounds how many chunks ForEachChunk processes at once
func (c *config) SetParallelism(n int) {
	c.parallelism = n
}

func (c *config) Parallelism() int {
	return c.parallelism
}

// SetLayoutCacheCapacity bounds the number of layouts a world interns
func (c *config) SetLayoutCacheCapacity(n int) {
	c.layoutCacheCapacity = n
}

func (c *config) LayoutCacheCapacity() int {
	return c.layoutCacheCapacity
}
