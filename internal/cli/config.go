package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/engine"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

const envPrefix = "TMDLAYOUT_"

// Config is the layered CLI configuration.
type Config struct {
	Canvas struct {
		Width  int `koanf:"width"`
		Height int `koanf:"height"`
	} `koanf:"canvas"`

	// Heuristics is the path of a TOML profile; empty means built-in.
	Heuristics string `koanf:"heuristics"`

	Cache struct {
		Backend   string `koanf:"backend"`
		Dir       string `koanf:"dir"`
		RedisAddr string `koanf:"redis_addr"`
		RedisDB   int    `koanf:"redis_db"`
	} `koanf:"cache"`

	Output struct {
		Format string `koanf:"format"`
	} `koanf:"output"`

	Serve struct {
		Addr string `koanf:"addr"`
	} `koanf:"serve"`

	Watch struct {
		Debounce time.Duration `koanf:"debounce"`
	} `koanf:"watch"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"canvas.width":     engine.DefaultCanvasWidth,
		"canvas.height":    engine.DefaultCanvasHeight,
		"heuristics":       "",
		"cache.backend":    string(cache.BackendFile),
		"cache.dir":        "",
		"cache.redis_addr": "localhost:6379",
		"cache.redis_db":   0,
		"output.format":    string(layout.FormatJSON),
		"serve.addr":       ":8080",
		"watch.debounce":   "300ms",
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	var c Config
	_ = k.Unmarshal("", &c)
	return &c
}

// flagKeys maps flag names to config keys. Flags not listed here are not
// configuration.
var flagKeys = map[string]string{
	"width":         "canvas.width",
	"height":        "canvas.height",
	"heuristics":    "heuristics",
	"cache-backend": "cache.backend",
	"cache-dir":     "cache.dir",
	"redis-addr":    "cache.redis_addr",
	"format":        "output.format",
	"addr":          "serve.addr",
	"debounce":      "watch.debounce",
}

// defaultConfigFile returns $XDG_CONFIG_HOME/tmdlayout/config.yaml or the
// platform equivalent.
func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// LoadConfig layers defaults, the config file, the environment and the
// changed flags, in increasing precedence. An explicit cfgFile must exist;
// the default one is optional.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	used := cfgFile
	if used == "" {
		if def := defaultConfigFile(); def != "" {
			if _, err := os.Stat(def); err == nil {
				used = def
			}
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", used, err)
		}
	}

	// 3. Environment: TMDLAYOUT_CACHE_REDIS_ADDR -> cache.redis_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// 4. Flags that were set explicitly
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.File = used
	return &c, nil
}

// cacheConfig returns the cache selection, honouring --no-cache.
func (c *Config) cacheConfig(noCache bool) cache.Config {
	backend := cache.Backend(c.Cache.Backend)
	if noCache {
		backend = cache.BackendNone
	}
	return cache.Config{
		Backend:   backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
}

// pipelineOptions returns the layout options for path.
func (c *Config) pipelineOptions(path string) (pipeline.Options, error) {
	format, err := layout.ParseFormat(c.Output.Format)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Path:         path,
		ProfilePath:  c.Heuristics,
		CanvasWidth:  c.Canvas.Width,
		CanvasHeight: c.Canvas.Height,
		Formats:      []layout.Format{format},
	}, nil
}
