package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/leapstack-labs/leapslides/internal/config"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: LEAPSLIDES_CSS__LAYER_NAME sets css.layer_name.
const EnvPrefix = "LEAPSLIDES_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps flag names to config keys. Flags missing here are not
// configuration (e.g. --config itself).
var flagKeys = map[string]string{
	"deck":           "deck",
	"components-dir": "components_dir",
	"layouts-dir":    "layouts_dir",
	"css-config":     "css.config_file",
	"custom-css":     "css.custom_css",
	"layer-name":     "css.layer_name",
	"cdn":            "css.cdn",
	"minify":         "render.minify",
	"concurrency":    "render.concurrency",
	"verbose":        "verbose",
	"output":         "output",
}

// pathFlags are flags whose values are paths relative to the working directory.
var pathFlags = map[string]string{
	"deck":           "deck",
	"components-dir": "components_dir",
	"layouts-dir":    "layouts_dir",
	"css-config":     "css.config_file",
	"custom-css":     "css.custom_css",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findProjectRootUpward searches upward from startDir for a leapslides config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if sharedcfg.FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Explicit --project-dir flag
//  2. The directory of an explicit --config file
//  3. The directory of --deck when it holds a config file
//  4. Search upward from CWD for leapslides.yaml
//  5. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil && flags.Changed("project-dir") {
		if dir, _ := flags.GetString("project-dir"); dir != "" {
			return absOrClean(dir)
		}
	}

	if cfgFile != "" {
		return filepath.Dir(absOrClean(cfgFile))
	}

	if flags != nil && flags.Changed("deck") {
		if deck, _ := flags.GetString("deck"); deck != "" {
			dir := filepath.Dir(absOrClean(deck))
			if sharedcfg.FindConfigFile(dir) != "" {
				return dir
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return cwd
}

func absOrClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Paths given as flags are relative to the working directory; all other
// paths are relative to the project root.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := inferProjectRoot(cfgFile, flags)

	// 1. Defaults
	defaults := sharedcfg.Defaults()
	maps.Copy(defaults, map[string]any{
		"verbose":        false,
		"output":         DefaultOutput,
		"watch.debounce": DefaultDebounce.String(),
	})
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = sharedcfg.FindConfigFile(projectRoot)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Environment variables: LEAPSLIDES_RENDER__MINIFY -> render.minify
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	flagPaths := map[string]string{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			if pathKey, isPath := pathFlags[f.Name]; isPath && f.Value.String() != "" {
				flagPaths[pathKey] = absOrClean(f.Value.String())
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := sharedcfg.Unmarshal(k, "", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	sharedcfg.ApplyDefaults(&cfg.ProjectConfig)

	// 6. Resolve paths against the project root, keeping flag paths as given
	cfg.ProjectRoot = projectRoot
	cfg.ResolvePaths(projectRoot)
	for key, path := range flagPaths {
		switch key {
		case "deck":
			cfg.Deck = path
		case "components_dir":
			cfg.ComponentsDir = path
		case "layouts_dir":
			cfg.LayoutsDir = path
		case "css.config_file":
			cfg.CSS.ConfigFile = path
		case "css.custom_css":
			cfg.CSS.CustomCSS = path
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// NewLogger builds the CLI logger: text records on w, at debug level when
// verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
