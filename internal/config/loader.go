package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leapslides.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leapslides.yml"

// LoadFromDir loads a ProjectConfig from the given directory.
// It looks for leapslides.yaml or leapslides.yml in the directory.
// Returns nil, nil if no config file is found (not an error condition).
// Relative paths in the result are resolved against dir.
func LoadFromDir(dir string) (*ProjectConfig, error) {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	var cfg ProjectConfig
	if err := Unmarshal(k, "", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", configPath, err)
	}
	ApplyDefaults(&cfg)
	cfg.ResolvePaths(dir)

	return &cfg, nil
}

// Unmarshal decodes the koanf tree at path into out. Durations may be
// written as strings such as "300ms" and lists as comma separated strings.
func Unmarshal(k *koanf.Koanf, path string, out any) error {
	return k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	})
}

// FindConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from the given directory to find a directory
// containing leapslides.yaml or leapslides.yml.
// Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ResolvePaths makes the relative paths of c relative to root.
func (c *ProjectConfig) ResolvePaths(root string) {
	c.Deck = resolvePathRelativeTo(c.Deck, root)
	c.ComponentsDir = resolvePathRelativeTo(c.ComponentsDir, root)
	c.LayoutsDir = resolvePathRelativeTo(c.LayoutsDir, root)
	c.CSS.ConfigFile = resolvePathRelativeTo(c.CSS.ConfigFile, root)
	c.CSS.CustomCSS = resolvePathRelativeTo(c.CSS.CustomCSS, root)
}

// CSSConfigSource reads the CSS configuration program. A missing file
// yields "", which selects the built-in configuration.
func (c *ProjectConfig) CSSConfigSource() (string, error) {
	return readOptional(c.CSS.ConfigFile)
}

// CustomCSSSource reads the custom stylesheet, or "" when none is set.
func (c *ProjectConfig) CustomCSSSource() (string, error) {
	return readOptional(c.CSS.CustomCSS)
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
