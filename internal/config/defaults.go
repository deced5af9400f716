package config

import "time"

// Default configuration values.
const (
	DefaultDeck          = "slides.md"
	DefaultComponentsDir = "components"
	DefaultLayoutsDir    = "layouts"
	DefaultCSSConfigFile = "uno.config.star"
	DefaultLayerName     = "slides"
	DefaultCDN           = "https://esm.sh/"
	DefaultFetchRate     = 10.0
	DefaultFetchBurst    = 5
	DefaultQuotes        = `""''`
	DefaultDelay         = 300 * time.Millisecond
	DefaultConcurrency   = 4
)

// Defaults returns the default settings keyed the way the project file
// spells them. Loaders feed it to koanf before any other source.
func Defaults() map[string]any {
	return map[string]any{
		"deck":               DefaultDeck,
		"components_dir":     DefaultComponentsDir,
		"layouts_dir":        DefaultLayoutsDir,
		"markdown.quotes":    DefaultQuotes,
		"markdown.linkify":   true,
		"markdown.footnote":  true,
		"css.config_file":    DefaultCSSConfigFile,
		"css.layer_name":     DefaultLayerName,
		"css.cdn":            DefaultCDN,
		"css.fetch_rate":     DefaultFetchRate,
		"css.fetch_burst":    DefaultFetchBurst,
		"render.minify":      false,
		"render.delay":       DefaultDelay.String(),
		"render.concurrency": DefaultConcurrency,
	}
}

// ApplyDefaults fills zero values of a ProjectConfig. Boolean settings are
// left alone since their zero value is a valid choice.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Deck == "" {
		c.Deck = DefaultDeck
	}
	if c.ComponentsDir == "" {
		c.ComponentsDir = DefaultComponentsDir
	}
	if c.LayoutsDir == "" {
		c.LayoutsDir = DefaultLayoutsDir
	}
	if c.Markdown.Quotes == "" {
		c.Markdown.Quotes = DefaultQuotes
	}
	if c.CSS.ConfigFile == "" {
		c.CSS.ConfigFile = DefaultCSSConfigFile
	}
	if c.CSS.LayerName == "" {
		c.CSS.LayerName = DefaultLayerName
	}
	if c.CSS.CDN == "" {
		c.CSS.CDN = DefaultCDN
	}
	if c.CSS.FetchRate <= 0 {
		c.CSS.FetchRate = DefaultFetchRate
	}
	if c.CSS.FetchBurst <= 0 {
		c.CSS.FetchBurst = DefaultFetchBurst
	}
	if c.Render.Delay == 0 {
		c.Render.Delay = DefaultDelay
	}
	if c.Render.Concurrency <= 0 {
		c.Render.Concurrency = DefaultConcurrency
	}
}
