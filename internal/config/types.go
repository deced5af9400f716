// Package config provides the project configuration of a leapslides deck.
// It is decoupled from CLI concerns so the LSP and other tools can load a
// project without the command layer.
package config

import "time"

// CSSConfig configures the atomic CSS engine.
type CSSConfig struct {
	// ConfigFile is the Starlark configuration program. A missing file
	// selects the built-in default configuration.
	ConfigFile string `koanf:"config_file"`
	// CustomCSS is a stylesheet file added to every slide's custom layer.
	CustomCSS string `koanf:"custom_css"`
	LayerName string `koanf:"layer_name"`

	// CDN origin that configuration imports and icon collections are fetched from.
	CDN        string  `koanf:"cdn"`
	FetchRate  float64 `koanf:"fetch_rate"` // requests per second
	FetchBurst int     `koanf:"fetch_burst"`
}

// MarkdownConfig configures the markup parser.
type MarkdownConfig struct {
	// Quotes is the typographer substitution: open and close double quote
	// followed by open and close single quote.
	Quotes   string `koanf:"quotes"`
	Linkify  bool   `koanf:"linkify"`
	Footnote bool   `koanf:"footnote"`
}

// RenderConfig configures slide compilation.
type RenderConfig struct {
	Minify bool `koanf:"minify"`
	// Delay before a slow slide shows its loading placeholder.
	Delay       time.Duration `koanf:"delay"`
	Concurrency int           `koanf:"concurrency"`
}

// ProjectConfig holds the configuration stored in leapslides.yaml.
type ProjectConfig struct {
	Deck          string         `koanf:"deck"`
	ComponentsDir string         `koanf:"components_dir"`
	LayoutsDir    string         `koanf:"layouts_dir"`
	Markdown      MarkdownConfig `koanf:"markdown"`
	CSS           CSSConfig      `koanf:"css"`
	Render        RenderConfig   `koanf:"render"`
}
