package uno

import (
	"context"
	"sync"
)

// resetEntries seed the custom properties the utilities compose.
var resetEntries = CSSEntries{
	{"--un-rotate", "0"},
	{"--un-rotate-x", "0"},
	{"--un-rotate-y", "0"},
	{"--un-rotate-z", "0"},
	{"--un-scale-x", "1"},
	{"--un-scale-y", "1"},
	{"--un-scale-z", "1"},
	{"--un-skew-x", "0"},
	{"--un-skew-y", "0"},
	{"--un-translate-x", "0"},
	{"--un-translate-y", "0"},
	{"--un-translate-z", "0"},
	{"--un-pan-x", " "},
	{"--un-pan-y", " "},
	{"--un-pinch-zoom", " "},
	{"--un-scroll-snap-strictness", "proximity"},
	{"--un-ordinal", " "},
	{"--un-slashed-zero", " "},
	{"--un-numeric-figure", " "},
	{"--un-numeric-spacing", " "},
	{"--un-numeric-fraction", " "},
	{"--un-border-spacing-x", "0"},
	{"--un-border-spacing-y", "0"},
	{"--un-ring-offset-shadow", "0 0 rgb(0 0 0 / 0)"},
	{"--un-ring-shadow", "0 0 rgb(0 0 0 / 0)"},
	{"--un-shadow-inset", " "},
	{"--un-shadow", "0 0 rgb(0 0 0 / 0)"},
	{"--un-ring-inset", " "},
	{"--un-ring-offset-width", "0px"},
	{"--un-ring-offset-color", "#fff"},
	{"--un-ring-width", "0px"},
	{"--un-ring-color", "rgb(147 197 253 / 0.5)"},
	{"--un-blur", " "},
	{"--un-brightness", " "},
	{"--un-contrast", " "},
	{"--un-drop-shadow", " "},
	{"--un-grayscale", " "},
	{"--un-hue-rotate", " "},
	{"--un-invert", " "},
	{"--un-saturate", " "},
	{"--un-sepia", " "},
	{"--un-backdrop-blur", " "},
	{"--un-backdrop-brightness", " "},
	{"--un-backdrop-contrast", " "},
	{"--un-backdrop-grayscale", " "},
	{"--un-backdrop-hue-rotate", " "},
	{"--un-backdrop-invert", " "},
	{"--un-backdrop-opacity", " "},
	{"--un-backdrop-saturate", " "},
	{"--un-backdrop-sepia", " "},
}

// PreflightCSS is the custom property reset emitted in the preflights layer.
var PreflightCSS = "*,::before,::after{" + resetEntries.String() + "}::backdrop{" + resetEntries.String() + "}"

// Rule and variant tables are immutable and shared by every PresetUno.
var (
	unoRules    = sync.OnceValue(presetUnoRules)
	unoVariants = sync.OnceValue(defaultVariants)
)

// PresetUno returns the default utility preset.
func PresetUno() *Preset {
	return &Preset{
		Name:     "@unocss/preset-uno",
		Rules:    unoRules(),
		Variants: unoVariants(),
		Preflights: []*Preflight{{
			Layer: LayerPreflights,
			GetCSS: func(context.Context) (string, error) {
				return PreflightCSS, nil
			},
		}},
		Theme: DefaultTheme(),
	}
}
