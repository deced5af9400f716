package uno

import (
	"context"
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"go.starlark.net/starlark"
)

// DefaultConfigSource is used when no configuration program is supplied.
const DefaultConfigSource = `import {
  defineConfig,
  presetAttributify,
  presetIcons,
  presetUno,
  transformerDirectives,
  transformerVariantGroup,
} from "unocss"

export default defineConfig({
  "rules": [
    ["custom-rule", {"color": "red"}],
  ],
  "shortcuts": {
    "custom-shortcut": "text-lg text-orange hover:text-teal",
  },
  "presets": [
    presetUno(),
    presetAttributify(),
    presetIcons({
      "scale": 1.2,
      "cdn": "https://esm.sh/",
    }),
  ],
  "transformers": [
    transformerDirectives(),
    transformerVariantGroup(),
  ],
})
`

// presetValue exposes a Go preset to configuration code.
type presetValue struct {
	preset *Preset
}

var _ starlark.Value = (*presetValue)(nil)

func (p *presetValue) String() string        { return fmt.Sprintf("<preset %s>", p.preset.Name) }
func (p *presetValue) Type() string          { return "preset" }
func (p *presetValue) Freeze()               {}
func (p *presetValue) Truth() starlark.Bool  { return starlark.True }
func (p *presetValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: preset") }

// transformerValue exposes a Go transformer to configuration code.
type transformerValue struct {
	t Transformer
}

var _ starlark.Value = (*transformerValue)(nil)

func (t *transformerValue) String() string        { return fmt.Sprintf("<transformer %s>", t.t.Name()) }
func (t *transformerValue) Type() string          { return "transformer" }
func (t *transformerValue) Freeze()               {}
func (t *transformerValue) Truth() starlark.Bool  { return starlark.True }
func (t *transformerValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: transformer") }

// options collects a single dict argument and keyword arguments into a map.
func options(fnName string, args starlark.Tuple, kwargs []starlark.Tuple) (map[string]any, error) {
	out := map[string]any{}
	if len(args) > 1 {
		return nil, fmt.Errorf("%s: expected at most one positional argument, got %d", fnName, len(args))
	}
	if len(args) == 1 && args[0] != starlark.None {
		raw, err := lstar.ToGo(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fnName, err)
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: options must be a dict, got %s", fnName, args[0].Type())
		}
		maps.Copy(out, m)
	}
	for _, kv := range kwargs {
		v, err := lstar.ToGo(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fnName, err)
		}
		out[string(kv[0].(starlark.String))] = v
	}
	return out, nil
}

func decodeOptions(fnName string, args starlark.Tuple, kwargs []starlark.Tuple, target any) error {
	m, err := options(fnName, args, kwargs)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%s: %w", fnName, err)
	}
	return nil
}

func builtinDefineConfig(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cfg starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func builtinPresetUno(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if _, err := options(fn.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &presetValue{preset: PresetUno()}, nil
}

func builtinPresetAttributify(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var opts AttributifyOptions
	if err := decodeOptions(fn.Name(), args, kwargs, &opts); err != nil {
		return nil, err
	}
	return &presetValue{preset: PresetAttributify(opts)}, nil
}

func builtinPresetIcons(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var opts IconsOptions
	if err := decodeOptions(fn.Name(), args, kwargs, &opts); err != nil {
		return nil, err
	}
	return &presetValue{preset: PresetIcons(opts)}, nil
}

func builtinTransformerDirectives(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if _, err := options(fn.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &transformerValue{t: Directives{}}, nil
}

func builtinTransformerVariantGroup(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if _, err := options(fn.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &transformerValue{t: VariantGroup{}}, nil
}

func builtins() starlark.StringDict {
	return starlark.StringDict{
		"defineConfig":            starlark.NewBuiltin("defineConfig", builtinDefineConfig),
		"presetUno":               starlark.NewBuiltin("presetUno", builtinPresetUno),
		"presetWind":              starlark.NewBuiltin("presetWind", builtinPresetUno),
		"presetAttributify":       starlark.NewBuiltin("presetAttributify", builtinPresetAttributify),
		"presetIcons":             starlark.NewBuiltin("presetIcons", builtinPresetIcons),
		"transformerDirectives":   starlark.NewBuiltin("transformerDirectives", builtinTransformerDirectives),
		"transformerVariantGroup": starlark.NewBuiltin("transformerVariantGroup", builtinTransformerVariantGroup),
	}
}

func module(names ...string) lstar.ModuleFactory {
	return func(context.Context) (starlark.StringDict, error) {
		all := builtins()
		out := make(starlark.StringDict, len(names)+1)
		for _, n := range names {
			out[n] = all[n]
		}
		if len(names) == 1 {
			out["default"] = all[names[0]]
		}
		return out, nil
	}
}

// Bundle is the allow-list of modules configuration code may import.
func Bundle() lstar.ModuleMap {
	return lstar.ModuleMap{
		"unocss": func(context.Context) (starlark.StringDict, error) {
			return builtins(), nil
		},
		"@unocss/core":                      module("defineConfig"),
		"@unocss/preset-uno":                module("presetUno"),
		"@unocss/preset-wind":               module("presetWind"),
		"@unocss/preset-attributify":        module("presetAttributify"),
		"@unocss/preset-icons":              module("presetIcons"),
		"@unocss/transformer-directives":    module("transformerDirectives"),
		"@unocss/transformer-variant-group": module("transformerVariantGroup"),
	}
}
