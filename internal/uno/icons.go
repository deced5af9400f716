package uno

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapslides/internal/memo"
	lstar "github.com/leapstack-labs/leapslides/internal/starlark"
	"go.starlark.net/starlark"
)

// IconsOptions configures PresetIcons.
type IconsOptions struct {
	Scale  float64 `mapstructure:"scale"`
	CDN    string  `mapstructure:"cdn"`
	Prefix string  `mapstructure:"prefix"`
	// Mode is "auto", "mask" or "bg".
	Mode  string            `mapstructure:"mode"`
	Unit  string            `mapstructure:"unit"`
	Extra map[string]string `mapstructure:"extraProperties"`
}

func (o IconsOptions) withDefaults() IconsOptions {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.CDN == "" {
		o.CDN = lstar.DefaultCDN
	}
	if !strings.HasSuffix(o.CDN, "/") {
		o.CDN += "/"
	}
	if o.Prefix == "" {
		o.Prefix = "i-"
	}
	if o.Mode == "" {
		o.Mode = "auto"
	}
	if o.Unit == "" {
		o.Unit = "em"
	}
	if o.Extra == nil {
		o.Extra = map[string]string{"display": "inline-block", "vertical-align": "middle"}
	}
	return o
}

// Importer resolves module specifiers, as the configuration evaluator does.
type Importer interface {
	Import(ctx context.Context, spec string) (starlark.StringDict, error)
}

// IconSet is a decoded iconify collection.
type IconSet struct {
	Prefix  string
	Width   float64
	Height  float64
	Icons   map[string]Icon
	Aliases map[string]string
}

// Icon is one SVG body with its view box.
type Icon struct {
	Body   string
	Width  float64
	Height float64
}

// Lookup returns an icon by name, following aliases.
func (s *IconSet) Lookup(name string) (Icon, bool) {
	for range 4 {
		if ic, ok := s.Icons[name]; ok {
			if ic.Width == 0 {
				ic.Width = s.Width
			}
			if ic.Height == 0 {
				ic.Height = s.Height
			}
			return ic, true
		}
		parent, ok := s.Aliases[name]
		if !ok {
			break
		}
		name = parent
	}
	return Icon{}, false
}

// IconCache loads icon collections from the CDN through an Importer, one
// request per collection.
type IconCache struct {
	importer Importer
	sets     *memo.Group[*IconSet]
	logger   *slog.Logger
}

// NewIconCache creates a cache backed by importer.
func NewIconCache(importer Importer, logger *slog.Logger) *IconCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &IconCache{
		importer: importer,
		sets:     memo.New[*IconSet](memo.CacheErrors),
		logger:   logger,
	}
}

// Collection loads the named collection from cdn.
func (c *IconCache) Collection(ctx context.Context, cdn, name string) (*IconSet, error) {
	spec := cdn + "@iconify-json/" + name + "/icons.json"
	return c.sets.Do(ctx, spec, func(ctx context.Context) (*IconSet, error) {
		exports, err := c.importer.Import(ctx, spec)
		if err != nil {
			return nil, err
		}
		raw, err := lstar.ToGo(exports["default"])
		if err != nil {
			return nil, err
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: collection is not an object", spec)
		}
		set := decodeIconSet(m)
		c.logger.Debug("icon collection loaded", "collection", name, "icons", len(set.Icons))
		return set, nil
	})
}

func decodeIconSet(m map[string]any) *IconSet {
	set := &IconSet{
		Width:   toFloat(m["width"], 16),
		Height:  toFloat(m["height"], 16),
		Icons:   map[string]Icon{},
		Aliases: map[string]string{},
	}
	set.Prefix, _ = m["prefix"].(string)
	if icons, ok := m["icons"].(map[string]any); ok {
		for name, v := range icons {
			im, ok := v.(map[string]any)
			if !ok {
				continue
			}
			body, _ := im["body"].(string)
			set.Icons[name] = Icon{
				Body:   body,
				Width:  toFloat(im["width"], 0),
				Height: toFloat(im["height"], 0),
			}
		}
	}
	if aliases, ok := m["aliases"].(map[string]any); ok {
		for name, v := range aliases {
			if am, ok := v.(map[string]any); ok {
				if parent, ok := am["parent"].(string); ok {
					set.Aliases[name] = parent
				}
			}
		}
	}
	return set
}

func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// PresetIcons adds `i-<collection>-<icon>` utilities.
func PresetIcons(opts IconsOptions) *Preset {
	opts = opts.withDefaults()
	rule := DynamicRule(`^`+regexp.QuoteMeta(opts.Prefix)+`([a-z0-9:-]+)(?:\?(mask|bg|auto))?$`, func(rc *RuleContext, m []string) (CSSEntries, error) {
		if rc.Icons == nil {
			return nil, nil
		}
		mode := opts.Mode
		if m[2] != "" {
			mode = m[2]
		}
		for _, cand := range iconCandidates(m[1]) {
			set, err := rc.Icons.Collection(rc.Context, opts.CDN, cand[0])
			if err != nil {
				rc.Icons.logger.Debug("icon collection unavailable", "collection", cand[0], "error", err)
				continue
			}
			icon, ok := set.Lookup(cand[1])
			if !ok {
				continue
			}
			return iconEntries(icon, opts, mode), nil
		}
		return nil, nil
	}, opts.Prefix+"<icon>")
	rule.Meta.Layer = "icons"
	return &Preset{
		Name:   "@unocss/preset-icons",
		Rules:  []*Rule{rule},
		Layers: map[string]int{"icons": -30},
	}
}

// iconCandidates lists the (collection, icon) splits of a name, shortest
// collection first.
func iconCandidates(name string) [][2]string {
	if c, i, ok := strings.Cut(name, ":"); ok {
		return [][2]string{{c, i}}
	}
	var out [][2]string
	for i := 0; i < len(name); i++ {
		if name[i] == '-' && i > 0 && i < len(name)-1 {
			out = append(out, [2]string{name[:i], name[i+1:]})
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

func iconEntries(icon Icon, opts IconsOptions, mode string) CSSEntries {
	size := formatNumber(opts.Scale) + opts.Unit
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="` + size + `" height="` + size +
		`" viewBox="0 0 ` + formatNumber(icon.Width) + ` ` + formatNumber(icon.Height) + `">` + icon.Body + `</svg>`
	url := `url("data:image/svg+xml;utf8,` + encodeSVG(svg) + `")`

	if mode == "auto" {
		mode = "bg"
		if strings.Contains(icon.Body, "currentColor") {
			mode = "mask"
		}
	}
	var out CSSEntries
	if mode == "mask" {
		out = decl(
			"--un-icon", url,
			"-webkit-mask", "var(--un-icon) no-repeat",
			"mask", "var(--un-icon) no-repeat",
			"-webkit-mask-size", "100% 100%",
			"mask-size", "100% 100%",
			"background-color", "currentColor",
			"color", "inherit",
		)
	} else {
		out = decl(
			"background", url+" no-repeat",
			"background-size", "100% 100%",
			"background-color", "transparent",
		)
	}
	out = append(out, decl("width", size, "height", size)...)
	for _, k := range sortedKeys(opts.Extra) {
		out = append(out, CSSEntry{k, opts.Extra[k]})
	}
	return out
}

var svgReplacer = strings.NewReplacer(
	`"`, `'`,
	"%", "%25",
	"#", "%23",
	"{", "%7B",
	"}", "%7D",
	"<", "%3C",
	">", "%3E",
	"\r", " ",
	"\n", " ",
	"\t", " ",
)

func encodeSVG(svg string) string {
	return svgReplacer.Replace(svg)
}
