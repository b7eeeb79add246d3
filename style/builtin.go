package style

import (
	"fmt"
	"sync"
)

var (
	textUnits  = []Unit{UnitPx, UnitEm, UnitRem}
	radiusUnit = []Unit{UnitPx, UnitPercent}
)

// BuiltinProperties returns properties of the sign-in page designer.
func BuiltinProperties() []Property {
	return []Property{
		{Name: "color", Kind: KindColor, Default: Color("#000000")},
		{Name: "color$:hover", Kind: KindColor, Default: Color("#000000")},
		{Name: "background-color", Kind: KindColor, Default: Color("#ffffff")},
		{Name: "background-color$:hover", Kind: KindColor, Default: Color("#ffffff")},
		{Name: "border-radius", Kind: KindDimension, Units: radiusUnit, Default: Px(0)},
		{Name: "text-align", Kind: KindAlignment, Default: AlignmentLeft,
			Allowed: []Alignment{AlignmentLeft, AlignmentRight, AlignmentCenter}},
		{Name: "font-weight", Kind: KindFontWeight, Default: WeightKeyword("inherit")},
		{Name: "font-family", Kind: KindFontFamily, Default: SystemFont("")},
		{Name: "font-size", Kind: KindDimension, Units: textUnits, Default: Px(16)},
		{Name: "margin-top", Kind: KindDimension, Units: textUnits, Negative: true, Default: Px(0)},
		{Name: "margin-bottom", Kind: KindDimension, Units: textUnits, Negative: true, Default: Px(0)},
		{Name: "margin-right", Kind: KindDimension, Units: textUnits, Negative: true, Default: Px(0)},
		{Name: "margin-left", Kind: KindDimension, Units: textUnits, Negative: true, Default: Px(0)},
		{Name: "background-image", Kind: KindUrl, Default: URL("")},
	}
}

var (
	margins     = []string{"margin-top", "margin-bottom", "margin-right", "margin-left"}
	textProps   = []string{"font-family", "font-weight", "font-size", "color"}
	buttonProps = []string{
		"font-family", "font-weight", "font-size",
		"color", "color$:hover",
		"background-color", "background-color$:hover",
		"border-radius",
	}
)

func list(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// BuiltinSelectors returns selectors of the sign-in page designer. Only
// selectors accepted by hosted sign-in page custom CSS are listed.
func BuiltinSelectors() []Selector {
	return []Selector{
		{Name: "body", Properties: []string{"color", "font-family", "font-weight", "font-size"}},

		// form
		{Name: ".ext-sign-in-box", Properties: list([]string{"background-color", "border-radius"}, margins)},
		{Name: ".ext-banner-logo", Properties: list([]string{"background-image"}, margins)},
		{Name: ".ext-title", Properties: list([]string{"text-align"}, textProps, []string{"margin-top", "margin-bottom"})},
		{Name: ".ext-input", Properties: list(textProps, []string{"border-radius"})},
		{Name: ".ext-has-error", Properties: list(textProps, []string{"border-radius"})},
		{Name: ".ext-error", Properties: list(textProps, []string{"background-color"})},
		{Name: ".ext-boilerplate-text", Properties: list([]string{"text-align"}, textProps, []string{"background-color"})},
		{Name: ".ext-promoted-fed-cred-box", Properties: list([]string{"background-color", "border-radius"}, margins)},

		// buttons, plain .ext-button is not accepted alone and always goes
		// together with primary and secondary variants
		{Name: ".ext-button", Properties: list(buttonProps),
			Aliases: []string{".ext-button.ext-primary", ".ext-button.ext-secondary"}},
		{Name: ".ext-button.ext-primary", Properties: list(buttonProps)},
		{Name: ".ext-button.ext-secondary", Properties: list(buttonProps)},

		// background
		{Name: ".ext-background-image", Properties: []string{"background-image"}},
		{Name: ".ext-background-overlay", Properties: []string{"background-color"}},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns registry built from builtin tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(BuiltinProperties(), BuiltinSelectors())
		if err != nil {
			panic(fmt.Sprintf("builtin style tables: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
