package style

import (
	"encoding/json"
	"fmt"
	"strconv"

	"cssd/css"
)

// Value is a typed property value. The set of implementations is closed:
// Color, Dimension, Alignment, FontWeight, FontFamily and URL, one per Kind.
type Value interface {
	Kind() Kind
	isValue()
}

// Color is a hex color: #rgb, #rrggbb or #rrggbbaa.
type Color string

// Dimension is a number with unit.
type Dimension struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// FontWeight is either a keyword (bolder, lighter, inherit) or a numeric
// weight in [100, 900]. Exactly one of the fields is set.
type FontWeight struct {
	Keyword string
	Weight  int
}

// FontFamily names a font. Fonts which are not available on the system carry
// the location of stylesheet which has to be imported to load them.
type FontFamily struct {
	Family    string
	ImportURL string
}

// URL is a resource location (background images).
type URL string

func (Color) Kind() Kind      { return KindColor }
func (Dimension) Kind() Kind  { return KindDimension }
func (Alignment) Kind() Kind  { return KindAlignment }
func (FontWeight) Kind() Kind { return KindFontWeight }
func (FontFamily) Kind() Kind { return KindFontFamily }
func (URL) Kind() Kind        { return KindUrl }

func (Color) isValue()      {}
func (Dimension) isValue()  {}
func (Alignment) isValue()  {}
func (FontWeight) isValue() {}
func (FontFamily) isValue() {}
func (URL) isValue()        {}

// Px, Em, Rem and Percent are shortcuts for dimension literals.
func Px(v float64) Dimension      { return Dimension{Value: v, Unit: UnitPx} }
func Em(v float64) Dimension      { return Dimension{Value: v, Unit: UnitEm} }
func Rem(v float64) Dimension     { return Dimension{Value: v, Unit: UnitRem} }
func Percent(v float64) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// Weight creates numeric font weight.
func Weight(w int) FontWeight { return FontWeight{Weight: w} }

// WeightKeyword creates keyword font weight.
func WeightKeyword(k string) FontWeight { return FontWeight{Keyword: k} }

// SystemFont creates font family which does not need import.
func SystemFont(family string) FontFamily { return FontFamily{Family: family} }

// ExternalFont creates font family loaded from importURL.
func ExternalFont(family, importURL string) FontFamily {
	return FontFamily{Family: family, ImportURL: importURL}
}

func (v FontWeight) String() string {
	if v.Keyword != "" {
		return v.Keyword
	}
	return strconv.Itoa(v.Weight)
}

// IsExternal reports whether font has to be imported.
func (v FontFamily) IsExternal() bool {
	return v.ImportURL != ""
}

// MarshalJSON writes keyword weights as strings and numeric weights as numbers.
func (v FontWeight) MarshalJSON() ([]byte, error) {
	if v.Keyword != "" {
		return json.Marshal(v.Keyword)
	}
	return json.Marshal(v.Weight)
}

type externalFontJSON struct {
	Font string `json:"font"`
	URL  string `json:"url"`
}

// MarshalJSON writes system fonts as plain strings and external fonts as
// {"font": ..., "url": ...} objects.
func (v FontFamily) MarshalJSON() ([]byte, error) {
	if !v.IsExternal() {
		return json.Marshal(v.Family)
	}
	return json.Marshal(externalFontJSON{Font: v.Family, URL: v.ImportURL})
}

// Format returns text for the right hand side of CSS declaration. Values
// must be validated before formatting.
func Format(v Value) string {
	switch v := v.(type) {
	case Color:
		return string(v)
	case Dimension:
		return strconv.FormatFloat(v.Value, 'f', -1, 64) + string(v.Unit)
	case Alignment:
		return string(v)
	case FontWeight:
		return v.String()
	case FontFamily:
		return css.Quote(v.Family)
	case URL:
		return "url(" + css.Quote(string(v)) + ")"
	default:
		// this should never happen
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}

// ImportOf returns stylesheet location value depends on, if any.
func ImportOf(v Value) (string, bool) {
	if f, ok := v.(FontFamily); ok && f.IsExternal() {
		return f.ImportURL, true
	}
	return "", false
}

// IsBlank reports values which render to nothing useful (empty font family
// or url). Those are kept in documents but skipped by generator.
func IsBlank(v Value) bool {
	switch v := v.(type) {
	case FontFamily:
		return v.Family == ""
	case URL:
		return v == ""
	}
	return false
}
