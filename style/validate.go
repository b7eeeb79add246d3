package style

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"cssd/prune"
)

// ErrInvalidValue is returned when a value does not match its kind or
// property constraints.
var ErrInvalidValue = errors.New("invalid value")

var colorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})$`)

var fontWeightKeywords = []string{"bolder", "lighter", "inherit"}

const (
	minFontWeight = 100
	maxFontWeight = 900
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// Validate checks typed value against kind rules.
func (x Kind) Validate(v Value) error {
	if v == nil {
		return invalid("no value for %s", x)
	}
	if v.Kind() != x {
		return invalid("%s value used as %s", v.Kind(), x)
	}
	switch v := v.(type) {
	case Color:
		if !colorPattern.MatchString(string(v)) {
			return invalid("'%s' is not a hex color", string(v))
		}
	case Dimension:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return invalid("dimension value must be finite")
		}
		if !v.Unit.IsValid() {
			return invalid("'%s' is not a dimension unit", string(v.Unit))
		}
	case Alignment:
		if !v.IsValid() {
			return invalid("'%s' is not an alignment", string(v))
		}
	case FontWeight:
		switch {
		case v.Keyword != "" && v.Weight != 0:
			return invalid("font weight has both keyword and number")
		case v.Keyword != "":
			if !slices.Contains(fontWeightKeywords, v.Keyword) {
				return invalid("'%s' is not a font weight keyword", v.Keyword)
			}
		case v.Weight < minFontWeight || v.Weight > maxFontWeight:
			return invalid("font weight %d out of range [%d, %d]", v.Weight, minFontWeight, maxFontWeight)
		}
	case FontFamily:
		if err := checkPrintable(v.Family); err != nil {
			return err
		}
		if v.IsExternal() {
			if err := checkRemote(v.ImportURL); err != nil {
				return err
			}
		}
	case URL:
		if err := checkPrintable(string(v)); err != nil {
			return err
		}
	default:
		return invalid("unsupported value type %T", v)
	}
	return nil
}

// Parse converts untyped (decoded JSON) data into value of this kind. The
// result is validated and carries nothing but the value itself.
func (x Kind) Parse(raw any) (Value, error) {
	var v Value
	switch x {
	case KindColor:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("color must be a string")
		}
		v = Color(s)
	case KindDimension:
		d, err := parseDimension(raw)
		if err != nil {
			return nil, err
		}
		v = d
	case KindAlignment:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("alignment must be a string")
		}
		v = Alignment(s)
	case KindFontWeight:
		if s, ok := raw.(string); ok {
			v = WeightKeyword(s)
			break
		}
		if _, ok := prune.AsFloat(raw); !ok {
			return nil, invalid("font weight must be a keyword or a number")
		}
		w, ok := prune.AsInt(raw)
		if !ok {
			return nil, invalid("font weight must be an integer")
		}
		if w == 0 {
			return nil, invalid("font weight %d out of range [%d, %d]", w, minFontWeight, maxFontWeight)
		}
		v = Weight(w)
	case KindFontFamily:
		f, err := parseFontFamily(raw)
		if err != nil {
			return nil, err
		}
		v = f
	case KindUrl:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("url must be a string")
		}
		v = URL(s)
	default:
		return nil, invalid("unknown kind %s", x)
	}
	if err := x.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseDimension(raw any) (Dimension, error) {
	obj, ok := prune.AsObject(raw)
	if !ok {
		return Dimension{}, invalid("dimension must be an object")
	}
	var (
		d                 Dimension
		hasValue, hasUnit bool
	)
	for k, val := range obj.All() {
		switch k {
		case "value":
			f, ok := prune.AsFloat(val)
			if !ok {
				return Dimension{}, invalid("dimension value must be a number")
			}
			d.Value, hasValue = f, true
		case "unit":
			s, ok := val.(string)
			if !ok {
				return Dimension{}, invalid("dimension unit must be a string")
			}
			d.Unit, hasUnit = Unit(s), true
		default:
			return Dimension{}, invalid("unexpected dimension field '%s'", k)
		}
	}
	if !hasValue || !hasUnit {
		return Dimension{}, invalid("dimension requires value and unit")
	}
	return d, nil
}

func parseFontFamily(raw any) (FontFamily, error) {
	if s, ok := raw.(string); ok {
		return SystemFont(s), nil
	}
	obj, ok := prune.AsObject(raw)
	if !ok {
		return FontFamily{}, invalid("font family must be a string or an object")
	}
	var (
		f        FontFamily
		hasFont  bool
		external = true
	)
	for k, val := range obj.All() {
		switch k {
		case "font":
			s, ok := val.(string)
			if !ok {
				return FontFamily{}, invalid("font family name must be a string")
			}
			f.Family, hasFont = s, true
		case "url":
			s, ok := val.(string)
			if !ok {
				return FontFamily{}, invalid("font family url must be a string")
			}
			f.ImportURL = s
		case "external":
			b, ok := val.(bool)
			if !ok {
				return FontFamily{}, invalid("font family external flag must be a boolean")
			}
			external = b
		default:
			return FontFamily{}, invalid("unexpected font family field '%s'", k)
		}
	}
	if !hasFont {
		return FontFamily{}, invalid("font family requires font name")
	}
	if !external && f.ImportURL != "" {
		return FontFamily{}, invalid("system font must not have url")
	}
	return f, nil
}

// checkPrintable rejects control characters. Quotes and backslashes are
// escaped when formatting.
func checkPrintable(s string) error {
	if i := strings.IndexFunc(s, unicode.IsControl); i >= 0 {
		return invalid("unsupported character at position %d in '%s'", i, s)
	}
	return nil
}

func checkRemote(s string) error {
	if err := checkPrintable(s); err != nil {
		return err
	}
	u, err := url.Parse(s)
	if err != nil {
		return invalid("bad import url '%s': %v", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("import url '%s' must be absolute http(s) url", s)
	}
	return nil
}
