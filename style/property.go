package style

import (
	"slices"
	"strings"
)

// SuffixSeparator separates property name from selector suffix in property
// keys: "color$:hover" is "color" applied to "<selector>:hover".
const SuffixSeparator = "$"

// Property is a supported CSS property.
type Property struct {
	Name     string      // Property key, may carry selector suffix
	Kind     Kind        // Kind of values
	Units    []Unit      // Allowed units for dimensions, all when empty
	Negative bool        // Negative dimensions allowed
	Allowed  []Alignment // Allowed alignments, all when empty
	Default  Value       // Installed when property is added to a selector
}

// SplitName splits property key on the first separator into CSS property
// name and selector suffix (empty when there is no separator).
func SplitName(name string) (base, suffix string) {
	base, suffix, _ = strings.Cut(name, SuffixSeparator)
	return base, suffix
}

// Split returns CSS property name and selector suffix.
func (p *Property) Split() (base, suffix string) {
	return SplitName(p.Name)
}

// Validate checks value against kind rules and property options.
func (p *Property) Validate(v Value) error {
	if err := p.Kind.Validate(v); err != nil {
		return err
	}
	return p.checkOptions(v)
}

// Parse converts untyped data into a value acceptable for the property.
func (p *Property) Parse(raw any) (Value, error) {
	v, err := p.Kind.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := p.checkOptions(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *Property) checkOptions(v Value) error {
	switch v := v.(type) {
	case Dimension:
		if len(p.Units) > 0 && !slices.Contains(p.Units, v.Unit) {
			return invalid("unit '%s' not allowed for '%s'", string(v.Unit), p.Name)
		}
		if !p.Negative && v.Value < 0 {
			return invalid("negative value not allowed for '%s'", p.Name)
		}
	case Alignment:
		if len(p.Allowed) > 0 && !slices.Contains(p.Allowed, v) {
			return invalid("alignment '%s' not allowed for '%s'", string(v), p.Name)
		}
	}
	return nil
}

// AllowedUnits returns units property accepts.
func (p *Property) AllowedUnits() []Unit {
	if p.Kind != KindDimension {
		return nil
	}
	if len(p.Units) == 0 {
		return UnitValues()
	}
	return slices.Clone(p.Units)
}

// AllowedAlignments returns alignments property accepts.
func (p *Property) AllowedAlignments() []Alignment {
	if p.Kind != KindAlignment {
		return nil
	}
	if len(p.Allowed) == 0 {
		return AlignmentValues()
	}
	return slices.Clone(p.Allowed)
}

// Selector is a supported CSS selector.
type Selector struct {
	Name       string   // Selector as written to the stylesheet
	Properties []string // Property keys the selector may host
	Aliases    []string // Selectors receiving the same declarations when compatibility aliases are enabled
}

// Allows reports whether selector may host property.
func (s *Selector) Allows(property string) bool {
	return slices.Contains(s.Properties, property)
}
