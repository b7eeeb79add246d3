package style

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"

	"cssd/css"
	"cssd/prune"
)

var (
	// ErrUnknownSelector is returned for selectors registry does not declare.
	ErrUnknownSelector = errors.New("unknown selector")
	// ErrUnknownProperty is returned for properties registry does not declare.
	ErrUnknownProperty = errors.New("unknown property")
)

// Registry is the single source of truth on what could be styled. It is
// immutable after construction and safe for concurrent use.
type Registry struct {
	properties []*Property
	selectors  []*Selector
	byProperty map[string]*Property
	bySelector map[string]*Selector

	schemaOnce sync.Once
	schema     *prune.ObjectSchema
}

// NewRegistry builds registry from declarations and checks them for
// consistency. All problems found are reported together.
func NewRegistry(properties []Property, selectors []Selector) (*Registry, error) {
	r := &Registry{
		byProperty: make(map[string]*Property, len(properties)),
		bySelector: make(map[string]*Selector, len(selectors)),
	}

	var err error
	for i := range properties {
		p := properties[i]
		p.Units = slices.Clone(p.Units)
		p.Allowed = slices.Clone(p.Allowed)
		if _, exists := r.byProperty[p.Name]; exists {
			err = multierr.Append(err, fmt.Errorf("property '%s' declared more than once", p.Name))
			continue
		}
		if e := checkProperty(&p); e != nil {
			err = multierr.Append(err, e)
		}
		r.byProperty[p.Name] = &p
		r.properties = append(r.properties, &p)
	}

	for i := range selectors {
		s := selectors[i]
		s.Properties = slices.Clone(s.Properties)
		s.Aliases = slices.Clone(s.Aliases)
		if _, exists := r.bySelector[s.Name]; exists {
			err = multierr.Append(err, fmt.Errorf("selector '%s' declared more than once", s.Name))
			continue
		}
		if e := css.ValidateSelector(s.Name); e != nil {
			err = multierr.Append(err, e)
		}
		for _, alias := range s.Aliases {
			if e := css.ValidateSelector(alias); e != nil {
				err = multierr.Append(err, fmt.Errorf("alias of '%s': %w", s.Name, e))
			}
		}
		seen := make(map[string]struct{}, len(s.Properties))
		for _, name := range s.Properties {
			if _, dup := seen[name]; dup {
				err = multierr.Append(err, fmt.Errorf("selector '%s' lists property '%s' more than once", s.Name, name))
			}
			seen[name] = struct{}{}
			if _, ok := r.byProperty[name]; !ok {
				err = multierr.Append(err, fmt.Errorf("selector '%s': %w '%s'", s.Name, ErrUnknownProperty, name))
			}
		}
		r.bySelector[s.Name] = &s
		r.selectors = append(r.selectors, &s)
	}

	if err != nil {
		return nil, fmt.Errorf("inconsistent style registry: %w", err)
	}
	return r, nil
}

func checkProperty(p *Property) (err error) {
	if !p.Kind.IsValid() {
		return fmt.Errorf("property '%s' has unknown kind %s", p.Name, p.Kind)
	}
	base, suffix := p.Split()
	if base == "" {
		err = multierr.Append(err, fmt.Errorf("property '%s' has empty name", p.Name))
	}
	if e := css.ValidateSuffix(suffix); e != nil {
		err = multierr.Append(err, fmt.Errorf("property '%s': %w", p.Name, e))
	}
	for _, u := range p.Units {
		if !u.IsValid() {
			err = multierr.Append(err, fmt.Errorf("property '%s' allows unknown unit '%s'", p.Name, string(u)))
		}
	}
	for _, a := range p.Allowed {
		if !a.IsValid() {
			err = multierr.Append(err, fmt.Errorf("property '%s' allows unknown alignment '%s'", p.Name, string(a)))
		}
	}
	if e := p.Validate(p.Default); e != nil {
		err = multierr.Append(err, fmt.Errorf("default of property '%s': %w", p.Name, e))
	}
	return err
}

// Properties returns all properties in declaration order.
func (r *Registry) Properties() []*Property {
	return slices.Clone(r.properties)
}

// Selectors returns all selectors in declaration order.
func (r *Registry) Selectors() []*Selector {
	return slices.Clone(r.selectors)
}

// Property looks up property by key.
func (r *Registry) Property(name string) (*Property, bool) {
	p, ok := r.byProperty[name]
	return p, ok
}

// Selector looks up selector by name.
func (r *Registry) Selector(name string) (*Selector, bool) {
	s, ok := r.bySelector[name]
	return s, ok
}

// PropertiesAllowedFor returns property keys selector may host.
func (r *Registry) PropertiesAllowedFor(selector string) ([]string, error) {
	s, ok := r.bySelector[selector]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownSelector, selector)
	}
	return slices.Clone(s.Properties), nil
}

// KindOf returns kind of property values.
func (r *Registry) KindOf(property string) (Kind, error) {
	p, ok := r.byProperty[property]
	if !ok {
		return Kind(0), fmt.Errorf("%w '%s'", ErrUnknownProperty, property)
	}
	return p.Kind, nil
}

// DefaultValueOf returns value installed when property is added.
func (r *Registry) DefaultValueOf(property string) (Value, error) {
	p, ok := r.byProperty[property]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownProperty, property)
	}
	return p.Default, nil
}

// AliasesOf returns compatibility aliases of selector, empty for unknown
// selectors.
func (r *Registry) AliasesOf(selector string) []string {
	s, ok := r.bySelector[selector]
	if !ok {
		return nil
	}
	return slices.Clone(s.Aliases)
}

// Allows reports whether selector exists and may host property.
func (r *Registry) Allows(selector, property string) bool {
	s, ok := r.bySelector[selector]
	if !ok {
		return false
	}
	_, known := r.byProperty[property]
	return known && s.Allows(property)
}

// StyleSchema returns schema of a style document: optional selectors, each
// an object of optional permitted properties validated by the property.
func (r *Registry) StyleSchema() *prune.ObjectSchema {
	r.schemaOnce.Do(func() {
		selectors := make([]prune.Field, 0, len(r.selectors))
		for _, s := range r.selectors {
			props := make([]prune.Field, 0, len(s.Properties))
			for _, name := range s.Properties {
				p := r.byProperty[name]
				props = append(props, prune.Field{
					Name: name,
					Schema: prune.Leaf{Name: p.Kind.String(), Check: func(v any) bool {
						_, err := p.Parse(v)
						return err == nil
					}},
				})
			}
			selectors = append(selectors, prune.Field{Name: s.Name, Schema: prune.NewObjectSchema(props...)})
		}
		r.schema = prune.NewObjectSchema(selectors...)
	})
	return r.schema
}
