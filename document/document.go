// Package document holds user style composition: sparse mapping from
// registered selectors to their permitted properties and typed values.
//
// Documents are immutable. Every mutation checks its preconditions first and
// either returns a new document or an error, receiver is never changed, so
// documents can be shared freely between goroutines.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"

	"cssd/style"
)

var (
	ErrUnknownSelector    = errors.New("selector is not supported")
	ErrSelectorExists     = errors.New("selector already present")
	ErrSelectorNotFound   = errors.New("selector not present")
	ErrPropertyNotAllowed = errors.New("property is not allowed for selector")
	ErrPropertyExists     = errors.New("property already present")
	ErrPropertyNotFound   = errors.New("property not present")
	ErrInvalidValue       = errors.New("invalid property value")
)

// Declaration is a property with its value as stored in document.
type Declaration struct {
	Property string
	Value    style.Value
}

type block struct {
	selector string
	decls    []Declaration
}

func (b *block) find(property string) int {
	return slices.IndexFunc(b.decls, func(d Declaration) bool { return d.Property == property })
}

// Document is an ordered selector -> property -> value mapping. Selectors
// and properties keep the order they were added in.
type Document struct {
	reg    *style.Registry
	blocks []block
}

// New creates empty document bound to registry.
func New(reg *style.Registry) *Document {
	if reg == nil {
		reg = style.Default()
	}
	return &Document{reg: reg}
}

// Registry returns registry document is validated against.
func (d *Document) Registry() *style.Registry {
	return d.reg
}

func (d *Document) find(selector string) int {
	return slices.IndexFunc(d.blocks, func(b block) bool { return b.selector == selector })
}

// with returns copy of document with block i replaced. Declarations of other
// blocks are shared, they are never modified in place.
func (d *Document) with(i int, b block) *Document {
	blocks := slices.Clone(d.blocks)
	blocks[i] = b
	return &Document{reg: d.reg, blocks: blocks}
}

// AddSelector adds empty selector.
func (d *Document) AddSelector(selector string) (*Document, error) {
	if _, ok := d.reg.Selector(selector); !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSelector, selector)
	}
	if d.find(selector) >= 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSelectorExists, selector)
	}
	blocks := make([]block, len(d.blocks), len(d.blocks)+1)
	copy(blocks, d.blocks)
	return &Document{reg: d.reg, blocks: append(blocks, block{selector: selector})}, nil
}

// RemoveSelector removes selector with all its properties.
func (d *Document) RemoveSelector(selector string) (*Document, error) {
	i := d.find(selector)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSelectorNotFound, selector)
	}
	return &Document{reg: d.reg, blocks: slices.Delete(slices.Clone(d.blocks), i, i+1)}, nil
}

// AddProperty adds property to selector installing its default value.
func (d *Document) AddProperty(selector, property string) (*Document, error) {
	i := d.find(selector)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSelectorNotFound, selector)
	}
	if !d.reg.Allows(selector, property) {
		return nil, fmt.Errorf("%w: '%s' on '%s'", ErrPropertyNotAllowed, property, selector)
	}
	b := d.blocks[i]
	if b.find(property) >= 0 {
		return nil, fmt.Errorf("%w: '%s' on '%s'", ErrPropertyExists, property, selector)
	}
	def, err := d.reg.DefaultValueOf(property)
	if err != nil {
		return nil, err
	}
	decls := make([]Declaration, len(b.decls), len(b.decls)+1)
	copy(decls, b.decls)
	b.decls = append(decls, Declaration{Property: property, Value: def})
	return d.with(i, b), nil
}

// RemoveProperty removes property from selector.
func (d *Document) RemoveProperty(selector, property string) (*Document, error) {
	i := d.find(selector)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSelectorNotFound, selector)
	}
	b := d.blocks[i]
	j := b.find(property)
	if j < 0 {
		return nil, fmt.Errorf("%w: '%s' on '%s'", ErrPropertyNotFound, property, selector)
	}
	b.decls = slices.Delete(slices.Clone(b.decls), j, j+1)
	return d.with(i, b), nil
}

// SetProperty replaces value of property already present on selector.
func (d *Document) SetProperty(selector, property string, v style.Value) (*Document, error) {
	i := d.find(selector)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSelectorNotFound, selector)
	}
	b := d.blocks[i]
	j := b.find(property)
	if j < 0 {
		return nil, fmt.Errorf("%w: '%s' on '%s'", ErrPropertyNotFound, property, selector)
	}
	p, ok := d.reg.Property(property)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", style.ErrUnknownProperty, property)
	}
	if err := p.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: '%s' on '%s': %w", ErrInvalidValue, property, selector, err)
	}
	b.decls = slices.Clone(b.decls)
	b.decls[j].Value = v
	return d.with(i, b), nil
}

// ParseProperty is SetProperty for untyped (decoded JSON) value.
func (d *Document) ParseProperty(selector, property string, raw any) (*Document, error) {
	p, ok := d.reg.Property(property)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' on '%s'", ErrPropertyNotAllowed, property, selector)
	}
	v, err := p.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' on '%s': %w", ErrInvalidValue, property, selector, err)
	}
	return d.SetProperty(selector, property, v)
}

// Len returns number of selectors.
func (d *Document) Len() int {
	return len(d.blocks)
}

// IsEmpty reports whether document has no selectors.
func (d *Document) IsEmpty() bool {
	return len(d.blocks) == 0
}

// Has reports whether selector is present.
func (d *Document) Has(selector string) bool {
	return d.find(selector) >= 0
}

// Selectors returns present selectors in document order.
func (d *Document) Selectors() []string {
	out := make([]string, 0, len(d.blocks))
	for _, b := range d.blocks {
		out = append(out, b.selector)
	}
	return out
}

// Properties returns properties present on selector in document order.
func (d *Document) Properties(selector string) []string {
	i := d.find(selector)
	if i < 0 {
		return nil
	}
	out := make([]string, 0, len(d.blocks[i].decls))
	for _, decl := range d.blocks[i].decls {
		out = append(out, decl.Property)
	}
	return out
}

// Value returns value of property on selector.
func (d *Document) Value(selector, property string) (style.Value, bool) {
	i := d.find(selector)
	if i < 0 {
		return nil, false
	}
	j := d.blocks[i].find(property)
	if j < 0 {
		return nil, false
	}
	return d.blocks[i].decls[j].Value, true
}

// All iterates over selectors and their declarations in document order.
// Yielded slices must not be modified.
func (d *Document) All() iter.Seq2[string, []Declaration] {
	return func(yield func(string, []Declaration) bool) {
		for _, b := range d.blocks {
			if !yield(b.selector, b.decls) {
				return
			}
		}
	}
}

// Equal reports whether both documents have the same selectors, properties
// and values in the same order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return slices.EqualFunc(d.blocks, other.blocks, func(a, b block) bool {
		return a.selector == b.selector && slices.Equal(a.decls, b.decls)
	})
}

// MarshalJSON writes document as JSON object keeping document order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range d.blocks {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, b.selector); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, decl := range b.decls {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, decl.Property); err != nil {
				return nil, err
			}
			data, err := json.Marshal(decl.Value)
			if err != nil {
				return nil, fmt.Errorf("unable to marshal '%s' of '%s': %w", decl.Property, b.selector, err)
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}
