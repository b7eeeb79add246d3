package prune

import (
	"encoding/json"
	"math"
)

// Schema validates untyped data.
type Schema interface {
	Validate(v any) bool
}

// Leaf is a scalar (non object) schema defined by a predicate.
type Leaf struct {
	Name  string
	Check func(v any) bool
}

// Validate implements Schema.
func (l Leaf) Validate(v any) bool {
	if l.Check == nil {
		return false
	}
	return l.Check(v)
}

func Bool() Leaf {
	return Leaf{Name: "bool", Check: func(v any) bool {
		_, ok := v.(bool)
		return ok
	}}
}

func String() Leaf {
	return Leaf{Name: "string", Check: func(v any) bool {
		_, ok := v.(string)
		return ok
	}}
}

func Number() Leaf {
	return Leaf{Name: "number", Check: func(v any) bool {
		_, ok := AsFloat(v)
		return ok
	}}
}

func Integer() Leaf {
	return Leaf{Name: "integer", Check: func(v any) bool {
		_, ok := AsInt(v)
		return ok
	}}
}

// AsFloat converts untyped number to a finite float64.
func AsFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsInt converts untyped number without fractional part to int.
func AsInt(v any) (int, bool) {
	f, ok := AsFloat(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Field declares a key of an object schema.
type Field struct {
	Name     string
	Schema   Schema
	Required bool
}

// ObjectSchema describes an object with a fixed set of keys. Keys which are
// not declared make the object invalid.
type ObjectSchema struct {
	fields []Field
	index  map[string]int
}

// NewObjectSchema creates object schema. Later fields with the same name
// replace earlier ones.
func NewObjectSchema(fields ...Field) *ObjectSchema {
	s := &ObjectSchema{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Field returns declaration for key.
func (s *ObjectSchema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns declared fields in declaration order.
func (s *ObjectSchema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Validate implements Schema: v must be an object, every key must be
// declared and valid, every required key must be present.
func (s *ObjectSchema) Validate(v any) bool {
	obj, ok := AsObject(v)
	if !ok {
		return false
	}
	for k, val := range obj.All() {
		f, ok := s.Field(k)
		if !ok || f.Schema == nil || !f.Schema.Validate(val) {
			return false
		}
	}
	for _, f := range s.fields {
		if !f.Required {
			continue
		}
		if _, ok := obj.Get(f.Name); !ok {
			return false
		}
	}
	return true
}
