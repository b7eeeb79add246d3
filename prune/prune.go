package prune

// Prune returns the largest part of data which matches schema.
//
// Data which already matches is returned unchanged. Otherwise every key is
// checked separately: undeclared keys are dropped, values for nested object
// schemas are pruned recursively, scalar values are kept only when valid.
// Surviving keys are assembled into a new object which is validated once
// more, so an object missing required keys does not match and the caller
// one level up drops it.
//
// Prune never produces values which were not in data and running it on its
// own result returns that result unchanged.
func Prune(schema *ObjectSchema, data any) (any, bool) {
	if schema == nil {
		return nil, false
	}
	obj, ok := AsObject(data)
	if !ok {
		return nil, false
	}
	if schema.Validate(obj) {
		return data, true
	}

	out := NewObject()
	for key, val := range obj.All() {
		f, ok := schema.Field(key)
		if !ok || f.Schema == nil {
			continue
		}
		if sub, ok := f.Schema.(*ObjectSchema); ok {
			if pruned, ok := Prune(sub, val); ok {
				out.Set(key, pruned)
			}
			continue
		}
		if f.Schema.Validate(val) {
			out.Set(key, val)
		}
	}

	if !schema.Validate(out) {
		return nil, false
	}
	return out, true
}
