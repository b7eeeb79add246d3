package document

import (
	"fmt"

	"cssd/prune"
	"cssd/style"
)

// FromTree builds document from untyped data (decoded JSON object of
// selectors). The data is expected to match registry style schema, so any
// error here means it was not pruned first.
func FromTree(reg *style.Registry, tree any) (*Document, error) {
	doc := New(reg)
	if tree == nil {
		return doc, nil
	}
	obj, ok := prune.AsObject(tree)
	if !ok {
		return nil, fmt.Errorf("style must be an object, got %T", tree)
	}

	var err error
	for selector, raw := range obj.All() {
		props, ok := prune.AsObject(raw)
		if !ok {
			return nil, fmt.Errorf("properties of '%s' must be an object, got %T", selector, raw)
		}
		if doc, err = doc.AddSelector(selector); err != nil {
			return nil, err
		}
		for property, val := range props.All() {
			if doc, err = doc.AddProperty(selector, property); err != nil {
				return nil, err
			}
			if doc, err = doc.ParseProperty(selector, property, val); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// Parse decodes JSON text of a style document. Unlike persisted state it is
// not pruned: any problem is reported.
func Parse(reg *style.Registry, data []byte) (*Document, error) {
	tree, err := prune.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode style document: %w", err)
	}
	return FromTree(reg, tree)
}
