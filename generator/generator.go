// Package generator renders style documents into CSS text.
package generator

import (
	"fmt"

	"go.uber.org/zap"

	"cssd/css"
	"cssd/document"
	"cssd/prune"
	"cssd/style"
)

// Options controls how declarations are emitted.
type Options struct {
	// Important appends !important to every declaration.
	Important bool `json:"important" yaml:"important"`
	// IncludeAdditionalSelectors expands selectors with their compatibility
	// aliases.
	IncludeAdditionalSelectors bool `json:"includeAdditionalSelectors" yaml:"include_additional_selectors"`
}

// DefaultOptions returns options used when nothing else is specified. Hosted
// sign-in page applies its own styles after custom CSS, so declarations are
// important and aliases are expanded by default.
func DefaultOptions() Options {
	return Options{Important: true, IncludeAdditionalSelectors: true}
}

// Generator turns documents into stylesheets. It is stateless and safe for
// concurrent use.
type Generator struct {
	reg *style.Registry
	log *zap.Logger
}

// New creates generator for registry.
func New(reg *style.Registry, log *zap.Logger) *Generator {
	if reg == nil {
		reg = style.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{reg: reg, log: log.Named("generator")}
}

// Generate returns CSS text for document, empty string for empty document.
func (g *Generator) Generate(doc *document.Document, opts Options) string {
	return g.Stylesheet(doc, opts).String()
}

// Stylesheet builds stylesheet for document. Anything which does not match
// registry is skipped with a warning, generation never fails.
func (g *Generator) Stylesheet(doc *document.Document, opts Options) *css.Stylesheet {
	sheet := css.NewStylesheet()
	if doc == nil {
		return sheet
	}

	for selector, decls := range doc.All() {
		sel, ok := g.reg.Selector(selector)
		if !ok {
			g.skip(sheet, fmt.Errorf("%w '%s'", style.ErrUnknownSelector, selector))
			continue
		}
		for _, decl := range decls {
			g.emit(sheet, sel, decl.Property, decl.Value, opts)
		}
	}
	return sheet
}

// Tree builds stylesheet directly from untyped data (decoded JSON object of
// selectors) which was not validated. Same skipping rules apply.
func (g *Generator) Tree(tree any, opts Options) *css.Stylesheet {
	sheet := css.NewStylesheet()
	obj, ok := prune.AsObject(tree)
	if !ok {
		if tree != nil {
			g.skip(sheet, fmt.Errorf("style must be an object, got %T", tree))
		}
		return sheet
	}

	for selector, raw := range obj.All() {
		sel, ok := g.reg.Selector(selector)
		if !ok {
			g.skip(sheet, fmt.Errorf("%w '%s'", style.ErrUnknownSelector, selector))
			continue
		}
		props, ok := prune.AsObject(raw)
		if !ok {
			g.skip(sheet, fmt.Errorf("properties of '%s' must be an object, got %T", selector, raw))
			continue
		}
		for property, val := range props.All() {
			prop, ok := g.allowed(sheet, sel, property)
			if !ok {
				continue
			}
			v, err := prop.Parse(val)
			if err != nil {
				g.skip(sheet, fmt.Errorf("'%s' on '%s': %w", property, sel.Name, err))
				continue
			}
			g.emit(sheet, sel, property, v, opts)
		}
	}
	return sheet
}

func (g *Generator) allowed(sheet *css.Stylesheet, sel *style.Selector, property string) (*style.Property, bool) {
	prop, ok := g.reg.Property(property)
	if !ok || !sel.Allows(property) {
		g.skip(sheet, fmt.Errorf("property '%s' is not allowed on '%s'", property, sel.Name))
		return nil, false
	}
	return prop, true
}

func (g *Generator) emit(sheet *css.Stylesheet, sel *style.Selector, property string, v style.Value, opts Options) {
	prop, ok := g.allowed(sheet, sel, property)
	if !ok {
		return
	}

	base, suffix := prop.Split()

	if err := prop.Validate(v); err != nil {
		g.skip(sheet, fmt.Errorf("'%s' on '%s': %w", property, sel.Name, err))
		return
	}
	if style.IsBlank(v) {
		// nothing to render yet, not an error
		return
	}
	value := style.Format(v)

	targets := []string{sel.Name}
	if opts.IncludeAdditionalSelectors {
		targets = append(targets, sel.Aliases...)
	}
	for i := range targets {
		targets[i] += suffix
	}

	if url, ok := style.ImportOf(v); ok {
		sheet.AddImport(css.Import{URL: url, Source: value})
	}
	sheet.Rule(targets).Set(css.Declaration{Property: base, Value: value, Important: opts.Important})
}

func (g *Generator) skip(sheet *css.Stylesheet, err error) {
	g.log.Warn("Skipping declaration", zap.Error(err))
	sheet.Warn("%v", err)
}
