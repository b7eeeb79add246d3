package css

import (
	"fmt"
	"io"
	"strings"
)

// Quote returns s as CSS string in single quotes.
func Quote(s string) string {
	return "'" + cssEscapeSingleQuoted(s) + "'"
}

// cssEscapeSingleQuoted escapes a string for use inside CSS single quotes.
// Backslashes and single quotes are escaped per CSS syntax: \' and \\.
func cssEscapeSingleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Declaration is a single "property: value" line inside a rule block.
type Declaration struct {
	Property  string // CSS property name (e.g., "color", "margin-top")
	Value     string // Formatted right hand side (e.g., "#ff0000", "10px")
	Important bool   // Append !important
}

// Rule is one selector list with its declaration block.
type Rule struct {
	Selectors    []string      // Selector list, rendered joined with ", "
	Declarations []Declaration // In insertion order
}

// Key returns the selector list as it appears in the stylesheet. Rules with
// equal keys are the same block.
func (r *Rule) Key() string {
	return RuleKey(r.Selectors)
}

// RuleKey joins selectors into a selector list.
func RuleKey(selectors []string) string {
	return strings.Join(selectors, ", ")
}

// Set adds declaration to the block. When the property is already present
// its value is replaced in place, keeping the original position.
func (r *Rule) Set(d Declaration) {
	for i := range r.Declarations {
		if r.Declarations[i].Property == d.Property {
			r.Declarations[i] = d
			return
		}
	}
	r.Declarations = append(r.Declarations, d)
}

// GetProperty returns declaration for a property, or empty Declaration if not found.
func (r *Rule) GetProperty(name string) (Declaration, bool) {
	for _, d := range r.Declarations {
		if d.Property == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// Import is an @import statement for an externally hosted stylesheet.
type Import struct {
	URL    string // Stylesheet location
	Source string // What requested the import (e.g., font family), for diagnostics only
}

// Stylesheet is an ordered set of imports and rule blocks. Imports are always
// written before any rule.
type Stylesheet struct {
	Imports  []Import
	Rules    []*Rule
	Warnings []string // Diagnostics collected while building or parsing the sheet

	rules   map[string]*Rule
	imports map[string]struct{}
}

// NewStylesheet creates an empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{
		Imports:  make([]Import, 0),
		Rules:    make([]*Rule, 0),
		Warnings: make([]string, 0),
		rules:    make(map[string]*Rule),
		imports:  make(map[string]struct{}),
	}
}

// AddImport registers an import, ignoring URLs which are already present.
// Returns false for duplicates.
func (s *Stylesheet) AddImport(imp Import) bool {
	if s.imports == nil {
		s.imports = make(map[string]struct{})
	}
	if _, ok := s.imports[imp.URL]; ok {
		return false
	}
	s.imports[imp.URL] = struct{}{}
	s.Imports = append(s.Imports, imp)
	return true
}

// Rule returns the block for the selector list, creating it at the end of
// the stylesheet on first use.
func (s *Stylesheet) Rule(selectors []string) *Rule {
	if s.rules == nil {
		s.rules = make(map[string]*Rule)
	}
	key := RuleKey(selectors)
	if r, ok := s.rules[key]; ok {
		return r
	}
	r := &Rule{Selectors: append([]string(nil), selectors...)}
	s.rules[key] = r
	s.Rules = append(s.Rules, r)
	return r
}

// RuleByKey returns the block with the given selector list.
func (s *Stylesheet) RuleByKey(key string) (*Rule, bool) {
	for _, r := range s.Rules {
		if r.Key() == key {
			return r, true
		}
	}
	return nil, false
}

// Warn records diagnostic message.
func (s *Stylesheet) Warn(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// IsEmpty reports whether there is nothing to write.
func (s *Stylesheet) IsEmpty() bool {
	return len(s.Imports) == 0 && len(s.Rules) == 0
}

// WriteTo writes the stylesheet to w, implementing io.WriterTo.
// Imports go first, followed by a blank line and rule blocks in the order
// they were created.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, imp := range s.Imports {
		n, err := fmt.Fprintf(w, "@import url('%s');\n", cssEscapeSingleQuoted(imp.URL))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if len(s.Imports) > 0 && len(s.Rules) > 0 {
		n, err := fmt.Fprint(w, "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for _, rule := range s.Rules {
		n, err := writeRule(w, rule)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Key())
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = writeDeclaration(w, d)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

func writeDeclaration(w io.Writer, d Declaration) (int, error) {
	if d.Important {
		return fmt.Fprintf(w, "  %s: %s !important;\n", d.Property, d.Value)
	}
	return fmt.Fprintf(w, "  %s: %s;\n", d.Property, d.Value)
}
