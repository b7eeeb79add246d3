package generator

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"cssd/css"
)

// ErrMismatch is returned by Verify when CSS text does not read back as the
// stylesheet it was written from.
var ErrMismatch = errors.New("generated stylesheet does not read back")

// Verify writes sheet out, parses result and compares it with sheet.
func (g *Generator) Verify(sheet *css.Stylesheet) (err error) {
	parsed, perr := css.NewParser(g.log).Parse([]byte(sheet.String()))
	if perr != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, perr)
	}
	for _, w := range parsed.Warnings {
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrMismatch, w))
	}

	if len(parsed.Imports) != len(sheet.Imports) {
		err = multierr.Append(err, fmt.Errorf("%w: %d imports instead of %d", ErrMismatch, len(parsed.Imports), len(sheet.Imports)))
	} else {
		for i, imp := range sheet.Imports {
			if parsed.Imports[i].URL != imp.URL {
				err = multierr.Append(err, fmt.Errorf("%w: import '%s' reads as '%s'", ErrMismatch, imp.URL, parsed.Imports[i].URL))
			}
		}
	}

	if len(parsed.Rules) != len(sheet.Rules) {
		return multierr.Append(err, fmt.Errorf("%w: %d rules instead of %d", ErrMismatch, len(parsed.Rules), len(sheet.Rules)))
	}
	for i, r := range sheet.Rules {
		p := parsed.Rules[i]
		if p.Key() != r.Key() {
			err = multierr.Append(err, fmt.Errorf("%w: rule '%s' reads as '%s'", ErrMismatch, r.Key(), p.Key()))
			continue
		}
		if len(p.Declarations) != len(r.Declarations) {
			err = multierr.Append(err, fmt.Errorf("%w: rule '%s' has %d declarations instead of %d", ErrMismatch, r.Key(), len(p.Declarations), len(r.Declarations)))
			continue
		}
		for j, d := range r.Declarations {
			if p.Declarations[j] != d {
				err = multierr.Append(err, fmt.Errorf("%w: rule '%s': %+v reads as %+v", ErrMismatch, r.Key(), d, p.Declarations[j]))
			}
		}
	}
	return err
}
