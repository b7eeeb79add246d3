package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalidSelector is returned for selectors outside of the supported subset.
var ErrInvalidSelector = errors.New("invalid selector")

// ValidateSelector checks that s is a single compound/complex selector made of
// type, universal, class, id and pseudo-class parts joined by combinators.
// Selector lists, attribute selectors and functional pseudo-classes are not
// supported.
func ValidateSelector(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	if s != strings.TrimSpace(s) {
		return fmt.Errorf("%w: '%s' has surrounding whitespace", ErrInvalidSelector, s)
	}

	l := css.NewLexer(parse.NewInputString(s))
	// expectName is set after '.' and ':' which must be followed by identifier
	var expectName, afterCombinator bool
	colons := 0
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: '%s': %w", ErrInvalidSelector, s, err)
			}
			if expectName || afterCombinator {
				return fmt.Errorf("%w: '%s' is incomplete", ErrInvalidSelector, s)
			}
			return nil
		case css.IdentToken:
			expectName, afterCombinator, colons = false, false, 0
		case css.HashToken:
			if expectName {
				return fmt.Errorf("%w: unexpected '%s' in '%s'", ErrInvalidSelector, data, s)
			}
			afterCombinator = false
		case css.ColonToken:
			// "::" is allowed for pseudo-elements
			if (expectName && colons != 1) || colons >= 2 {
				return fmt.Errorf("%w: unexpected ':' in '%s'", ErrInvalidSelector, s)
			}
			expectName, afterCombinator = true, false
			colons++
		case css.DelimToken:
			if expectName {
				return fmt.Errorf("%w: unexpected '%s' in '%s'", ErrInvalidSelector, data, s)
			}
			switch string(data) {
			case ".":
				expectName, afterCombinator = true, false
			case "*":
				afterCombinator = false
			case ">", "+", "~":
				if afterCombinator {
					return fmt.Errorf("%w: unexpected '%s' in '%s'", ErrInvalidSelector, data, s)
				}
				afterCombinator = true
			default:
				return fmt.Errorf("%w: unexpected '%s' in '%s'", ErrInvalidSelector, data, s)
			}
		case css.WhitespaceToken:
			if expectName {
				return fmt.Errorf("%w: dangling prefix in '%s'", ErrInvalidSelector, s)
			}
		default:
			return fmt.Errorf("%w: unsupported token '%s' in '%s'", ErrInvalidSelector, data, s)
		}
	}
}

// ValidateSuffix checks pseudo-selector suffix appended to a selector (e.g.
// ":hover"). Empty suffix is valid.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return nil
	}
	if !strings.HasPrefix(suffix, ":") {
		return fmt.Errorf("%w: suffix '%s' must start with ':'", ErrInvalidSelector, suffix)
	}
	return ValidateSelector("*" + suffix)
}
