package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads stylesheets in the restricted form produced by this program
// (imports and flat rule blocks) back into a Stylesheet. Anything else is
// skipped with a warning.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Grammar errors other than the end
// of input are returned together with whatever has been parsed so far.
func (p *Parser) Parse(data []byte) (*Stylesheet, error) {
	sheet := NewStylesheet()

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.Error(err))
				return sheet, fmt.Errorf("unable to parse stylesheet: %w", err)
			}
			return sheet, nil

		case css.AtRuleGrammar:
			atRule := string(data)
			if atRule != "@import" {
				sheet.Warn("unsupported at-rule: %s", atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				continue
			}
			url := extractImportURL(parser.Values())
			if url == "" {
				sheet.Warn("@import without url")
				continue
			}
			if !sheet.AddImport(Import{URL: url}) {
				sheet.Warn("duplicate @import: %s", url)
			}

		case css.BeginAtRuleGrammar:
			sheet.Warn("unsupported at-rule block: %s", string(data))
			p.log.Debug("Skipping @-rule block", zap.String("rule", string(data)))
			p.skipBlock(parser)

		case css.BeginRulesetGrammar:
			selectors := parseSelectors(data, parser.Values())
			if len(selectors) == 0 {
				sheet.Warn("ruleset without selectors")
				p.skipBlock(parser)
				continue
			}
			if _, exists := sheet.RuleByKey(RuleKey(selectors)); exists {
				sheet.Warn("selector list appears more than once: %s", RuleKey(selectors))
			}
			rule := sheet.Rule(selectors)
			if err := p.parseDeclarations(parser, rule); err != nil {
				return sheet, err
			}

		case css.QualifiedRuleGrammar:
			sheet.Warn("qualified rule without block: %s", string(data))
		}
	}
}

// parseDeclarations parses property declarations until the end of ruleset.
func (p *Parser) parseDeclarations(parser *css.Parser, rule *Rule) error {
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("unable to parse declarations of '%s': %w", rule.Key(), err)
			}
			return fmt.Errorf("unterminated block '%s'", rule.Key())

		case css.EndRulesetGrammar:
			return nil

		case css.DeclarationGrammar:
			d := parseDeclaration(string(data), parser.Values())
			rule.Set(d)

		case css.CustomPropertyGrammar:
			// custom properties (--var) are never produced
			continue
		}
	}
}

// skipBlock skips tokens until the matching end of a block.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseDeclaration converts value tokens into a Declaration, recognizing
// trailing "!important".
func parseDeclaration(name string, tokens []css.Token) Declaration {
	d := Declaration{Property: strings.ToLower(name)}

	// drop trailing whitespace
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	if n := len(tokens); n >= 2 &&
		tokens[n-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") &&
		tokens[n-2].TokenType == css.DelimToken && string(tokens[n-2].Data) == "!" {
		d.Important = true
		tokens = tokens[:n-2]
	}

	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	d.Value = strings.TrimSpace(strings.Join(rawParts, ""))
	return d
}

// parseSelectors extracts selector strings from token data.
func parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for i, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			// url(something) - the token data is the full url(...) string
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		case css.FunctionToken:
			if !strings.EqualFold(string(t.Data), "url(") {
				continue
			}
			for _, next := range tokens[i+1:] {
				if next.TokenType == css.StringToken {
					return unquote(string(next.Data))
				}
			}
		}
	}
	return ""
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\'`, `'`)
		s = strings.ReplaceAll(s, `\"`, `"`)
		return strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}
