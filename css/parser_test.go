package css_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssd/css"
)

func parse(t *testing.T, text string) *css.Stylesheet {
	t.Helper()
	sheet, err := css.NewParser(zaptest.NewLogger(t)).Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return sheet
}

func TestParser_Rules(t *testing.T) {
	sheet := parse(t, `
/* comment */
body {
  color: #ff0000;
  font-size: 1.5em !important;
}
.ext-button, .ext-button.ext-primary {
  border-radius: 4px;
}
.ext-input:focus {
  background-image: url('https://cdn.example.com/bg.png');
}
`)
	if len(sheet.Warnings) != 0 {
		t.Errorf("warnings = %v", sheet.Warnings)
	}
	keys := make([]string, 0, len(sheet.Rules))
	for _, r := range sheet.Rules {
		keys = append(keys, r.Key())
	}
	if got := strings.Join(keys, " | "); got != "body | .ext-button, .ext-button.ext-primary | .ext-input:focus" {
		t.Errorf("rules = %s", got)
	}

	body, ok := sheet.RuleByKey("body")
	if !ok {
		t.Fatal("body rule not found")
	}
	tests := []css.Declaration{
		{Property: "color", Value: "#ff0000"},
		{Property: "font-size", Value: "1.5em", Important: true},
	}
	for _, want := range tests {
		got, ok := body.GetProperty(want.Property)
		if !ok || got != want {
			t.Errorf("body %s = %+v, want %+v", want.Property, got, want)
		}
	}

	input, _ := sheet.RuleByKey(".ext-input:focus")
	if d, _ := input.GetProperty("background-image"); d.Value != "url('https://cdn.example.com/bg.png')" {
		t.Errorf("background-image = %q", d.Value)
	}
}

func TestParser_Imports(t *testing.T) {
	sheet := parse(t, `
@import url('https://fonts.googleapis.com/css2?family=Lato');
@import "https://example.com/a.css";
@import url(https://example.com/b.css);
@import url('https://fonts.googleapis.com/css2?family=Lato');
body { color: #000; }
`)
	want := []string{
		"https://fonts.googleapis.com/css2?family=Lato",
		"https://example.com/a.css",
		"https://example.com/b.css",
	}
	if len(sheet.Imports) != len(want) {
		t.Fatalf("imports = %v", sheet.Imports)
	}
	for i, imp := range sheet.Imports {
		if imp.URL != want[i] {
			t.Errorf("import %d = %s, want %s", i, imp.URL, want[i])
		}
	}
	if len(sheet.Warnings) != 1 || !strings.Contains(sheet.Warnings[0], "duplicate @import") {
		t.Errorf("warnings = %v", sheet.Warnings)
	}
}

func TestParser_UnsupportedSkipped(t *testing.T) {
	sheet := parse(t, `
@charset "utf-8";
@media (max-width: 600px) {
  body { color: #fff; }
  .a { color: #000; }
}
@font-face { font-family: 'x'; src: url('x.woff'); }
p { color: #111; }
p { margin-top: 0; }
`)
	if len(sheet.Rules) != 1 {
		t.Fatalf("rules = %d, want only p", len(sheet.Rules))
	}
	p := sheet.Rules[0]
	if len(p.Declarations) != 2 {
		t.Errorf("repeated block must merge, got %+v", p.Declarations)
	}
	if len(sheet.Warnings) != 4 {
		t.Errorf("warnings = %v", sheet.Warnings)
	}
}

func TestParser_Unterminated(t *testing.T) {
	sheet, err := css.NewParser(nil).Parse([]byte("body { color: #000;"))
	if err == nil {
		t.Fatal("Parse() expected error for unterminated block")
	}
	if sheet == nil || len(sheet.Rules) != 1 {
		t.Error("partial result must be returned")
	}
}

func TestStylesheet_String(t *testing.T) {
	sheet := css.NewStylesheet()
	if sheet.String() != "" || !sheet.IsEmpty() {
		t.Error("empty stylesheet must produce no text")
	}

	r := sheet.Rule([]string{".ext-title"})
	r.Set(css.Declaration{Property: "color", Value: "#000"})
	r.Set(css.Declaration{Property: "text-align", Value: "center", Important: true})
	r.Set(css.Declaration{Property: "color", Value: "#fff"})
	if sheet.Rule([]string{".ext-title"}) != r {
		t.Error("Rule() must return existing block")
	}
	if !sheet.AddImport(css.Import{URL: "https://example.com/it's.css"}) || sheet.AddImport(css.Import{URL: "https://example.com/it's.css"}) {
		t.Error("AddImport() must deduplicate")
	}

	want := "@import url('https://example.com/it\\'s.css');\n" +
		"\n" +
		".ext-title {\n" +
		"  color: #fff;\n" +
		"  text-align: center !important;\n" +
		"}\n"
	if got := sheet.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	var sb strings.Builder
	n, err := sheet.WriteTo(&sb)
	if err != nil || int(n) != len(want) {
		t.Errorf("WriteTo() = %d, %v", n, err)
	}
}

func TestStylesheet_RoundTrip(t *testing.T) {
	sheet := css.NewStylesheet()
	sheet.AddImport(css.Import{URL: "https://fonts.googleapis.com/css2?family=Open+Sans"})
	sheet.Rule([]string{"body"}).Set(css.Declaration{Property: "font-family", Value: "'Open Sans'", Important: true})
	sheet.Rule([]string{".ext-button", ".ext-button.ext-primary"}).Set(css.Declaration{Property: "border-radius", Value: "50%"})

	parsed := parse(t, sheet.String())
	if parsed.String() != sheet.String() {
		t.Errorf("round trip changed text:\n%s\n%s", sheet.String(), parsed.String())
	}
}

func TestValidateSelector(t *testing.T) {
	valid := []string{
		"body", "*", ".ext-button", ".ext-button.ext-primary", "#main", "a:hover",
		"p::before", "div > p", "ul li", "h1 + p", "h1 ~ p", ".ext-input:focus",
	}
	for _, s := range valid {
		if err := css.ValidateSelector(s); err != nil {
			t.Errorf("ValidateSelector(%q) = %v", s, err)
		}
	}
	invalid := []string{
		"", " body", "body ", "a, b", "[href]", ".", "a:", ":not(p)", ". x", "a { }",
		"a:::hover", "a > > b", "a >+ b", "div >",
	}
	for _, s := range invalid {
		if err := css.ValidateSelector(s); !errors.Is(err, css.ErrInvalidSelector) {
			t.Errorf("ValidateSelector(%q) = %v, want ErrInvalidSelector", s, err)
		}
	}
}

func TestValidateSuffix(t *testing.T) {
	for _, s := range []string{"", ":hover", ":focus", "::placeholder"} {
		if err := css.ValidateSuffix(s); err != nil {
			t.Errorf("ValidateSuffix(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"hover", ": hover", ":hover, a", ":"} {
		if err := css.ValidateSuffix(s); !errors.Is(err, css.ErrInvalidSelector) {
			t.Errorf("ValidateSuffix(%q) = %v", s, err)
		}
	}
}
