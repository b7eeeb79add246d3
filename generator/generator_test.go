package generator_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssd/css"
	"cssd/document"
	"cssd/generator"
	"cssd/prune"
	"cssd/style"
)

var plain = generator.Options{}

func testRegistry(t *testing.T, radius []style.Unit) *style.Registry {
	t.Helper()

	props := []style.Property{
		{Name: "color", Kind: style.KindColor, Default: style.Color("#000")},
		{Name: "color$:hover", Kind: style.KindColor, Default: style.Color("#000")},
		{Name: "background-color", Kind: style.KindColor, Default: style.Color("#fff")},
		{Name: "border-radius", Kind: style.KindDimension, Units: radius, Default: style.Px(0)},
		{Name: "font-family", Kind: style.KindFontFamily, Default: style.SystemFont("")},
	}
	selectors := []style.Selector{
		{Name: ".btn", Properties: []string{"color", "color$:hover", "border-radius", "font-family"}, Aliases: []string{".btn.primary"}},
		{Name: ".btn:hover", Properties: []string{"background-color"}},
		{Name: ".box", Properties: []string{"font-family", "border-radius"}},
	}
	reg, err := style.NewRegistry(props, selectors)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

type edit func(*document.Document) (*document.Document, error)

func add(sel string) edit {
	return func(d *document.Document) (*document.Document, error) { return d.AddSelector(sel) }
}

func set(sel, prop string, v style.Value) edit {
	return func(d *document.Document) (*document.Document, error) {
		d, err := d.AddProperty(sel, prop)
		if err != nil {
			return nil, err
		}
		return d.SetProperty(sel, prop, v)
	}
}

func compose(t *testing.T, reg *style.Registry, edits ...edit) *document.Document {
	t.Helper()
	doc := document.New(reg)
	for i, e := range edits {
		var err error
		if doc, err = e(doc); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
	}
	return doc
}

func TestGenerateExample(t *testing.T) {
	doc := compose(t, style.Default(),
		add(".ext-button"),
		set(".ext-button", "color", style.Color("#00ff00")),
		set(".ext-button", "color$:hover", style.Color("#0000ff")),
	)

	got := generator.New(style.Default(), nil).Generate(doc, plain)
	want := `.ext-button {
  color: #00ff00;
}
.ext-button:hover {
  color: #0000ff;
}
`
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateEmpty(t *testing.T) {
	g := generator.New(nil, nil)
	if got := g.Generate(document.New(nil), generator.DefaultOptions()); got != "" {
		t.Errorf("empty document produced %q", got)
	}
	if got := g.Generate(nil, generator.DefaultOptions()); got != "" {
		t.Errorf("nil document produced %q", got)
	}
	// selector without properties produces nothing either
	doc := compose(t, style.Default(), add("body"))
	if got := g.Generate(doc, generator.DefaultOptions()); got != "" {
		t.Errorf("selector without properties produced %q", got)
	}
}

func TestAliasExpansion(t *testing.T) {
	reg := testRegistry(t, nil)
	doc := compose(t, reg, add(".btn"), set(".btn", "color", style.Color("#ff0000")))
	g := generator.New(reg, nil)

	got := g.Generate(doc, generator.Options{IncludeAdditionalSelectors: true})
	want := ".btn, .btn.primary {\n  color: #ff0000;\n}\n"
	if got != want {
		t.Errorf("with aliases =\n%s\nwant\n%s", got, want)
	}

	got = g.Generate(doc, plain)
	want = ".btn {\n  color: #ff0000;\n}\n"
	if got != want {
		t.Errorf("without aliases =\n%s\nwant\n%s", got, want)
	}
}

func TestSuffixAppliedToAliases(t *testing.T) {
	reg := testRegistry(t, nil)
	doc := compose(t, reg, add(".btn"), set(".btn", "color$:hover", style.Color("#123")))

	got := generator.New(reg, nil).Generate(doc, generator.Options{IncludeAdditionalSelectors: true})
	want := ".btn:hover, .btn.primary:hover {\n  color: #123;\n}\n"
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestMergeSameRuleKey(t *testing.T) {
	reg := testRegistry(t, nil)
	doc := compose(t, reg,
		add(".btn"),
		set(".btn", "color$:hover", style.Color("#111")),
		set(".btn", "color", style.Color("#222")),
		add(".btn:hover"),
		set(".btn:hover", "background-color", style.Color("#333")),
	)

	got := generator.New(reg, nil).Generate(doc, plain)
	want := ".btn:hover {\n  color: #111;\n  background-color: #333;\n}\n.btn {\n  color: #222;\n}\n"
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestImportant(t *testing.T) {
	doc := compose(t, style.Default(),
		add("body"),
		set("body", "color", style.Color("#010203")),
		set("body", "font-size", style.Rem(1.5)),
	)
	g := generator.New(style.Default(), nil)

	got := g.Generate(doc, generator.Options{Important: true})
	want := "body {\n  color: #010203 !important;\n  font-size: 1.5rem !important;\n}\n"
	if got != want {
		t.Errorf("important =\n%s\nwant\n%s", got, want)
	}
	if got := g.Generate(doc, plain); strings.Contains(got, "!important") {
		t.Errorf("important off still emitted:\n%s", got)
	}
}

func TestDeterministic(t *testing.T) {
	doc := compose(t, style.Default(),
		add(".ext-title"),
		set(".ext-title", "text-align", style.AlignmentCenter),
		set(".ext-title", "font-weight", style.Weight(600)),
		set(".ext-title", "margin-top", style.Px(-4)),
		add(".ext-button"),
		set(".ext-button", "border-radius", style.Percent(50)),
		set(".ext-button", "background-color$:hover", style.Color("#abcdef")),
		add(".ext-banner-logo"),
		set(".ext-banner-logo", "background-image", style.URL("https://example.com/logo.png")),
	)
	g := generator.New(style.Default(), nil)
	first := g.Generate(doc, generator.DefaultOptions())
	for range 20 {
		if got := g.Generate(doc, generator.DefaultOptions()); got != first {
			t.Fatalf("output changed between runs:\n%s\n---\n%s", first, got)
		}
	}
	for _, want := range []string{
		"  text-align: center !important;\n",
		"  font-weight: 600 !important;\n",
		"  margin-top: -4px !important;\n",
		"  border-radius: 50% !important;\n",
		".ext-button:hover, .ext-button.ext-primary:hover, .ext-button.ext-secondary:hover {\n  background-color: #abcdef !important;\n}\n",
		"  background-image: url('https://example.com/logo.png') !important;\n",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("output does not contain %q:\n%s", want, first)
		}
	}
}

func TestImports(t *testing.T) {
	const lato = "https://fonts.googleapis.com/css2?family=Lato"
	doc := compose(t, style.Default(),
		add("body"),
		set("body", "font-family", style.ExternalFont("Lato", lato)),
		add(".ext-title"),
		set(".ext-title", "font-family", style.ExternalFont("Lato", lato)),
		add(".ext-input"),
		set(".ext-input", "font-family", style.SystemFont("Arial")),
	)

	got := generator.New(style.Default(), nil).Generate(doc, plain)
	want := "@import url('" + lato + "');\n\n" +
		"body {\n  font-family: 'Lato';\n}\n" +
		".ext-title {\n  font-family: 'Lato';\n}\n" +
		".ext-input {\n  font-family: 'Arial';\n}\n"
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestBlankValuesSkipped(t *testing.T) {
	doc := compose(t, style.Default(),
		add("body"),
		set("body", "font-family", style.SystemFont("")),
		add(".ext-background-image"),
		set(".ext-background-image", "background-image", style.URL("")),
	)
	sheet := generator.New(style.Default(), nil).Stylesheet(doc, plain)
	if !sheet.IsEmpty() {
		t.Errorf("blank values rendered:\n%s", sheet)
	}
	if len(sheet.Warnings) != 0 {
		t.Errorf("blank values reported: %v", sheet.Warnings)
	}
}

func TestSkipInvalid(t *testing.T) {
	// document composed against more permissive registry
	loose := testRegistry(t, []style.Unit{style.UnitPx, style.UnitEm})
	doc := compose(t, loose,
		add(".btn"),
		set(".btn", "border-radius", style.Em(2)),
		set(".btn", "color", style.Color("#0f0")),
		add(".box"),
		set(".box", "border-radius", style.Px(3)),
	)

	strict, err := style.NewRegistry(
		[]style.Property{
			{Name: "color", Kind: style.KindColor, Default: style.Color("#000")},
			{Name: "border-radius", Kind: style.KindDimension, Units: []style.Unit{style.UnitPx}, Default: style.Px(0)},
		},
		[]style.Selector{{Name: ".btn", Properties: []string{"color", "border-radius"}}},
	)
	if err != nil {
		t.Fatal(err)
	}

	sheet := generator.New(strict, zap.NewNop()).Stylesheet(doc, plain)
	if got, want := sheet.String(), ".btn {\n  color: #0f0;\n}\n"; got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
	if len(sheet.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2", sheet.Warnings)
	}
}

func TestTree(t *testing.T) {
	tree, err := prune.Decode([]byte(`{
		"body": {"color": "#fff", "font-weight": 950, "z-index": 3},
		".nope": {"color": "#000"},
		".ext-title": "broken",
		".ext-button": {"color$:hover": "#00f"}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	sheet := generator.New(style.Default(), nil).Tree(tree, plain)
	want := "body {\n  color: #fff;\n}\n.ext-button:hover {\n  color: #00f;\n}\n"
	if got := sheet.String(); got != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, want)
	}
	if len(sheet.Warnings) != 4 {
		t.Errorf("warnings = %v, want 4", sheet.Warnings)
	}

	if s := generator.New(nil, nil).Tree("garbage", plain); !s.IsEmpty() || len(s.Warnings) != 1 {
		t.Errorf("Tree(garbage) = %q, %v", s.String(), s.Warnings)
	}
}

func TestOutputParses(t *testing.T) {
	doc := compose(t, style.Default(),
		add("body"),
		set("body", "font-family", style.ExternalFont("Open Sans", "https://fonts.googleapis.com/css2?family=Open+Sans")),
		set("body", "font-size", style.Px(14)),
		add(".ext-button"),
		set(".ext-button", "color$:hover", style.Color("#fafafa")),
	)
	sheet := generator.New(style.Default(), nil).Stylesheet(doc, generator.DefaultOptions())

	parsed, err := css.NewParser(nil).Parse([]byte(sheet.String()))
	if err != nil {
		t.Fatalf("generated CSS does not parse: %v", err)
	}
	if len(parsed.Warnings) != 0 {
		t.Errorf("parse warnings: %v", parsed.Warnings)
	}
	if len(parsed.Imports) != 1 || parsed.Imports[0].URL != "https://fonts.googleapis.com/css2?family=Open+Sans" {
		t.Errorf("imports = %v", parsed.Imports)
	}
	if len(parsed.Rules) != len(sheet.Rules) {
		t.Fatalf("rules = %d, want %d", len(parsed.Rules), len(sheet.Rules))
	}
	for i, r := range sheet.Rules {
		p := parsed.Rules[i]
		if p.Key() != r.Key() {
			t.Errorf("rule %d key = %q, want %q", i, p.Key(), r.Key())
		}
		for _, d := range r.Declarations {
			got, ok := p.GetProperty(d.Property)
			if !ok || got.Value != d.Value || got.Important != d.Important {
				t.Errorf("rule %q: %s = %+v, want %+v", r.Key(), d.Property, got, d)
			}
		}
	}
}

func TestVerify(t *testing.T) {
	doc := compose(t, style.Default(),
		add("body"),
		set("body", "font-family", style.ExternalFont("Lato O'Sans", "https://fonts.googleapis.com/css2?family=Lato")),
		add(".ext-background-image"),
		set(".ext-background-image", "background-image", style.URL("https://cdn.example.com/bg.png")),
		add(".ext-button"),
		set(".ext-button", "border-radius", style.Rem(0.5)),
	)
	g := generator.New(style.Default(), zap.NewNop())
	for _, opts := range []generator.Options{plain, generator.DefaultOptions()} {
		if err := g.Verify(g.Stylesheet(doc, opts)); err != nil {
			t.Errorf("Verify(%+v): %v", opts, err)
		}
	}

	broken := css.NewStylesheet()
	broken.Rule([]string{"body"}).Set(css.Declaration{Property: "COLOR", Value: "#fff"})
	if err := g.Verify(broken); !errors.Is(err, generator.ErrMismatch) {
		t.Errorf("Verify(broken) = %v", err)
	}
}
