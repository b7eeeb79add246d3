package document_test

import (
	"errors"
	"strings"
	"testing"

	"cssd/document"
	"cssd/style"
)

func build(t *testing.T) *document.Document {
	t.Helper()

	doc := document.New(style.Default())
	var err error
	steps := []func() (*document.Document, error){
		func() (*document.Document, error) { return doc.AddSelector(".ext-button") },
		func() (*document.Document, error) { return doc.AddProperty(".ext-button", "color") },
		func() (*document.Document, error) { return doc.SetProperty(".ext-button", "color", style.Color("#00ff00")) },
		func() (*document.Document, error) { return doc.AddProperty(".ext-button", "color$:hover") },
		func() (*document.Document, error) { return doc.AddSelector("body") },
		func() (*document.Document, error) { return doc.AddProperty("body", "font-size") },
	}
	for i, step := range steps {
		if doc, err = step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return doc
}

func TestMutations(t *testing.T) {
	doc := build(t)

	if got := strings.Join(doc.Selectors(), ","); got != ".ext-button,body" {
		t.Errorf("selectors = %s", got)
	}
	if got := strings.Join(doc.Properties(".ext-button"), ","); got != "color,color$:hover" {
		t.Errorf("properties = %s", got)
	}
	if v, ok := doc.Value(".ext-button", "color"); !ok || v != style.Color("#00ff00") {
		t.Errorf("color = %v, %v", v, ok)
	}
	if v, ok := doc.Value(".ext-button", "color$:hover"); !ok || v != style.Color("#000000") {
		t.Errorf("hover color must get default, got %v, %v", v, ok)
	}
	if v, ok := doc.Value("body", "font-size"); !ok || v != style.Px(16) {
		t.Errorf("font-size must get default, got %v, %v", v, ok)
	}

	next, err := doc.RemoveProperty(".ext-button", "color")
	if err != nil {
		t.Fatalf("RemoveProperty: %v", err)
	}
	if _, ok := next.Value(".ext-button", "color"); ok {
		t.Error("color still present after removal")
	}
	if _, ok := doc.Value(".ext-button", "color"); !ok {
		t.Error("removal changed original document")
	}

	next, err = next.RemoveSelector("body")
	if err != nil {
		t.Fatalf("RemoveSelector: %v", err)
	}
	if next.Len() != 1 || doc.Len() != 2 {
		t.Errorf("Len() = %d (original %d)", next.Len(), doc.Len())
	}
}

func TestMutationErrors(t *testing.T) {
	doc := build(t)
	before, _ := doc.MarshalJSON()

	tests := []struct {
		name string
		op   func() (*document.Document, error)
		want error
	}{
		{"unknown selector", func() (*document.Document, error) { return doc.AddSelector(".nope") }, document.ErrUnknownSelector},
		{"duplicate selector", func() (*document.Document, error) { return doc.AddSelector("body") }, document.ErrSelectorExists},
		{"remove absent selector", func() (*document.Document, error) { return doc.RemoveSelector(".ext-title") }, document.ErrSelectorNotFound},
		{"property on absent selector", func() (*document.Document, error) { return doc.AddProperty(".ext-title", "color") }, document.ErrSelectorNotFound},
		{"property not allowed", func() (*document.Document, error) { return doc.AddProperty("body", "background-image") }, document.ErrPropertyNotAllowed},
		{"unknown property", func() (*document.Document, error) { return doc.AddProperty("body", "z-index") }, document.ErrPropertyNotAllowed},
		{"duplicate property", func() (*document.Document, error) { return doc.AddProperty("body", "font-size") }, document.ErrPropertyExists},
		{"remove absent property", func() (*document.Document, error) { return doc.RemoveProperty("body", "color") }, document.ErrPropertyNotFound},
		{"set absent property", func() (*document.Document, error) { return doc.SetProperty("body", "color", style.Color("#fff")) }, document.ErrPropertyNotFound},
		{"set disallowed unit", func() (*document.Document, error) {
			return doc.SetProperty("body", "font-size", style.Dimension{Value: 5, Unit: "vh"})
		}, document.ErrInvalidValue},
		{"set wrong kind", func() (*document.Document, error) { return doc.SetProperty("body", "font-size", style.Color("#fff")) }, document.ErrInvalidValue},
		{"set bad color", func() (*document.Document, error) {
			return doc.SetProperty(".ext-button", "color", style.Color("green"))
		}, document.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if got != nil {
				t.Error("failed operation returned document")
			}
		})
	}

	after, _ := doc.MarshalJSON()
	if string(before) != string(after) {
		t.Errorf("failed operations changed document:\n%s\n%s", before, after)
	}
}

func TestParseProperty(t *testing.T) {
	doc := build(t)

	next, err := doc.ParseProperty("body", "font-size", map[string]any{"value": 1.5, "unit": "rem"})
	if err != nil {
		t.Fatalf("ParseProperty: %v", err)
	}
	if v, _ := next.Value("body", "font-size"); v != style.Rem(1.5) {
		t.Errorf("font-size = %v", v)
	}
	if _, err := doc.ParseProperty("body", "font-size", map[string]any{"value": 5, "unit": "vh"}); !errors.Is(err, document.ErrInvalidValue) {
		t.Errorf("vh accepted, err = %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := build(t)
	doc, err := doc.AddProperty("body", "font-family")
	if err != nil {
		t.Fatal(err)
	}
	doc, err = doc.SetProperty("body", "font-family", style.ExternalFont("Lato", "https://fonts.googleapis.com/css2?family=Lato"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{".ext-button":{"color":"#00ff00","color$:hover":"#000000"},` +
		`"body":{"font-size":{"value":16,"unit":"px"},"font-family":{"font":"Lato","url":"https://fonts.googleapis.com/css2?family=Lato"}}}`
	if string(data) != want {
		t.Errorf("MarshalJSON =\n%s\nwant\n%s", data, want)
	}

	back, err := document.Parse(style.Default(), data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !back.Equal(doc) {
		t.Errorf("round trip changed document")
	}

	empty, err := document.New(nil).MarshalJSON()
	if err != nil || string(empty) != "{}" {
		t.Errorf("empty document = %s, %v", empty, err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		`{"body": {"background-image": ""}}`,
		`{".nope": {}}`,
		`{"body": {"font-weight": 950}}`,
		`[1, 2]`,
		`{"body": 1}`,
	} {
		if _, err := document.Parse(style.Default(), []byte(in)); err == nil {
			t.Errorf("Parse(%s) expected error", in)
		}
	}
}

func TestAllOrder(t *testing.T) {
	doc := build(t)
	var got []string
	for sel, decls := range doc.All() {
		for _, d := range decls {
			got = append(got, sel+" "+d.Property)
		}
	}
	want := ".ext-button color|.ext-button color$:hover|body font-size"
	if strings.Join(got, "|") != want {
		t.Errorf("All() = %v", got)
	}
}
