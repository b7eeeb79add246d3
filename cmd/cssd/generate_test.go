package main

import (
	"strings"
	"testing"

	"cssd/generator"
)

func TestRenderLenient(t *testing.T) {
	ctx := testContext(t)

	data := []byte(`{
		"body": {"color": "#102030", "margin-top": "3"},
		".unknown": {"color": "#000"},
		".ext-button": {"color": "#00ff00"}
	}`)
	sheet, err := renderLenient(ctx, data, generator.Options{Important: true})
	if err != nil {
		t.Fatalf("renderLenient: %v", err)
	}
	out := sheet.String()
	for _, want := range []string{"body {\n  color: #102030 !important;\n}", ".ext-button {\n  color: #00ff00 !important;\n}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unknown") || strings.Contains(out, "margin-top") {
		t.Errorf("invalid parts rendered:\n%s", out)
	}
	if len(sheet.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2", sheet.Warnings)
	}

	if _, err := renderLenient(ctx, []byte(`{"body":`), generator.DefaultOptions()); err == nil {
		t.Error("broken JSON must fail")
	}
}
