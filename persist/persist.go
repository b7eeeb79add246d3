// Package persist converts designer state to and from opaque URL-safe
// tokens. Restoring is lenient: whatever still matches current registry is
// kept, everything else is dropped, and hopeless input yields empty state.
package persist

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cssd/document"
	"cssd/generator"
	"cssd/prune"
	"cssd/style"
)

const (
	styleKey   = "style"
	optionsKey = "options"

	importantKey = "important"
	aliasesKey   = "includeAdditionalSelectors"
)

// State is everything designer persists.
type State struct {
	Style   *document.Document
	Options generator.Options
}

// Empty returns state with empty document and given options.
func Empty(reg *style.Registry, opts generator.Options) State {
	return State{Style: document.New(reg), Options: opts}
}

type stateJSON struct {
	Style   *document.Document `json:"style"`
	Options generator.Options  `json:"options"`
}

// Encode returns token for state: JSON encoded with unpadded URL-safe base64.
func Encode(s State) (string, error) {
	doc := s.Style
	if doc == nil {
		doc = document.New(nil)
	}
	data, err := json.Marshal(stateJSON{Style: doc, Options: s.Options})
	if err != nil {
		return "", fmt.Errorf("unable to encode state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Schema returns schema of persisted state for registry.
func Schema(reg *style.Registry) *prune.ObjectSchema {
	return prune.NewObjectSchema(
		prune.Field{Name: styleKey, Schema: reg.StyleSchema()},
		prune.Field{Name: optionsKey, Schema: prune.NewObjectSchema(
			prune.Field{Name: importantKey, Schema: prune.Bool()},
			prune.Field{Name: aliasesKey, Schema: prune.Bool()},
		)},
	)
}

// Decode restores state from token. It never fails: on any problem it logs
// and returns empty document with default options. Options missing from the
// token take their default values.
func Decode(reg *style.Registry, token string, defaults generator.Options, log *zap.Logger) State {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = style.Default()
	}
	s, err := decode(reg, token, defaults)
	if err != nil {
		log.Warn("Unable to restore state, starting from scratch", zap.Error(err))
		return Empty(reg, defaults)
	}
	return s
}

// errEmpty is returned when nothing survived pruning.
var errEmpty = errors.New("no usable state")

func decode(reg *style.Registry, token string, defaults generator.Options) (State, error) {
	data, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return State{}, fmt.Errorf("bad token encoding: %w", err)
	}
	raw, err := prune.Decode(data)
	if err != nil {
		return State{}, fmt.Errorf("bad token content: %w", err)
	}
	pruned, ok := prune.Prune(Schema(reg), raw)
	if !ok {
		return State{}, errEmpty
	}
	obj, _ := prune.AsObject(pruned)
	if obj.Len() == 0 {
		return State{}, errEmpty
	}

	s := State{Options: defaults}
	tree, _ := obj.Get(styleKey)
	if s.Style, err = document.FromTree(reg, tree); err != nil {
		// pruned data must always convert
		return State{}, fmt.Errorf("unable to restore document: %w", err)
	}
	if raw, ok := obj.Get(optionsKey); ok {
		opts, _ := prune.AsObject(raw)
		if v, ok := opts.Get(importantKey); ok {
			s.Options.Important = v.(bool)
		}
		if v, ok := opts.Get(aliasesKey); ok {
			s.Options.IncludeAdditionalSelectors = v.(bool)
		}
	}
	return s, nil
}

// decodeBase64 accepts URL-safe and standard alphabets, padded or not.
// Spaces are treated as '+' mangled by query unescaping.
func decodeBase64(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	token = strings.ReplaceAll(strings.TrimRight(token, "="), " ", "+")
	enc := base64.RawURLEncoding
	if strings.ContainsAny(token, "+/") {
		enc = base64.RawStdEncoding
	}
	data, err := enc.DecodeString(token)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(data), nil
}
