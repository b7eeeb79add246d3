package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssd/document"
	"cssd/persist"
	"cssd/prune"
	"cssd/state"
)

var errBadEdit = errors.New("malformed edit")

type editOp struct {
	args  int
	usage string
	apply func(doc *document.Document, args []string) (*document.Document, error)
}

var editOps = map[string]editOp{
	"add-selector": {1, "SELECTOR", func(doc *document.Document, a []string) (*document.Document, error) {
		return doc.AddSelector(a[0])
	}},
	"remove-selector": {1, "SELECTOR", func(doc *document.Document, a []string) (*document.Document, error) {
		return doc.RemoveSelector(a[0])
	}},
	"add-property": {2, "SELECTOR PROPERTY", func(doc *document.Document, a []string) (*document.Document, error) {
		return doc.AddProperty(a[0], a[1])
	}},
	"remove-property": {2, "SELECTOR PROPERTY", func(doc *document.Document, a []string) (*document.Document, error) {
		return doc.RemoveProperty(a[0], a[1])
	}},
	"set": {3, "SELECTOR PROPERTY VALUE", setValue},
}

// setValue sets property adding selector and property first when necessary.
// Value is JSON, anything which is not valid JSON is taken as a string.
func setValue(doc *document.Document, a []string) (*document.Document, error) {
	sel, prop := a[0], a[1]
	var raw any = a[2]
	if v, err := prune.Decode([]byte(a[2])); err == nil {
		raw = v
	}

	var err error
	if !doc.Has(sel) {
		if doc, err = doc.AddSelector(sel); err != nil {
			return nil, err
		}
	}
	if _, ok := doc.Value(sel, prop); !ok {
		if doc, err = doc.AddProperty(sel, prop); err != nil {
			return nil, err
		}
	}
	return doc.ParseProperty(sel, prop, raw)
}

// applyEdit performs single edit, args start with operation name.
func applyEdit(doc *document.Document, args []string) (*document.Document, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no operation", errBadEdit)
	}
	op, ok := editOps[args[0]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation '%s' (known: %s)", errBadEdit, args[0], strings.Join(editOpNames(), ", "))
	}
	if len(args)-1 != op.args {
		return nil, fmt.Errorf("%w: %s %s", errBadEdit, args[0], op.usage)
	}
	return op.apply(doc, args[1:])
}

func editOpNames() []string {
	names := make([]string, 0, len(editOps))
	for name := range editOps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// splitEdit splits edit line into words. Value of set takes the rest of the
// line so JSON with spaces does not need quoting.
func splitEdit(line string) []string {
	var words []string
	rest := strings.TrimSpace(line)
	for rest != "" {
		if len(words) == 3 && words[0] == "set" {
			return append(words, rest)
		}
		word, tail, _ := strings.Cut(rest, " ")
		words = append(words, word)
		rest = strings.TrimSpace(tail)
	}
	return words
}

func editCommand() *cli.Command {
	var usage strings.Builder
	for _, name := range editOpNames() {
		fmt.Fprintf(&usage, "    %s %s\n", name, editOps[name].usage)
	}
	return &cli.Command{
		Name:         "edit",
		Usage:        "Applies a single edit to designer state and outputs new token",
		OnUsageError: usageErrorHandler,
		Action:       runEdit,
		Flags: slices.Concat(stateFlags(), optionFlags(), []cli.Flag{
			&cli.StringFlag{Name: "save", Usage: "save result as design `NAME`"},
		}),
		ArgsUsage: "OPERATION ARGUMENTS...",
		CustomHelpTemplate: fmt.Sprintf(`%s
OPERATION:
%s
VALUE is JSON, for example "#ff0000", {"value":12,"unit":"px"} or
{"font":"Lato","url":"https://fonts.googleapis.com/css2?family=Lato"}.
Text which is not valid JSON is used as a string.
`, cli.CommandHelpTemplate, usage.String()),
	}
}

func runEdit(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}
	if s.Style, err = applyEdit(s.Style, cmd.Args().Slice()); err != nil {
		return err
	}
	token, err := persist.Encode(s)
	if err != nil {
		return err
	}

	if name := cmd.String("save"); name != "" {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		d, err := st.Save(name, token)
		if err != nil {
			return err
		}
		env.Log.Info("Design saved", zap.String("name", d.Name), zap.String("slug", d.Slug))
	}
	return writeOutput("", []byte(token+"\n"))
}
