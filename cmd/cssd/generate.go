package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssd/css"
	"cssd/generator"
	"cssd/persist"
	"cssd/prune"
	"cssd/state"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:         "generate",
		Usage:        "Generates CSS for designer state",
		OnUsageError: usageErrorHandler,
		Action:       runGenerate,
		Flags: slices.Concat(stateFlags(), optionFlags(), []cli.Flag{
			&cli.BoolFlag{Name: "lenient", Usage: "render --input document as is, skipping whatever is not valid instead of failing"},
		}),
		ArgsUsage: "[DESTINATION]",
		CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write stylesheet to, if absent - STDOUT

Declarations which do not match current selector and property tables are
skipped with a warning. Empty state produces empty output.
`, cli.CommandHelpTemplate),
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	g := env.Generator()
	var sheet *css.Stylesheet
	if cmd.Bool("lenient") && cmd.IsSet("input") {
		data, err := readInput(cmd.String("input"))
		if err != nil {
			return err
		}
		if sheet, err = renderLenient(ctx, data, applyOptions(cmd, env.Options)); err != nil {
			return err
		}
	} else {
		s, err := loadState(ctx, cmd)
		if err != nil {
			return err
		}
		sheet = g.Stylesheet(s.Style, s.Options)
	}
	for _, w := range sheet.Warnings {
		env.Log.Debug("Generation warning", zap.String("warning", w))
	}
	if env.Cfg.Generator.Verify {
		if err := g.Verify(sheet); err != nil {
			return fmt.Errorf("unable to verify stylesheet: %w", err)
		}
		env.Log.Debug("Generated stylesheet verified")
	}

	out := sheet.String()
	env.Rpt.StoreData("generated.css", []byte(out))

	fname := cmd.Args().Get(0)
	env.Log.Info("Writing stylesheet",
		zap.String("file", destinationName(fname)),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("imports", len(sheet.Imports)),
		zap.Int("skipped", len(sheet.Warnings)))
	return writeOutput(fname, []byte(out))
}

// renderLenient generates stylesheet from JSON style document which was not
// validated, anything unexpected in it is skipped.
func renderLenient(ctx context.Context, data []byte, opts generator.Options) (*css.Stylesheet, error) {
	env := state.EnvFromContext(ctx)

	tree, err := prune.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("unable to read style document: %w", err)
	}
	return env.Generator().Tree(tree, opts), nil
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:         "encode",
		Usage:        "Produces state token or share link",
		OnUsageError: usageErrorHandler,
		Action:       runEncode,
		Flags: slices.Concat(stateFlags(), optionFlags(), []cli.Flag{
			&cli.BoolFlag{Name: "link", Aliases: []string{"l"}, Usage: "output share link instead of token"},
			&cli.StringFlag{Name: "base", Usage: "build share link on `URL` instead of configured one"},
		}),
	}
}

func runEncode(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}

	var out string
	if cmd.Bool("link") {
		base := env.Cfg.Persistence.BaseURL
		if cmd.IsSet("base") {
			base = cmd.String("base")
		}
		out, err = persist.ShareURL(base, env.Cfg.Persistence.QueryParam, s)
	} else {
		out, err = persist.Encode(s)
	}
	if err != nil {
		return err
	}
	return writeOutput("", []byte(out+"\n"))
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:         "decode",
		Usage:        "Shows designer state (JSON)",
		OnUsageError: usageErrorHandler,
		Action:       runDecode,
		Flags:        stateFlags(),
		CustomHelpTemplate: fmt.Sprintf(`%s
Restoring is lenient: anything which does not match current selector and
property tables is dropped, broken state produces empty document.
`, cli.CommandHelpTemplate),
	}
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(struct {
		Style   any `json:"style"`
		Options any `json:"options"`
	}{s.Style, s.Options}, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode state: %w", err)
	}
	return writeOutput("", append(data, '\n'))
}
