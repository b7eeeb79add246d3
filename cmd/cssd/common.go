package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssd/document"
	"cssd/generator"
	"cssd/persist"
	"cssd/state"
	"cssd/store"
)

// stateFlags select where designer state comes from, at most one could be
// used. Without any of them empty state is used.
func stateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "state", Aliases: []string{"s"}, Usage: "restore state from `TOKEN`"},
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "restore state from share `LINK`"},
		&cli.StringFlag{Name: "design", Usage: "restore state from saved design `NAME`"},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "read style document from JSON `FILE` (\"-\" for STDIN)"},
	}
}

// optionFlags override generation options from configuration and state.
func optionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "important", Usage: "append !important to declarations"},
		&cli.BoolFlag{Name: "aliases", Usage: "expand selectors with compatibility aliases"},
	}
}

var errTooManySources = errors.New("only one of --state, --url, --design and --input could be used")

// loadState restores designer state according to stateFlags. Tokens and
// links are restored leniently, documents from files must be valid.
func loadState(ctx context.Context, cmd *cli.Command) (persist.State, error) {
	env := state.EnvFromContext(ctx)

	var sources []string
	for _, name := range []string{"state", "url", "design", "input"} {
		if cmd.IsSet(name) {
			sources = append(sources, name)
		}
	}
	if len(sources) > 1 {
		return persist.State{}, fmt.Errorf("%w: %s", errTooManySources, strings.Join(sources, ", "))
	}

	var s persist.State
	switch {
	case cmd.IsSet("state"):
		s = persist.Decode(env.Registry, cmd.String("state"), env.Options, env.Log)
	case cmd.IsSet("url"):
		s = persist.FromURL(env.Registry, cmd.String("url"), env.Cfg.Persistence.QueryParam, env.Options, env.Log)
	case cmd.IsSet("design"):
		st, err := openStore(ctx)
		if err != nil {
			return persist.State{}, err
		}
		defer st.Close()
		d, err := st.Get(cmd.String("design"))
		if err != nil {
			return persist.State{}, err
		}
		env.Log.Debug("Using saved design", zap.String("name", d.Name), zap.Stringer("id", d.ID))
		s = persist.Decode(env.Registry, d.Token, env.Options, env.Log)
	case cmd.IsSet("input"):
		data, err := readInput(cmd.String("input"))
		if err != nil {
			return persist.State{}, err
		}
		doc, err := document.Parse(env.Registry, data)
		if err != nil {
			return persist.State{}, fmt.Errorf("unable to read style document: %w", err)
		}
		s = persist.State{Style: doc, Options: env.Options}
	default:
		s = persist.Empty(env.Registry, env.Options)
	}

	s.Options = applyOptions(cmd, s.Options)
	if env.Rpt != nil {
		if token, err := persist.Encode(s); err == nil {
			env.Rpt.StoreData("state/input", []byte(token))
		}
	}
	return s, nil
}

// applyOptions overrides designer options with ones from optionFlags.
func applyOptions(cmd *cli.Command, opts generator.Options) generator.Options {
	if cmd.IsSet("important") {
		opts.Important = cmd.Bool("important")
	}
	if cmd.IsSet("aliases") {
		opts.IncludeAdditionalSelectors = cmd.Bool("aliases")
	}
	return opts
}

func openStore(ctx context.Context) (*store.Store, error) {
	env := state.EnvFromContext(ctx)
	return store.Open(env.Cfg.Store.Path, env.Log)
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read STDIN: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", name, err)
	}
	return data, nil
}

// writeOutput writes data to file or to STDOUT when fname is empty.
func writeOutput(fname string, data []byte) error {
	if len(fname) == 0 {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", fname, err)
	}
	return nil
}

func destinationName(fname string) string {
	if len(fname) == 0 {
		return "STDOUT"
	}
	return fname
}
