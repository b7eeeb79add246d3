package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssd/archive"
	"cssd/persist"
	"cssd/state"
)

func designsCommand() *cli.Command {
	return &cli.Command{
		Name:         "designs",
		Usage:        "Manages library of saved designs",
		OnUsageError: usageErrorHandler,
		Commands: []*cli.Command{
			{
				Name:         "list",
				Usage:        "Lists saved designs",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsList,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output JSON instead of text"},
				},
			},
			{
				Name:         "save",
				Usage:        "Saves designer state under a name, replacing design with the same name",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsSave,
				Flags:        stateFlags(),
				ArgsUsage:    "NAME",
			},
			{
				Name:         "show",
				Usage:        "Outputs token, share link or stylesheet of saved design",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsShow,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "link", Aliases: []string{"l"}, Usage: "output share link"},
					&cli.BoolFlag{Name: "css", Usage: "output stylesheet"},
				},
				ArgsUsage: "NAME|ID",
			},
			{
				Name:         "export",
				Usage:        "Writes all saved designs into a bundle (zip)",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsExport,
				ArgsUsage:    "DESTINATION",
			},
			{
				Name:         "import",
				Usage:        "Saves designs from a bundle, replacing designs with the same names",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsImport,
				ArgsUsage:    "SOURCE",
			},
			{
				Name:         "delete",
				Usage:        "Deletes saved design",
				OnUsageError: usageErrorHandler,
				Action:       runDesignsDelete,
				ArgsUsage:    "NAME|ID",
			},
		},
	}
}

func runDesignsList(ctx context.Context, cmd *cli.Command) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List()
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode designs: %w", err)
		}
		return writeOutput("", append(data, '\n'))
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Slug, d.Name, d.Updated.Local().Format(time.DateTime), d.ID)
	}
	tw.Flush()
	return writeOutput("", []byte(sb.String()))
}

func requireArg(cmd *cli.Command, what string) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s expected, got %d arguments", what, cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}

func runDesignsSave(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := requireArg(cmd, "design name")
	if err != nil {
		return err
	}
	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}
	token, err := persist.Encode(s)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := st.Save(name, token)
	if err != nil {
		return err
	}
	env.Log.Info("Design saved", zap.String("name", d.Name), zap.String("slug", d.Slug), zap.Stringer("id", d.ID))
	return nil
}

func runDesignsShow(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := requireArg(cmd, "design name")
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := st.Get(name)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("css"):
		s := persist.Decode(env.Registry, d.Token, env.Options, env.Log)
		return writeOutput("", []byte(env.Generator().Generate(s.Style, s.Options)))
	case cmd.Bool("link"):
		s := persist.Decode(env.Registry, d.Token, env.Options, env.Log)
		link, err := persist.ShareURL(env.Cfg.Persistence.BaseURL, env.Cfg.Persistence.QueryParam, s)
		if err != nil {
			return err
		}
		return writeOutput("", []byte(link+"\n"))
	default:
		return writeOutput("", []byte(d.Token+"\n"))
	}
}

func runDesignsDelete(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := requireArg(cmd, "design name")
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(name); err != nil {
		return err
	}
	env.Log.Info("Design deleted", zap.String("name", name))
	return nil
}

func runDesignsExport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fname, err := requireArg(cmd, "bundle file name")
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List()
	if err != nil {
		return err
	}
	entries := make([]archive.Entry, 0, len(list))
	for _, d := range list {
		entries = append(entries, archive.Entry{Name: d.Name, Token: d.Token, Modified: d.Updated})
	}
	var buf bytes.Buffer
	if err := archive.Write(&buf, entries); err != nil {
		return fmt.Errorf("unable to build bundle: %w", err)
	}
	env.Log.Info("Exporting designs", zap.String("file", fname), zap.Int("count", len(entries)))
	return writeOutput(fname, buf.Bytes())
}

func runDesignsImport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fname, err := requireArg(cmd, "bundle file name")
	if err != nil {
		return err
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	count := 0
	err = archive.Walk(fname, func(e archive.Entry) error {
		// tokens are re-encoded so whatever current tables do not accept is
		// dropped before it gets into the library
		s := persist.Decode(env.Registry, e.Token, env.Options, env.Log)
		token, err := persist.Encode(s)
		if err != nil {
			return err
		}
		if _, err := st.Save(e.Name, token); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to import designs from '%s': %w", fname, err)
	}
	env.Log.Info("Designs imported", zap.String("file", fname), zap.Int("count", count))
	return nil
}
