package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"cssd/persist"
	"cssd/state"
)

func sessionCommand() *cli.Command {
	return &cli.Command{
		Name:         "session",
		Usage:        "Reads edits from STDIN one per line, autosaves designer state",
		OnUsageError: usageErrorHandler,
		Action:       runSession,
		Flags: slices.Concat(stateFlags(), optionFlags(), []cli.Flag{
			&cli.StringFlag{Name: "save", Usage: "autosave state as design `NAME`"},
		}),
		CustomHelpTemplate: fmt.Sprintf(`%s
Every line is an edit operation (see "edit" command) or one of:
    css       print current stylesheet
    token     print current state token
    link      print current share link
    quit      stop reading

State is saved after configured delay of inactivity and when session ends.
Final state token is printed on exit.
`, cli.CommandHelpTemplate),
	}
}

func runSession(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}

	var saver *persist.Saver
	if name := cmd.String("save"); name != "" {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		saver = persist.NewSaver(env.Cfg.Persistence.Debounce, func(token string) error {
			d, err := st.Save(name, token)
			if err != nil {
				return err
			}
			env.Log.Debug("Design autosaved", zap.String("slug", d.Slug))
			return nil
		}, env.Log)
		defer func() {
			if er := saver.Flush(); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to save design: %w", er))
			}
			saver.Stop()
		}()
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	s, err = runEdits(ctx, os.Stdin, os.Stdout, interactive, s, saver)
	if err != nil {
		return err
	}

	token, err := persist.Encode(s)
	if err != nil {
		return err
	}
	return writeOutput("", []byte(token+"\n"))
}

// runEdits applies edits read from in until EOF, quit or context
// cancellation. Failed edits are reported and do not change state.
func runEdits(ctx context.Context, in io.Reader, out io.Writer, prompt bool, s persist.State, saver *persist.Saver) (persist.State, error) {
	env := state.EnvFromContext(ctx)

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if ctx.Err() != nil || !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch line {
		case "quit", "exit":
			return s, nil
		case "css":
			fmt.Fprint(out, env.Generator().Generate(s.Style, s.Options))
			continue
		case "token":
			token, err := persist.Encode(s)
			if err != nil {
				return s, err
			}
			fmt.Fprintln(out, token)
			continue
		case "link":
			link, err := persist.ShareURL(env.Cfg.Persistence.BaseURL, env.Cfg.Persistence.QueryParam, s)
			if err != nil {
				return s, err
			}
			fmt.Fprintln(out, link)
			continue
		}

		doc, err := applyEdit(s.Style, splitEdit(line))
		if err != nil {
			env.Log.Warn("Edit rejected", zap.String("edit", line), zap.Error(err))
			continue
		}
		s.Style = doc
		if saver != nil {
			saver.Update(s)
		}
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("unable to read edits: %w", err)
	}
	return s, nil
}
