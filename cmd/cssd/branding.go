package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssd/branding"
	"cssd/config"
	"cssd/persist"
	"cssd/state"
)

func brandingCommand() *cli.Command {
	return &cli.Command{
		Name:         "branding",
		Usage:        "Shows tenant branding for a user, optionally seeding designer state with it",
		OnUsageError: usageErrorHandler,
		Action:       runBranding,
		Flags: slices.Concat(stateFlags(), optionFlags(), []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "put branding images into state and output new token"},
			&cli.StringFlag{Name: "assets", Usage: "download branding images into `DIRECTORY`"},
		}),
		ArgsUsage: "[USERNAME]",
		CustomHelpTemplate: fmt.Sprintf(`%s
USERNAME:
    user principal name (email) of a tenant user, if absent - configured one
`, cli.CommandHelpTemplate),
	}
}

func runBranding(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	username := cmd.Args().First()
	if username == "" {
		username = string(env.Cfg.Branding.Username)
	}
	if username == "" {
		return fmt.Errorf("%w: none specified", branding.ErrBadUsername)
	}

	client := branding.New(&env.Cfg.Branding, nil, env.Log)
	info, err := client.Lookup(ctx, username)
	if err != nil {
		return err
	}
	if data, err := json.MarshalIndent(info, "", "  "); err == nil {
		env.Rpt.StoreData("branding.json", data)
	}
	if !info.HasBranding() {
		env.Log.Warn("Tenant has no custom branding")
	}

	if dir := cmd.String("assets"); dir != "" {
		if err := downloadAssets(ctx, client, dir, info); err != nil {
			return err
		}
	}

	if !cmd.Bool("seed") {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode branding: %w", err)
		}
		return writeOutput("", append(data, '\n'))
	}

	s, err := loadState(ctx, cmd)
	if err != nil {
		return err
	}
	if s.Style, err = branding.Seed(s.Style, info); err != nil {
		return err
	}
	token, err := persist.Encode(s)
	if err != nil {
		return err
	}
	return writeOutput("", []byte(token+"\n"))
}

func downloadAssets(ctx context.Context, client *branding.Client, dir string, info branding.Info) error {
	env := state.EnvFromContext(ctx)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create '%s': %w", dir, err)
	}
	for _, a := range []struct{ name, link string }{
		{"banner-logo", info.BannerLogo},
		{"background-image", info.BackgroundImage},
	} {
		if a.link == "" {
			continue
		}
		asset, err := client.FetchAsset(ctx, a.link)
		if err != nil {
			return fmt.Errorf("unable to download %s: %w", a.name, err)
		}
		fname := filepath.Join(dir, config.CleanFileName(a.name+asset.Extension(a.link)))
		if err := os.WriteFile(fname, asset.Data, 0644); err != nil {
			return fmt.Errorf("unable to write '%s': %w", fname, err)
		}
		env.Log.Info("Branding asset saved", zap.String("file", fname), zap.String("mime", asset.MIME), zap.Int("size", len(asset.Data)))
	}
	return nil
}
