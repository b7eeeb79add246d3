package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"

	"cssd/state"
	"cssd/style"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:         "schema",
		Usage:        "Lists selectors and properties designer supports",
		OnUsageError: usageErrorHandler,
		Action:       runSchema,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "output JSON instead of text"},
		},
		ArgsUsage: "[SELECTOR]",
	}
}

type propertyInfo struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Default    style.Value       `json:"default"`
	Units      []style.Unit      `json:"units,omitempty"`
	Alignments []style.Alignment `json:"alignments,omitempty"`
	Negative   bool              `json:"negative,omitempty"`
}

type selectorInfo struct {
	Name       string         `json:"name"`
	Aliases    []string       `json:"aliases,omitempty"`
	Properties []propertyInfo `json:"properties"`
}

func describe(reg *style.Registry, sel *style.Selector) (selectorInfo, error) {
	si := selectorInfo{Name: sel.Name, Aliases: reg.AliasesOf(sel.Name)}
	names, err := reg.PropertiesAllowedFor(sel.Name)
	if err != nil {
		return si, err
	}
	for _, name := range names {
		p, _ := reg.Property(name)
		si.Properties = append(si.Properties, propertyInfo{
			Name:       p.Name,
			Kind:       p.Kind.String(),
			Default:    p.Default,
			Units:      p.AllowedUnits(),
			Alignments: p.AllowedAlignments(),
			Negative:   p.Negative,
		})
	}
	return si, nil
}

func runSchema(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	reg := env.Registry

	selectors := reg.Selectors()
	if name := cmd.Args().First(); name != "" {
		sel, ok := reg.Selector(name)
		if !ok {
			return fmt.Errorf("%w: '%s'", style.ErrUnknownSelector, name)
		}
		selectors = []*style.Selector{sel}
	}

	infos := make([]selectorInfo, 0, len(selectors))
	for _, sel := range selectors {
		si, err := describe(reg, sel)
		if err != nil {
			return err
		}
		infos = append(infos, si)
	}

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode schema: %w", err)
		}
		return writeOutput("", append(data, '\n'))
	}

	var sb strings.Builder
	for i, si := range infos {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(si.Name)
		if len(si.Aliases) > 0 {
			fmt.Fprintf(&sb, " (also %s)", strings.Join(si.Aliases, ", "))
		}
		sb.WriteByte('\n')
		tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		for _, p := range si.Properties {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Name, p.Kind, style.Format(p.Default), restrictions(p))
		}
		tw.Flush()
	}
	return writeOutput("", []byte(sb.String()))
}

func restrictions(p propertyInfo) string {
	var parts []string
	for _, u := range p.Units {
		parts = append(parts, string(u))
	}
	for _, a := range p.Alignments {
		parts = append(parts, string(a))
	}
	if p.Negative {
		parts = append(parts, "negative")
	}
	return strings.Join(parts, " ")
}
