package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"ilint/internal/format"
	"ilint/internal/project"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the rules, rule sets, parsers and formatters available to a project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	cmd.Flags().String("config", "", "configuration file (default: search upwards)")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	p, err := openProject(args, configPath, project.Options{})
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("Rules:\n")
	names := p.Rules().Names()
	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	for _, name := range names {
		r, err := p.Rules().Resolve(name, nil)
		if err != nil || r == nil {
			fmt.Fprintf(&b, "  %s  (unavailable: %v)\n", runewidth.FillRight(name, width), err)
			continue
		}
		fmt.Fprintf(&b, "  %s  %-10s %-9s %s\n", runewidth.FillRight(name, width), r.Severity(), r.RuleType(), r.Description())
	}

	b.WriteString("\nRule sets:\n")
	for _, name := range p.Rules().RuleSetNames() {
		set, _ := p.Rules().RuleSet(name)
		entries := make([]string, 0, len(set))
		for _, e := range set {
			if v, ok := e.Value.(bool); ok && !v {
				entries = append(entries, "!"+e.Rule)
				continue
			}
			entries = append(entries, e.Rule)
		}
		fmt.Fprintf(&b, "  %s: %s\n", name, strings.Join(entries, ", "))
	}

	b.WriteString("\nFile types:\n")
	for _, name := range p.FileTypeNames() {
		ft, _ := p.FileType(name)
		fmt.Fprintf(&b, "  %s: type=%s rule sets=[%s] parsers=[%s]\n", name, ft.Type,
			strings.Join(ft.RuleSets, ", "), strings.Join(ft.Parsers, ", "))
	}

	b.WriteString("\nParsers:\n")
	for _, name := range p.Parsers().Names() {
		ps, _ := p.Parsers().Get(name)
		fmt.Fprintf(&b, "  %s (%s): %s\n", name, strings.Join(ps.Extensions(), ", "), ps.Description())
	}

	b.WriteString("\nFormatters:\n")
	formatters := format.NewDefaultManager()
	for _, name := range formatters.Names() {
		fmt.Fprintf(&b, "  %s: %s\n", name, formatters.Description(name))
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
