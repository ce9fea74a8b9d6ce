package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ilint/internal/baseline"
	"ilint/internal/diag"
	"ilint/internal/driver"
	"ilint/internal/format"
	"ilint/internal/logger"
	"ilint/internal/observ"
	"ilint/internal/project"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [flags] [path...]",
		Short: "Check files for i18n defects",
		Long:  `Check the files under the given paths, or the project root, with the rules their file types select`,
		RunE:  runLint,
	}
	cmd.Flags().String("config", "", "configuration file (default: search upwards for ilint.toml, ilint.yaml or ilint.json)")
	cmd.Flags().Bool("fix", false, "apply available fixes and write the files back")
	cmd.Flags().String("format", format.DefaultFormatter, "output format (ansi-console|json|short)")
	cmd.Flags().String("paths", "auto", "how to print file paths (auto|absolute|basename)")
	cmd.Flags().Int("jobs", 0, "max files checked in parallel (0=auto)")
	cmd.Flags().StringSlice("locales", nil, "locales to check, overriding the configuration")
	cmd.Flags().Int("max-errors", 0, "fail when there are more errors than this")
	cmd.Flags().Int("max-warnings", 0, "fail when there are more warnings than this")
	cmd.Flags().Int("max-suggestions", 0, "fail when there are more suggestions than this")
	cmd.Flags().Float64("min-score", 0, "fail when the I18N score is below this")
	cmd.Flags().Bool("errors-only", false, "report and fail on errors only")
	cmd.Flags().Bool("progress", false, "show a live progress view on stderr")
	cmd.Flags().String("baseline", "", "suppress the findings recorded in this baseline file")
	cmd.Flags().String("write-baseline", "", "record the current findings in this baseline file and exit")
	return cmd
}

type lintFlags struct {
	config        string
	fix           bool
	format        string
	pathMode      format.PathMode
	jobs          int
	locales       []string
	thresholds    driver.Thresholds
	progress      bool
	baseline      string
	writeBaseline string
	quiet         bool
	timings       bool
	logLevel      string
	logFormat     string
}

func readLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var lf lintFlags
	var err error
	flags := cmd.Flags()
	if lf.config, err = flags.GetString("config"); err != nil {
		return lf, fmt.Errorf("failed to get config flag: %w", err)
	}
	if lf.fix, err = flags.GetBool("fix"); err != nil {
		return lf, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if lf.format, err = flags.GetString("format"); err != nil {
		return lf, fmt.Errorf("failed to get format flag: %w", err)
	}
	paths, err := flags.GetString("paths")
	if err != nil {
		return lf, fmt.Errorf("failed to get paths flag: %w", err)
	}
	var ok bool
	if lf.pathMode, ok = format.ParsePathMode(paths); !ok {
		return lf, fmt.Errorf("invalid --paths value %q (expected auto|absolute|basename)", paths)
	}
	if lf.jobs, err = flags.GetInt("jobs"); err != nil {
		return lf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	locales, err := flags.GetStringSlice("locales")
	if err != nil {
		return lf, fmt.Errorf("failed to get locales flag: %w", err)
	}
	for _, l := range locales {
		tag, err := project.CanonicalLocale(strings.TrimSpace(l))
		if err != nil {
			return lf, fmt.Errorf("%w: --locales: %w", project.ErrConfig, err)
		}
		lf.locales = append(lf.locales, tag)
	}
	for _, name := range []string{"max-errors", "max-warnings", "max-suggestions"} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return lf, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		switch name {
		case "max-errors":
			lf.thresholds.MaxErrors = &v
		case "max-warnings":
			lf.thresholds.MaxWarnings = &v
		default:
			lf.thresholds.MaxSuggestions = &v
		}
	}
	if flags.Changed("min-score") {
		v, err := flags.GetFloat64("min-score")
		if err != nil {
			return lf, fmt.Errorf("failed to get min-score flag: %w", err)
		}
		lf.thresholds.MinScore = &v
	}
	if lf.thresholds.ErrorsOnly, err = flags.GetBool("errors-only"); err != nil {
		return lf, fmt.Errorf("failed to get errors-only flag: %w", err)
	}
	if lf.progress, err = flags.GetBool("progress"); err != nil {
		return lf, fmt.Errorf("failed to get progress flag: %w", err)
	}
	if lf.baseline, err = flags.GetString("baseline"); err != nil {
		return lf, fmt.Errorf("failed to get baseline flag: %w", err)
	}
	if lf.writeBaseline, err = flags.GetString("write-baseline"); err != nil {
		return lf, fmt.Errorf("failed to get write-baseline flag: %w", err)
	}

	persistent := cmd.Root().PersistentFlags()
	if lf.quiet, err = persistent.GetBool("quiet"); err != nil {
		return lf, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if lf.timings, err = persistent.GetBool("timings"); err != nil {
		return lf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if lf.logLevel, err = persistent.GetString("log-level"); err != nil {
		return lf, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if lf.logFormat, err = persistent.GetString("log-format"); err != nil {
		return lf, fmt.Errorf("failed to get log-format flag: %w", err)
	}
	if lf.quiet && !cmd.Root().PersistentFlags().Changed("log-level") {
		lf.logLevel = "error"
	}
	return lf, nil
}

func runLint(cmd *cobra.Command, args []string) error {
	start := time.Now()
	lf, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !colored

	log, err := logger.New(lf.logLevel, lf.logFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	timer := observ.NewTimer()
	idx := timer.Begin("setup")
	p, err := openProject(args, lf.config, project.Options{Logger: log.Logger})
	if err != nil {
		return err
	}
	if lf.fix {
		p.Config().AutoFix = true
	}
	formatter, err := format.NewDefaultManager().Get(lf.format, format.Options{
		Color:    colored,
		PathMode: lf.pathMode,
		BaseDir:  p.Root,
		Describe: describeRule(p),
	})
	if err != nil {
		return err
	}
	timer.End(idx, p.ConfigPath)

	var files []string
	if err := timer.Track("walk", func() error {
		files, err = p.Walk(args)
		return err
	}); err != nil {
		return err
	}

	opts := driver.Options{Jobs: lf.jobs, Locales: lf.locales, Timer: timer}
	var rep *driver.Report
	if lf.progress && isTerminal(os.Stderr) {
		rep, err = runLintWithUI(contextOf(cmd), p, files, opts)
	} else {
		rep, err = driver.Run(contextOf(cmd), p, files, opts)
	}
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, f := range rep.Failed {
		fmt.Fprintf(stderr, "ilint: skipped %s: %v\n", f.Path, f.Err)
	}

	if lf.writeBaseline != "" {
		if err := baseline.Write(lf.writeBaseline, p.Root, rep.Results); err != nil {
			return err
		}
		if !lf.quiet {
			fmt.Fprintf(stderr, "recorded %d findings in %s\n", rep.Stats.Total(), lf.writeBaseline)
		}
		return nil
	}

	results := rep.Results
	stats := rep.Stats
	if lf.baseline != "" {
		b, err := baseline.Load(lf.baseline, p.Root)
		if err != nil {
			return err
		}
		var suppressed int
		results, suppressed = b.Filter(results)
		stats = countOpen(results)
		p.SetResults(rep.Files, stats)
		log.Debug("applied baseline", zap.String("path", lf.baseline), zap.Int("suppressed", suppressed))
	}

	score, err := driver.Score(p)
	if err != nil {
		return err
	}

	idx = timer.Begin("report")
	out := cmd.OutOrStdout()
	for _, r := range results {
		if lf.thresholds.ErrorsOnly && r.Severity != diag.SevError {
			continue
		}
		if _, err := io.WriteString(out, formatter.Format(r)); err != nil {
			return err
		}
	}
	if !lf.quiet {
		summary := format.Summary{
			Stats:   stats,
			Files:   rep.Files.Files,
			Lines:   rep.Files.Lines,
			Fixed:   rep.Fixed,
			Score:   score,
			Elapsed: time.Since(start),
		}
		if lf.format == "json" {
			err = format.WriteJSONSummary(out, summary)
		} else {
			err = format.WriteSummary(out, summary, format.Options{Color: colored})
		}
		if err != nil {
			return err
		}
	}
	timer.End(idx, "")

	if lf.timings {
		fmt.Fprint(stderr, timer.Summary())
	}
	if code := driver.ExitCode(stats, score, lf.thresholds); code != driver.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

// openProject loads the configuration named by configPath, or searches for
// one from the first path argument upwards.
func openProject(args []string, configPath string, opts project.Options) (*project.Project, error) {
	if configPath != "" {
		cfg, err := project.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		p, err := project.New(filepath.Dir(abs), cfg, opts)
		if err != nil {
			return nil, err
		}
		p.ConfigPath = abs
		return p, nil
	}
	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
		if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
			startDir = filepath.Dir(startDir)
		}
	}
	return project.Open(startDir, opts)
}

func describeRule(p *project.Project) func(string) string {
	return func(name string) string {
		if r, ok := p.Rules().Get(name, nil); ok {
			return r.Description()
		}
		return ""
	}
}

func countOpen(results []diag.Result) diag.Stats {
	var s diag.Stats
	for _, r := range results {
		if !r.Fixed() {
			s.Add(r.Severity)
		}
	}
	return s
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
