package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ilint/internal/driver"
	"ilint/internal/project"
	"ilint/internal/ui"
)

type lintOutcome struct {
	report *driver.Report
	err    error
}

// runLintWithUI runs the project while a progress view follows it on stderr.
func runLintWithUI(ctx context.Context, p *project.Project, files []string, opts driver.Options) (*driver.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		rep, err := driver.Run(ctx, p, files, runOpts)
		outcomeCh <- lintOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("ilint", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
