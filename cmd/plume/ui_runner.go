package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"plume/internal/driver"
	"plume/internal/ui"
)

// uiMode selects between the terminal progress view and plain output.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on":
		return uiOn, nil
	case "off":
		return uiOff, nil
	}
	return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m uiMode) enabled() bool {
	switch m {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return isTerminal(os.Stdout)
}

type compileOutcome struct {
	results []driver.BatchResult
	err     error
}

// compileAllWithUI runs the batch behind a terminal progress view. The
// compile goroutine owns the event channel and closes it when done, which
// ends the UI program.
func compileAllWithUI(ctx context.Context, title string, paths []string, cache *driver.DiskCache, opts driver.Options, fingerprint []byte, jobs int) ([]driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observer = func(e driver.Event) { events <- e }
		results, err := driver.CompileAll(ctx, cache, paths, optsCopy, fingerprint, jobs)
		outcomeCh <- compileOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
