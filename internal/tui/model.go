// Package tui renders a progress bar for a running engine operation and turns
// a cancel keypress into an abort request.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/fileops"

	"github.com/joe/pathops/internal/tui/shared"
)

// DoneMsg tells the model the operation returned.
type DoneMsg struct {
	Report *fileops.Report
}

// Model polls a fileops.Progress and shows the operation's outcome when it ends.
type Model struct {
	title      string
	progress   *fileops.Progress
	bar        progress.Model
	percent    int
	cancelling bool
	report     *fileops.Report
	started    time.Time
	elapsed    time.Duration
}

// NewModel creates a Model watching prog.
func NewModel(title string, prog *fileops.Progress) Model {
	return Model{
		title:    title,
		progress: prog,
		bar:      shared.NewProgressModel(shared.ProgressBarWidth),
		percent:  prog.Percent(),
		started:  time.Now(),
	}
}

// Cancelling reports whether an abort has been requested from the keyboard.
func (m Model) Cancelling() bool {
	return m.cancelling
}

// Percent returns the last polled percentage.
func (m Model) Percent() int {
	return m.percent
}

// Report returns the operation's report once DoneMsg has arrived.
func (m Model) Report() *fileops.Report {
	return m.report
}

// State returns one of the shared.State* constants.
func (m Model) State() string {
	switch {
	case m.report == nil:
		return shared.StateRunning
	case m.report.Cancelled:
		return shared.StateCancelled
	case len(m.report.Failures) > 0:
		return shared.StateError
	default:
		return shared.StateComplete
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return shared.TickCmd()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-shared.DefaultPadding*4, 1), shared.MaxProgressBarWidth)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case shared.KeyCtrlC, shared.KeyEsc, shared.KeyQuit:
			if m.report != nil {
				return m, tea.Quit
			}

			// The engine stops at its next chunk or directory boundary and
			// then sends DoneMsg.
			m.progress.Abort()
			m.cancelling = true
		}

		return m, nil

	case shared.TickMsg:
		if m.report != nil {
			return m, nil
		}

		m.percent = m.progress.Percent()
		m.elapsed = time.Since(m.started)

		return m, shared.TickCmd()

	case DoneMsg:
		m.report = msg.Report
		m.percent = m.progress.Percent()
		m.elapsed = time.Since(m.started)

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(shared.RenderTitle(m.title))
	b.WriteString("\n")

	if m.report == nil {
		b.WriteString(shared.RenderProgress(m.bar, m.percent))
		b.WriteString("\n\n")

		if m.cancelling {
			b.WriteString(shared.RenderWarning("Cancelling..."))
		} else {
			b.WriteString(shared.RenderDim(fmt.Sprintf("%s elapsed. Press q or ctrl+c to cancel.",
				m.elapsed.Truncate(time.Second))))
		}

		b.WriteString("\n")

		return b.String()
	}

	b.WriteString(Summary(m.report, m.elapsed))

	return b.String()
}

// Summary renders a finished report: a status line, then up to
// shared.MaxFailuresShown failures with their suggestions.
func Summary(report *fileops.Report, elapsed time.Duration) string {
	var b strings.Builder

	processed := len(report.Processed)
	took := elapsed.Truncate(time.Millisecond)

	switch {
	case report.Cancelled:
		b.WriteString(shared.RenderWarning(fmt.Sprintf("Cancelled after %d entries (%s)", processed, took)))
	case len(report.Failures) > 0:
		b.WriteString(shared.RenderError(fmt.Sprintf("Finished with %d failures, %d entries processed (%s)",
			len(report.Failures), processed, took)))
	default:
		b.WriteString(shared.RenderSuccess(fmt.Sprintf("Done: %d entries processed (%s)", processed, took)))
	}

	b.WriteString("\n")

	for i, failure := range report.Failures {
		if i == shared.MaxFailuresShown {
			b.WriteString(shared.RenderDim(fmt.Sprintf("... and %d more", len(report.Failures)-i)))
			b.WriteString("\n")

			break
		}

		b.WriteString(shared.PromptArrow)
		b.WriteString(shared.RenderLabel(failure.Op))
		b.WriteString(" ")
		b.WriteString(failure.Path)
		b.WriteString(": ")
		b.WriteString(failure.Err.Error())
		b.WriteString("\n")

		if suggestions := apperrors.FormatSuggestions(failure.Err); suggestions != "" {
			b.WriteString(shared.RenderDim(suggestions))
			b.WriteString("\n")
		}
	}

	return b.String()
}
