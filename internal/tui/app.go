package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/joe/pathops/pkg/fileops"
)

// Run executes work while a progress UI watches prog, and returns work's
// report. Cancelling ctx or pressing a cancel key aborts the operation; the UI
// stays up until work returns so partial files are cleaned up before exit.
func Run(
	ctx context.Context,
	title string,
	prog *fileops.Progress,
	work func() *fileops.Report,
	opts ...tea.ProgramOption,
) (*fileops.Report, error) {
	stop := context.AfterFunc(ctx, prog.Abort)
	defer stop()

	program := tea.NewProgram(NewModel(title, prog), opts...)

	var report *fileops.Report

	group := new(errgroup.Group)

	group.Go(func() error {
		report = work()
		program.Send(DoneMsg{Report: report})

		return nil
	})

	group.Go(func() error {
		if _, err := program.Run(); err != nil {
			prog.Abort()
			return fmt.Errorf("progress UI failed: %w", err)
		}

		return nil
	})

	err := group.Wait()

	return report, err
}
