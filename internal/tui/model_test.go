package tui_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/pathops/internal/tui"
	"github.com/joe/pathops/internal/tui/shared"
	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/fileops"
)

func update(m tui.Model, msg tea.Msg) (tui.Model, tea.Cmd) {
	next, cmd := m.Update(msg)

	model, ok := next.(tui.Model)
	Expect(ok).To(BeTrue())

	return model, cmd
}

var _ = Describe("Model", func() {
	var (
		prog  *fileops.Progress
		model tui.Model
	)

	BeforeEach(func() {
		prog = fileops.NewProgress()
		model = tui.NewModel("Copying", prog)
	})

	It("starts running and idle", func() {
		Expect(model.State()).To(Equal(shared.StateRunning))
		Expect(model.Percent()).To(Equal(fileops.IdlePercent))
		Expect(model.Init()).NotTo(BeNil())
		Expect(model.View()).To(ContainSubstring("waiting"))
	})

	It("polls the percentage on every tick", func() {
		prog.Set(42)

		model, cmd := update(model, shared.TickMsg(time.Now()))

		Expect(model.Percent()).To(Equal(42))
		Expect(cmd).NotTo(BeNil())
		Expect(model.View()).To(ContainSubstring("42%"))
	})

	DescribeTable("cancel keys abort the engine",
		func(key tea.KeyMsg) {
			model, cmd := update(model, key)

			Expect(prog.Aborted()).To(BeTrue())
			Expect(model.Cancelling()).To(BeTrue())
			Expect(cmd).To(BeNil())
			Expect(model.View()).To(ContainSubstring("Cancelling"))
		},
		Entry("ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}),
		Entry("esc", tea.KeyMsg{Type: tea.KeyEsc}),
		Entry("q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}),
	)

	It("ignores other keys", func() {
		model, _ := update(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

		Expect(prog.Aborted()).To(BeFalse())
		Expect(model.Cancelling()).To(BeFalse())
	})

	It("quits with a success summary when the operation finishes", func() {
		prog.Set(100)

		model, cmd := update(model, tui.DoneMsg{Report: &fileops.Report{Processed: []string{"/a", "/b"}}})

		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
		Expect(model.State()).To(Equal(shared.StateComplete))
		Expect(model.View()).To(ContainSubstring("Done: 2 entries processed"))

		_, cmd = update(model, shared.TickMsg(time.Now()))
		Expect(cmd).To(BeNil())
	})

	It("reports cancellation", func() {
		model, _ := update(model, tui.DoneMsg{Report: &fileops.Report{Cancelled: true}})

		Expect(model.State()).To(Equal(shared.StateCancelled))
		Expect(model.View()).To(ContainSubstring("Cancelled after 0 entries"))
	})

	It("lists failures with their suggestions", func() {
		failure := apperrors.NewEnricher().Enrich(errors.New("open /sdmc/a: permission denied"), "/sdmc/a")
		report := &fileops.Report{Failures: []fileops.Failure{{Op: fileops.OpOpen, Path: "/sdmc/a", Err: failure}}}

		model, _ := update(model, tui.DoneMsg{Report: report})

		Expect(model.State()).To(Equal(shared.StateError))
		view := model.View()
		Expect(view).To(ContainSubstring("Finished with 1 failures"))
		Expect(view).To(ContainSubstring("/sdmc/a"))
		actionable, ok := failure.(apperrors.ActionableError)
		Expect(ok).To(BeTrue())
		Expect(view).To(ContainSubstring(actionable.Suggestions()[0]))
	})

	It("truncates long failure lists", func() {
		report := &fileops.Report{}
		for range shared.MaxFailuresShown + 3 {
			report.Failures = append(report.Failures, fileops.Failure{Op: fileops.OpRemove, Path: "/x", Err: errors.New("busy")})
		}

		Expect(tui.Summary(report, time.Second)).To(ContainSubstring("... and 3 more"))
	})

	It("resizes the bar with the window", func() {
		model, cmd := update(model, tea.WindowSizeMsg{Width: 500, Height: 40})

		Expect(cmd).To(BeNil())
		Expect(model.View()).NotTo(BeEmpty())
	})
})

var _ = Describe("Run", func() {
	headless := func() []tea.ProgramOption {
		return []tea.ProgramOption{
			tea.WithInput(&bytes.Buffer{}),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		}
	}

	It("returns the work's report once it finishes", func() {
		prog := fileops.NewProgress()
		want := &fileops.Report{Processed: []string{"/sdmc/a"}}

		got, err := tui.Run(context.Background(), "Copying", prog, func() *fileops.Report {
			prog.Set(100)
			return want
		}, headless()...)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeIdenticalTo(want))
	})

	It("aborts the work when the context is cancelled", func() {
		prog := fileops.NewProgress()
		ctx, cancel := context.WithCancel(context.Background())

		got, err := tui.Run(ctx, "Copying", prog, func() *fileops.Report {
			cancel()

			for !prog.Aborted() {
				time.Sleep(time.Millisecond)
			}

			return &fileops.Report{Cancelled: true}
		}, headless()...)

		Expect(err).NotTo(HaveOccurred())
		Expect(got.Cancelled).To(BeTrue())
	})
})
