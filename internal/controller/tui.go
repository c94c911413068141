package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "spruce.dev/pkg/spruce/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. Events are
// forwarded to a running program; the patch of a dry run is held back and
// printed once the program has released the screen.
type TUI struct {
	output  io.Writer
	input   io.Reader
	options []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	patch   strings.Builder
}

// NewTUI creates a new TUI writing to output and reading keys from stdin.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, input: os.Stdin}
}

// IsTerminal reports whether w is an interactive terminal, which the TUI
// needs to be useful.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start launches the Bubble Tea program for the given mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := newStartConfig(options...)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return fmt.Errorf("tui already started")
	}

	model := newRunModel(config.Mode())

	if f, ok := t.output.(*os.File); ok {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			updated, _ := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
			model = updated.(runModel)
		}
	}

	programOptions := append([]tea.ProgramOption{
		tea.WithOutput(t.output),
		tea.WithInput(t.input),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}, t.options...)

	t.program = tea.NewProgram(model, programOptions...)
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("TUI program stopped", "error", err)
		}
	}()

	return nil
}

// Close stops the program and prints any held back patch.
func (t *TUI) Close(context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program != nil {
		program.Quit()
		<-done
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.patch.Len() > 0 {
		_, _ = fmt.Fprint(t.output, t.patch.String())
		t.patch.Reset()
	}
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	t.send(finishedMsg{})

	select {
	case <-ctx.Done():
	case <-done:
	}
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayRunInfo shows the run settings.
func (t *TUI) DisplayRunInfo(_ context.Context, info RunInfo) {
	t.send(runInfoMsg(info))
}

// DisplayFileReport advances the progress bar and lists changed or failed files.
func (t *TUI) DisplayFileReport(_ context.Context, report m.FileReport) {
	t.send(fileReportMsg(report))
}

// DisplayEstimation lists the rules that would apply to each file.
func (t *TUI) DisplayEstimation(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(reportsMsg(reports))

	return nil
}

// DisplayReports lists a saved run report.
func (t *TUI) DisplayReports(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(reportsMsg(reports))

	return nil
}

// DisplayPatch holds patch back until Close.
func (t *TUI) DisplayPatch(_ context.Context, patch string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.patch.WriteString(patch)
}

// DisplayVerification shows the outcome of the post-write check.
func (t *TUI) DisplayVerification(_ context.Context, verification Verification) {
	t.send(verificationMsg(verification))
}

// DisplaySummary shows the run totals.
func (t *TUI) DisplaySummary(_ context.Context, summary m.Summary) {
	t.send(summaryMsg(summary))
}

// DisplayRules prints the rule catalog. It does not need a running program.
func (t *TUI) DisplayRules(ctx context.Context, rules []m.RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Width(widestID(rules) + 2)
	sinceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(8)
	draftStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Width(7)
	readyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Width(7)
	tagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	var b strings.Builder

	for _, rule := range rules {
		status := readyStyle.Render(ruleStatus(rule))
		if !rule.ProductionReady {
			status = draftStyle.Render(ruleStatus(rule))
		}

		fmt.Fprintf(&b, "%s%s%s%s\n",
			idStyle.Render(rule.ID),
			sinceStyle.Render(rule.MinimalVersion),
			status,
			tagStyle.Render(strings.Join(rule.Tags, ", ")))
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

func widestID(rules []m.RuleInfo) int {
	widest := 0
	for _, rule := range rules {
		widest = max(widest, lipgloss.Width(rule.ID))
	}

	return widest
}
