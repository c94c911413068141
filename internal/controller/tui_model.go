package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Message types.
type (
	runInfoMsg      RunInfo
	fileReportMsg   m.FileReport
	reportsMsg      []m.FileReport
	verificationMsg Verification
	summaryMsg      m.Summary
	finishedMsg     struct{}
)

// reportItem is one file in the report list.
type reportItem struct {
	path    string
	status  m.FileStatus
	applied []string
	err     string
}

func (r reportItem) FilterValue() string {
	return r.path + " " + r.status.String() + " " + strings.Join(r.applied, " ")
}

func newReportItem(report m.FileReport) reportItem {
	return reportItem{
		path:    string(report.File.ShortPath),
		status:  report.Status,
		applied: report.Applied,
		err:     report.Error,
	}
}

var statusColors = map[m.FileStatus]lipgloss.Color{
	m.FileChanged:   lipgloss.Color("2"), // Green
	m.FileUnchanged: lipgloss.Color("8"), // Gray
	m.FileFailed:    lipgloss.Color("1"), // Red
}

type reportDelegate struct{}

func (d reportDelegate) Height() int  { return 1 }
func (d reportDelegate) Spacing() int { return 0 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d reportDelegate) Render(w io.Writer, model list.Model, index int, item list.Item) {
	report, ok := item.(reportItem)
	if !ok {
		return
	}

	statusStyle := lipgloss.NewStyle().Foreground(statusColors[report.status]).Bold(true).Width(10)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	if index == model.Index() {
		selected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		statusStyle = selected.Width(10)
		pathStyle = selected
		detailStyle = selected
	}

	detail := strings.Join(report.applied, ", ")
	if report.status == m.FileFailed {
		detail = report.err
	}

	line := statusStyle.Render(report.status.String()) + "  " + pathStyle.Render(report.path)
	if detail != "" {
		width := model.Width() - lipgloss.Width(line) - 2
		line += "  " + detailStyle.Render(truncateToWidth(detail, width))
	}

	_, _ = fmt.Fprint(w, line)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	var b strings.Builder

	current := 0

	for _, r := range text {
		w := lipgloss.Width(string(r))
		if current+w > width-1 {
			break
		}

		b.WriteRune(r)
		current += w
	}

	return b.String() + ellipsis
}

// runModel renders a cleanup run while it progresses, and estimation or
// saved reports as a filterable list.
type runModel struct {
	mode         StartMode
	width        int
	height       int
	progressBar  progress.Model
	fileList     list.Model
	info         RunInfo
	processed    int
	counts       map[m.FileStatus]int
	verification *Verification
	summary      *m.Summary
	finished     bool
}

func newRunModel(mode StartMode) runModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	fileList := list.New([]list.Item{}, reportDelegate{}, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path or rule…"

	return runModel{
		mode:        mode,
		progressBar: prog,
		fileList:    fileList,
		counts:      make(map[m.FileStatus]int),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.fileList.SetSize(max(msg.Width-6, 20), max(msg.Height-12, 5))
		rm.progressBar.Width = max(min(msg.Width-20, 60), 10)

		return rm, nil

	case tea.KeyMsg:
		if rm.fileList.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "ctrl+c", "esc":
				return rm, tea.Quit
			}
		}

		var cmd tea.Cmd

		rm.fileList, cmd = rm.fileList.Update(msg)

		return rm, cmd

	case progress.FrameMsg:
		updated, cmd := rm.progressBar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			rm.progressBar = bar
		}

		return rm, cmd

	case runInfoMsg:
		rm.info = RunInfo(msg)
		return rm, nil

	case fileReportMsg:
		return rm.handleFileReport(m.FileReport(msg))

	case reportsMsg:
		items := make([]list.Item, 0, len(msg))
		for _, report := range msg {
			items = append(items, newReportItem(report))
			rm.counts[report.Status]++
		}

		rm.processed = len(msg)

		return rm, rm.fileList.SetItems(items)

	case verificationMsg:
		verification := Verification(msg)
		rm.verification = &verification

		return rm, nil

	case summaryMsg:
		summary := m.Summary(msg)
		rm.summary = &summary

		return rm, nil

	case finishedMsg:
		rm.finished = true
		return rm, nil
	}

	return rm, nil
}

func (rm runModel) handleFileReport(report m.FileReport) (runModel, tea.Cmd) {
	rm.processed++
	rm.counts[report.Status]++

	var cmds []tea.Cmd

	if report.Status != m.FileUnchanged {
		items := rm.fileList.Items()
		cmds = append(cmds, rm.fileList.InsertItem(len(items), newReportItem(report)))
	}

	if rm.info.Files > 0 {
		cmds = append(cmds, rm.progressBar.SetPercent(float64(rm.processed)/float64(rm.info.Files)))
	}

	return rm, tea.Batch(cmds...)
}

func (rm runModel) title() string {
	switch rm.mode {
	case ModeEstimate:
		return "🌲 Spruce Estimate"
	case ModeView:
		return "🌲 Spruce Report"
	case ModeClean:
		return "🌲 Spruce Cleanup"
	}

	return "🌲 Spruce"
}

func (rm runModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)
	lineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 0, 2)
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	sections := []string{titleStyle.Render(rm.title())}

	if rm.mode == ModeClean {
		shard := ""
		if rm.info.ShardCount > 1 {
			shard = fmt.Sprintf("   Shard: %d/%d", rm.info.ShardIndex, rm.info.ShardCount)
		}

		sections = append(sections,
			lineStyle.Render(fmt.Sprintf("Files: %s/%s   Workers: %s%s",
				accentStyle.Render(fmt.Sprint(rm.processed)),
				accentStyle.Render(fmt.Sprint(rm.info.Files)),
				accentStyle.Render(fmt.Sprint(max(rm.info.Parallel, 1))),
				shard)),
			lineStyle.Render(rm.progressBar.View()),
		)
	}

	sections = append(sections,
		lineStyle.Render(fmt.Sprintf("Changed: %s   Unchanged: %s   Failed: %s",
			lipgloss.NewStyle().Foreground(statusColors[m.FileChanged]).Render(fmt.Sprint(rm.counts[m.FileChanged])),
			lipgloss.NewStyle().Foreground(statusColors[m.FileUnchanged]).Render(fmt.Sprint(rm.counts[m.FileUnchanged])),
			lipgloss.NewStyle().Foreground(statusColors[m.FileFailed]).Render(fmt.Sprint(rm.counts[m.FileFailed])))),
		rm.renderList(),
	)

	if rm.verification != nil {
		sections = append(sections, lineStyle.Render(renderVerification(*rm.verification)))
	}

	if rm.summary != nil && len(rm.summary.Applied) > 0 {
		var rules []string
		for _, id := range rankRules(rm.summary.Applied) {
			rules = append(rules, fmt.Sprintf("%s ×%d", id, rm.summary.Applied[id]))
		}

		sections = append(sections, lineStyle.Render("Rules: "+strings.Join(rules, ", ")))
	}

	footer := "running…"
	if rm.finished || rm.mode != ModeClean {
		footer = "↑/k up • ↓/j down • / filter • q quit"
	}

	sections = append(sections, lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Padding(0, 0, 0, 2).
		Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (rm runModel) renderList() string {
	if len(rm.fileList.Items()) == 0 {
		return lipgloss.NewStyle().Padding(1, 0, 1, 2).Render("📭 Nothing to show")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1).
		Render(rm.fileList.View())
}

func renderVerification(verification Verification) string {
	if verification.Err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓ go " + verification.Mode + " passed")
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).
		Render(fmt.Sprintf("✗ go %s failed: %v", verification.Mode, verification.Err))
}
