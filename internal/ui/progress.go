package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mapfold/internal/pipeline"
)

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []keyItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type keyItem struct {
	key    string
	status string
	stage  pipeline.Stage
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-key progress of a run.
// keys may be empty; keys seen in events are appended in arrival order.
func NewProgressModel(title string, keys []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, len(keys)),
		width:   80,
	}
	for _, key := range keys {
		m.item(key)
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.key, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, name))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) item(key string) int {
	if idx, ok := m.index[key]; ok {
		return idx
	}
	m.items = append(m.items, keyItem{key: key, status: "queued", stage: pipeline.StageMerge})
	m.index[key] = len(m.items) - 1
	return len(m.items) - 1
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.Key == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx := m.item(ev.Key)
	if label != "" {
		m.items[idx].status = label
		m.items[idx].stage = ev.Stage
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += progressOf(item)
	}
	return total / float64(len(m.items))
}

func progressOf(item keyItem) float64 {
	switch item.status {
	case "emitted", "skipped", "error", "dropped":
		return 1.0
	}
	switch item.stage {
	case pipeline.StageMerge:
		return 0.2
	case pipeline.StageCompose:
		return 0.6
	case pipeline.StageEmit:
		return 0.9
	default:
		return 0.0
	}
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusSkipped:
		if stage == pipeline.StageFinish {
			return "dropped"
		}
		return "skipped"
	case pipeline.StatusDone:
		switch stage {
		case pipeline.StageEmit:
			return "emitted"
		case pipeline.StageCompose:
			return "composed"
		case pipeline.StageFinish:
			return "finished"
		}
		return "done"
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageMerge:
		return "merging"
	case pipeline.StageCompose:
		return "composing"
	case pipeline.StageEmit:
		return "emitting"
	case pipeline.StageFinish:
		return "finishing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "emitted", "finished":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "skipped", "dropped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "merging", "composing", "composed", "emitting", "finishing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
