package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jit-core/compiler"
	"github.com/wippyai/jit-core/queue"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type bootModel struct {
	c      *compiler.Compiler
	broker *queue.Broker

	spin spinner.Model
	bar  progress.Model

	total     int
	compiled  uint64
	queueSize int
	start     time.Time
	elapsed   time.Duration
	done      bool
	err       error
}

type bootDoneMsg struct {
	err error
}

type tickMsg time.Time

func newBootModel(c *compiler.Compiler, broker *queue.Broker, total int) *bootModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &bootModel{
		c:      c,
		broker: broker,
		spin:   s,
		bar:    progress.New(progress.WithDefaultGradient()),
		total:  total,
		start:  time.Now(),
	}
}

func runInteractive(c *compiler.Compiler, broker *queue.Broker, total int) error {
	p := tea.NewProgram(newBootModel(c, broker, total))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*bootModel); ok {
		return m.err
	}
	return nil
}

func (m *bootModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runBootstrap, tick())
}

func (m *bootModel) runBootstrap() tea.Msg {
	return bootDoneMsg{err: m.c.Bootstrap(context.Background())}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *bootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.compiled = m.c.MethodsCompiled()
		m.queueSize = m.broker.QueueSize(queue.TierFullOptimization)
		if m.done {
			return m, nil
		}
		return m, tick()

	case bootDoneMsg:
		m.done = true
		m.err = msg.err
		m.elapsed = time.Since(m.start)
		m.compiled = m.c.MethodsCompiled()
		m.queueSize = m.broker.QueueSize(queue.TierFullOptimization)
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *bootModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("jitboot - warming up the backend"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.compiled) / float64(m.total)
		if percent > 1 {
			percent = 1
		}
	}
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("bootstrap failed: %v", m.err)))
	case m.done:
		b.WriteString(doneStyle.Render(fmt.Sprintf("bootstrapped %d methods in %s",
			m.compiled, m.elapsed.Round(time.Millisecond))))
	default:
		b.WriteString(m.spin.View())
		b.WriteString(statStyle.Render(fmt.Sprintf(" compiled %d/%d  queue %d",
			m.compiled, m.total, m.queueSize)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}
