// Package browse implements the interactive catalog browser: a two-level
// keypress-driven state machine (categories, then skills) that dispatches
// installs through the installation pipeline. It sits outside the core
// pipeline as one of its callers.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/catalog"
	"github.com/skillctl/skillctl/pkg/installer"
)

type state int

const (
	stateCategories state = iota
	stateSkills
)

// installResultMsg carries the outcome of an install dispatched from the UI.
type installResultMsg struct {
	skill string
	err   error
}

// Model is the bubbletea model for the browser.
type Model struct {
	ctx      context.Context
	cat      *catalog.Catalog
	pipeline *installer.Pipeline
	agent    agents.Agent

	state      state
	categories []string
	skills     []catalog.SkillRecord
	cursor     int
	status     string
	installing bool
	quitting   bool
	spinner    spinner.Model

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	statusStyle   lipgloss.Style
	errorStyle    lipgloss.Style
}

// New creates a browser over the catalog, installing for the given agent.
func New(ctx context.Context, cat *catalog.Catalog, pipeline *installer.Pipeline, agent agents.Agent) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		cat:        cat,
		pipeline:   pipeline,
		agent:      agent,
		state:      stateCategories,
		categories: cat.Categories(),
		spinner:    sp,

		titleStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		statusStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errorStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.installing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status = m.dimStyle.Render(m.spinner.View() + "installing...")
		return m, cmd

	case installResultMsg:
		m.installing = false
		if msg.err != nil {
			m.status = m.errorStyle.Render(fmt.Sprintf("Failed to install %s: %v", msg.skill, msg.err))
		} else {
			m.status = m.statusStyle.Render(fmt.Sprintf("Installed %s for %s", msg.skill, m.agent))
		}
		return m, nil

	case tea.KeyMsg:
		if m.installing {
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.itemCount()-1 {
				m.cursor++
			}
		case "enter":
			return m.selectCurrent()
		case "i":
			if m.state == stateSkills {
				return m.installCurrent()
			}
		case "esc", "backspace":
			if m.state == stateSkills {
				m.state = stateCategories
				m.cursor = 0
				m.status = ""
			}
		}
	}
	return m, nil
}

func (m Model) itemCount() int {
	if m.state == stateCategories {
		return len(m.categories)
	}
	return len(m.skills)
}

func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateCategories:
		if m.cursor < len(m.categories) {
			m.skills = m.cat.FilterByCategory(m.categories[m.cursor])
			m.state = stateSkills
			m.cursor = 0
			m.status = ""
		}
		return m, nil
	default:
		return m.installCurrent()
	}
}

func (m Model) installCurrent() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.skills) {
		return m, nil
	}
	skill := m.skills[m.cursor].Name
	m.installing = true
	m.status = m.dimStyle.Render(fmt.Sprintf("Installing %s...", skill))

	ctx, pipeline, agent := m.ctx, m.pipeline, m.agent
	install := func() tea.Msg {
		_, err := pipeline.Install(ctx, skill, agent, installer.Options{})
		return installResultMsg{skill: skill, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, install)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case stateCategories:
		b.WriteString(m.titleStyle.Render("Browse skills — categories"))
		b.WriteString("\n\n")
		for i, cat := range m.categories {
			b.WriteString(m.renderLine(i, cat, fmt.Sprintf("%d skills", len(m.cat.FilterByCategory(cat)))))
		}
		b.WriteString("\n" + m.dimStyle.Render("↑/↓ move · enter select · q quit"))
	case stateSkills:
		b.WriteString(m.titleStyle.Render("Browse skills — " + m.currentCategory()))
		b.WriteString("\n\n")
		for i, skill := range m.skills {
			b.WriteString(m.renderLine(i, skill.Name, skill.Description))
		}
		b.WriteString("\n" + m.dimStyle.Render("↑/↓ move · enter/i install · esc back · q quit"))
	}

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) currentCategory() string {
	if len(m.skills) > 0 {
		return strings.ToLower(m.skills[0].Category)
	}
	return ""
}

func (m Model) renderLine(i int, name, detail string) string {
	cursor := "  "
	line := fmt.Sprintf("%s  %s", name, m.dimStyle.Render(detail))
	if i == m.cursor {
		cursor = "> "
		line = m.selectedStyle.Render(name) + "  " + m.dimStyle.Render(detail)
	}
	return cursor + line + "\n"
}

// Run starts the interactive browser and blocks until the user quits.
func Run(ctx context.Context, cat *catalog.Catalog, pipeline *installer.Pipeline, agent agents.Agent) error {
	program := tea.NewProgram(New(ctx, cat, pipeline, agent))
	_, err := program.Run()
	return err
}
