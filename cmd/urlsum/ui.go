package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/a-h/urlsum/client"
	"github.com/a-h/urlsum/models"
)

type UICommand struct {
	ServerURL string `help:"The URL of the summarization server." env:"URLSUM_SERVER_URL" default:"http://localhost:9020"`
	APIKey    string `help:"The provider API key, prefilled into the form." env:"GROQ_API_KEY" default:""`
}

func (c UICommand) Run(ctx context.Context) (err error) {
	p := tea.NewProgram(newUIModel(ctx, c.ServerURL, c.APIKey))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background = lipgloss.Color("#282a36")
	Foreground = lipgloss.Color("#f8f8f2")
	Comment    = lipgloss.Color("#6272a4")
	Cyan       = lipgloss.Color("#8be9fd")
	Green      = lipgloss.Color("#50fa7b")
	Pink       = lipgloss.Color("#ff79c6")
	Purple     = lipgloss.Color("#bd93f9")
	Red        = lipgloss.Color("#ff5555")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(Purple).Bold(true).Margin(1).MarginBottom(0)
	labelStyle   = lipgloss.NewStyle().Foreground(Pink).MarginLeft(1)
	helpStyle    = lipgloss.NewStyle().Foreground(Comment).MarginLeft(1)
	summaryStyle = lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Cyan)
	headingStyle = lipgloss.NewStyle().Foreground(Green).Bold(true).MarginLeft(1)
	errorStyle   = lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Red)
	workingStyle = lipgloss.NewStyle().Foreground(Foreground).MarginLeft(1)
)

const (
	fieldAPIKey = iota
	fieldURL
)

type summaryMsg models.SummariesPostResponse

type summaryErrMsg struct {
	err error
}

type uiModel struct {
	ctx       context.Context
	serverURL string

	inputs   []textinput.Model
	focused  int
	spinner  spinner.Model
	viewport viewport.Model
	width    int

	working bool
	title   string
	summary string
	err     error
}

func newUIModel(ctx context.Context, serverURL, apiKey string) uiModel {
	key := textinput.New()
	key.Placeholder = "Groq API key"
	key.EchoMode = textinput.EchoPassword
	key.CharLimit = 128
	key.Width = 60
	key.SetValue(apiKey)
	key.Focus()

	url := textinput.New()
	url.Placeholder = "https://youtu.be/... or https://example.com/article"
	url.CharLimit = 2048
	url.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Pink)

	vp := viewport.New(80, 16)

	return uiModel{
		ctx:       ctx,
		serverURL: serverURL,
		inputs:    []textinput.Model{key, url},
		focused:   fieldAPIKey,
		spinner:   sp,
		viewport:  vp,
		width:     80,
	}
}

func (m uiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m uiModel) summarize() tea.Cmd {
	apiKey := m.inputs[fieldAPIKey].Value()
	url := m.inputs[fieldURL].Value()
	serverURL := m.serverURL
	ctx := m.ctx
	return func() tea.Msg {
		c := client.New(serverURL, apiKey)
		resp, err := c.SummariesPost(ctx, models.SummariesPostRequest{
			URL: url,
		})
		if err != nil {
			return summaryErrMsg{err: err}
		}
		return summaryMsg(resp)
	}
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 10
		return m, nil

	case summaryMsg:
		m.working = false
		m.err = nil
		m.title = msg.Title
		m.summary = msg.Summary
		m.viewport.SetContent(m.renderResult())
		m.viewport.GotoTop()
		return m, nil

	case summaryErrMsg:
		m.working = false
		m.err = msg.err
		m.summary = ""
		m.viewport.SetContent(m.renderResult())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.working {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % len(m.inputs)
			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focused {
					cmds[i] = m.inputs[i].Focus()
					continue
				}
				m.inputs[i].Blur()
			}
			return m, tea.Batch(cmds...)
		case "enter":
			if m.focused == fieldAPIKey {
				m.focused = fieldURL
				m.inputs[fieldAPIKey].Blur()
				return m, m.inputs[fieldURL].Focus()
			}
			if m.working {
				return m, nil
			}
			m.working = true
			m.err = nil
			m.summary = ""
			return m, tea.Batch(m.spinner.Tick, m.summarize())
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m uiModel) renderResult() string {
	width := min(m.width, 90)
	if m.err != nil {
		return errorStyle.Render(wordwrap.String("⚠ "+m.err.Error(), width))
	}
	if m.summary == "" {
		return ""
	}
	var sb strings.Builder
	if m.title != "" {
		sb.WriteString(headingStyle.Render(m.title))
		sb.WriteString("\n")
	}
	sb.WriteString(summaryStyle.Render(wordwrap.String(m.summary, width)))
	return sb.String()
}

func (m uiModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("urlsum"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("API key"))
	sb.WriteString("\n")
	sb.WriteString(m.inputs[fieldAPIKey].View())
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("URL"))
	sb.WriteString("\n")
	sb.WriteString(m.inputs[fieldURL].View())
	sb.WriteString("\n\n")
	if m.working {
		sb.WriteString(workingStyle.Render(fmt.Sprintf("%s Summarizing...", m.spinner.View())))
		sb.WriteString("\n")
	}
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("enter: summarize • tab: switch field • esc: quit"))
	sb.WriteString("\n")
	return sb.String()
}
