package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/listd/internal/views"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type keyMap struct {
	Run    key.Binding
	Cancel key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Cancel, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Run:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel form")),
	Up:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	Down:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	entryStyle  = lipgloss.NewStyle().MarginBottom(1)
	focusStyle  = lipgloss.NewStyle().BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("12")).PaddingLeft(1).MarginBottom(1)
)

const commandPrompt = "> "

// form collects modal fields one input at a time.
type form struct {
	modal  views.Modal
	index  int
	values map[string]string
}

type Model struct {
	ctx     context.Context
	session *Session
	title   string

	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	form     *form
	Status   StatusBar
	width    int
	height   int
	Quitting bool
}

func NewModel(ctx context.Context, s *Session, title string) Model {
	in := textinput.New()
	in.Prompt = commandPrompt
	in.Placeholder = "/list, /add milk, :click 1, :pick 1 2"
	in.CharLimit = 400
	in.Focus()

	vp := viewport.New(80, 20)
	return Model{
		ctx:      ctx,
		session:  s,
		title:    title,
		input:    in,
		viewport: vp,
		help:     help.New(),
		keys:     defaultKeys,
		Status:   StatusBar{Text: "type /help for commands"},
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.viewport.Width = typed.Width
		m.viewport.Height = max(typed.Height-5, 3)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(typed, m.keys.Quit):
			m.Quitting = true
			return m, tea.Quit
		case key.Matches(typed, m.keys.Cancel):
			if m.form != nil {
				m.session.CancelModal()
				m.closeForm()
				m.Status = StatusBar{Text: "form cancelled"}
			}
			return m, nil
		case key.Matches(typed, m.keys.Up), key.Matches(typed, m.keys.Down):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case key.Matches(typed, m.keys.Run):
			value := m.input.Value()
			m.input.SetValue("")
			if m.form != nil {
				m = m.advanceForm(value)
			} else {
				m = m.run(value)
			}
			if m.Quitting {
				return m, tea.Quit
			}
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) run(line string) Model {
	line = strings.TrimSpace(line)
	if line == ":quit" || line == ":q" {
		m.Quitting = true
		return m
	}
	note, err := m.session.Exec(m.ctx, line)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: note}
	if modal, ok := m.session.PendingModal(); ok {
		m.openForm(modal)
	}
	return m
}

func (m *Model) openForm(modal views.Modal) {
	m.form = &form{modal: modal, values: make(map[string]string, len(modal.Inputs))}
	m.Status = StatusBar{Text: modal.Title + " (esc to cancel)"}
	m.promptField()
}

func (m *Model) promptField() {
	in := m.form.modal.Inputs[m.form.index]
	m.input.Prompt = promptStyle.Render(in.Label) + ": "
	m.input.Placeholder = in.Placeholder
	m.input.SetValue(in.Value)
	m.input.CursorEnd()
}

func (m *Model) closeForm() {
	m.form = nil
	m.input.Prompt = commandPrompt
	m.input.Placeholder = ""
	m.input.SetValue("")
}

func (m Model) advanceForm(value string) Model {
	f := m.form
	in := f.modal.Inputs[f.index]
	if in.Required && strings.TrimSpace(value) == "" {
		m.Status = StatusBar{Text: in.Label + " is required", IsError: true}
		return m
	}
	f.values[in.CustomID] = value
	f.index++
	if f.index < len(f.modal.Inputs) {
		m.promptField()
		return m
	}
	values := f.values
	m.closeForm()
	if err := m.session.SubmitModal(m.ctx, values); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: "submitted"}
	if modal, ok := m.session.PendingModal(); ok {
		m.openForm(modal)
	}
	return m
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) transcript() string {
	focus, hasFocus := m.session.Focus()
	entries := m.session.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		body := views.RenderMessage(e.Message, m.width-4)
		if e.Message.Ephemeral {
			body += "\n" + views.RenderStatus("only you can see this")
		}
		if hasFocus && e.ID == focus.ID {
			parts = append(parts, focusStyle.Render(body))
			continue
		}
		parts = append(parts, entryStyle.Render(body))
	}
	return strings.Join(parts, "\n")
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	actor := m.session.Actor()
	who := actor.Username
	if actor.Admin {
		who += " (admin)"
	}
	header := titleStyle.Render(fmt.Sprintf("%s  as %s", m.title, who))

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = views.RenderStatus("error: " + m.Status.Text)
		} else {
			status = views.RenderStatus(m.Status.Text)
		}
	}
	return strings.Join([]string{
		header,
		m.viewport.View(),
		m.input.View(),
		status,
		m.help.View(m.keys),
	}, "\n")
}
