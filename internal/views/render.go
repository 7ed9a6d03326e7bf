package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	buttonStyles  = map[ButtonStyle]lipgloss.Style{
		StylePrimary:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		StyleSecondary: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		StyleSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		StyleDanger:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// Control is one interactive component of a message, numbered from 1 in
// row order for terminal transports.
type Control struct {
	Index  int
	Button *Button
	Select *SelectMenu
}

func Controls(msg Message) []Control {
	out := make([]Control, 0)
	for ri := range msg.Rows {
		row := &msg.Rows[ri]
		if row.Select != nil {
			out = append(out, Control{Index: len(out) + 1, Select: row.Select})
			continue
		}
		for bi := range row.Buttons {
			out = append(out, Control{Index: len(out) + 1, Button: &row.Buttons[bi]})
		}
	}
	return out
}

// RenderMessage draws a message for a terminal: content and embeds through
// markdown, then numbered controls.
func RenderMessage(msg Message, width int) string {
	if width <= 0 {
		width = 80
	}
	parts := make([]string, 0, 4)
	if strings.TrimSpace(msg.Content) != "" {
		parts = append(parts, RenderMarkdown(msg.Content))
	}
	for _, e := range msg.Embeds {
		parts = append(parts, renderEmbed(e, width))
	}
	if ctl := renderControls(Controls(msg)); ctl != "" {
		parts = append(parts, ctl)
	}
	return strings.Join(parts, "\n")
}

func renderEmbed(e Embed, width int) string {
	lines := make([]string, 0, 4+len(e.Fields))
	if e.Title != "" {
		lines = append(lines, headerStyle.Render(e.Title))
	}
	if e.Description != "" {
		lines = append(lines, RenderMarkdown(e.Description))
	}
	for _, f := range e.Fields {
		lines = append(lines, headerStyle.Render(f.Name), RenderMarkdown(f.Value))
	}
	if e.Footer != "" {
		lines = append(lines, footerStyle.Render(e.Footer))
	}
	return panelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderControls(controls []Control) string {
	if len(controls) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range controls {
		switch {
		case c.Button != nil:
			label := strings.TrimSpace(c.Button.Emoji + " " + c.Button.Label)
			text := fmt.Sprintf("[%d] %s", c.Index, label)
			if c.Button.Disabled {
				text = disabledStyle.Render(text)
			} else if st, ok := buttonStyles[c.Button.Style]; ok {
				text = st.Render(text)
			}
			b.WriteString(text + "  ")
		case c.Select != nil:
			b.WriteString("\n")
			head := fmt.Sprintf("[%d] %s", c.Index, c.Select.Placeholder)
			if c.Select.Disabled {
				head = disabledStyle.Render(head)
			}
			b.WriteString(head + "\n")
			for oi, o := range c.Select.Options {
				fmt.Fprintf(&b, "    %d. %s %s\n", oi+1, o.Emoji, o.Label)
			}
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

// RenderStatus styles a one-line status, red when it reports an error.
func RenderStatus(line string) string {
	if strings.Contains(strings.ToLower(line), "error") {
		return errorStyle.Render(line)
	}
	return statusStyle.Render(line)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
