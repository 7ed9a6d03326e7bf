package views

import "time"

// Message is a transport-neutral reply. Transports translate it into their
// own component types.
type Message struct {
	Content   string
	Embeds    []Embed
	Rows      []ActionRow
	Ephemeral bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   time.Time
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ActionRow holds either buttons or a single select menu.
type ActionRow struct {
	Buttons []Button
	Select  *SelectMenu
}

type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota + 1
	StyleSecondary
	StyleSuccess
	StyleDanger
)

type Button struct {
	CustomID string
	Label    string
	Emoji    string
	Style    ButtonStyle
	Disabled bool
}

type SelectMenu struct {
	CustomID    string
	Placeholder string
	Options     []SelectOption
	Disabled    bool
}

type SelectOption struct {
	Label       string
	Value       string
	Description string
	Emoji       string
}

type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

type TextInput struct {
	CustomID    string
	Label       string
	Placeholder string
	Value       string
	Paragraph   bool
	Required    bool
	MaxLength   int
}

const (
	ColorDefault = 0x0099ff
	ColorSuccess = 0x55ff55
	ColorWarning = 0xffaa00
	ColorDanger  = 0xff5555
)

// Text builds a plain ephemeral notice.
func Text(content string) Message {
	return Message{Content: content, Ephemeral: true}
}
