package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
)

type Type string

const (
	TypeAdd   Type = "add"
	TypeList  Type = "list"
	TypeCheck Type = "check"
	TypeEdit  Type = "edit"
	TypeClear Type = "clear"
	TypeHelp  Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Item     string
	Personal bool
}

type ListArgs struct {
	Personal bool
	Category string
	Show     string
}

type CheckArgs struct {
	Number   int
	Personal bool
}

// EditArgs leaves Text and DueDate nil when the option was not given.
type EditArgs struct {
	Number   int
	Text     *string
	DueDate  *string
	Personal bool
}

func (a EditArgs) Empty() bool {
	return a.Text == nil && a.DueDate == nil
}

type ClearArgs struct {
	Type     model.ClearMode
	Personal bool
}

type Command struct {
	Type  Type
	Raw   string
	Add   *AddArgs
	List  *ListArgs
	Check *CheckArgs
	Edit  *EditArgs
	Clear *ClearArgs
}

// Parse reads a console command line such as
// `/add oat milk personal:true` or `/edit 2 text:"oat milk" due_date:2026-03-01`.
// key:value tokens set options; remaining tokens are positional.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	tokens, err := tokenize(raw)
	if err != nil {
		return Command{}, invalid("%v", err)
	}
	head := strings.ToLower(tokens[0])
	opts := make(map[string]any)
	positional := make([]string, 0, len(tokens))
	for _, tok := range tokens[1:] {
		if key, value, ok := strings.Cut(tok, ":"); ok && isOptionName(key) {
			opts[strings.ToLower(key)] = value
			continue
		}
		positional = append(positional, tok)
	}

	switch Type(head) {
	case TypeAdd:
		if _, ok := opts["item"]; !ok && len(positional) > 0 {
			opts["item"] = strings.Join(positional, " ")
		}
	case TypeCheck, TypeEdit:
		if _, ok := opts["number"]; !ok && len(positional) > 0 {
			opts["number"] = positional[0]
			positional = positional[1:]
		}
		if Type(head) == TypeEdit {
			if _, ok := opts["text"]; !ok && len(positional) > 0 {
				opts["text"] = strings.Join(positional, " ")
			}
		}
	case TypeClear:
		if _, ok := opts["type"]; !ok && len(positional) > 0 {
			opts["type"] = positional[0]
		}
	}

	cmd, err := FromOptions(head, opts)
	if err != nil {
		return Command{}, err
	}
	cmd.Raw = input
	return cmd, nil
}

// FromOptions builds a command from structured options. Values may be
// strings, bools or numbers, as transports deliver them.
func FromOptions(name string, opts map[string]any) (Command, error) {
	o := options(opts)
	switch Type(strings.ToLower(name)) {
	case TypeAdd:
		personal, err := o.boolean("personal")
		if err != nil {
			return Command{}, err
		}
		item, _ := o.str("item")
		item = strings.TrimSpace(item)
		if err := model.ValidateText(item); err != nil {
			return Command{}, invalid("add requires an item of at most %d characters", model.MaxTextLength)
		}
		return Command{Type: TypeAdd, Add: &AddArgs{Item: item, Personal: personal}}, nil

	case TypeList:
		personal, err := o.boolean("personal")
		if err != nil {
			return Command{}, err
		}
		category, _ := o.str("category")
		category = strings.ToLower(strings.TrimSpace(category))
		if category == "" {
			category = customid.FilterAll
		}
		if category != customid.FilterAll && !model.Category(category).IsValid() {
			return Command{}, invalid("unknown category %q", category)
		}
		show, _ := o.str("show")
		show = strings.ToLower(strings.TrimSpace(show))
		switch show {
		case "":
			show = customid.FilterAll
		case customid.FilterAll, customid.StatusCompleted, customid.StatusPending:
		default:
			return Command{}, invalid("show must be all, completed or pending")
		}
		return Command{Type: TypeList, List: &ListArgs{Personal: personal, Category: category, Show: show}}, nil

	case TypeCheck:
		personal, err := o.boolean("personal")
		if err != nil {
			return Command{}, err
		}
		n, err := o.number("number")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeCheck, Check: &CheckArgs{Number: n, Personal: personal}}, nil

	case TypeEdit:
		personal, err := o.boolean("personal")
		if err != nil {
			return Command{}, err
		}
		n, err := o.number("number")
		if err != nil {
			return Command{}, err
		}
		args := &EditArgs{Number: n, Personal: personal}
		if text, ok := o.str("text"); ok {
			text = strings.TrimSpace(text)
			if err := model.ValidateText(text); err != nil {
				return Command{}, invalid("text must be 1 to %d characters", model.MaxTextLength)
			}
			args.Text = &text
		}
		if due, ok := o.str("due_date"); ok {
			due = strings.TrimSpace(due)
			args.DueDate = &due
		}
		return Command{Type: TypeEdit, Edit: args}, nil

	case TypeClear:
		personal, err := o.boolean("personal")
		if err != nil {
			return Command{}, err
		}
		mode, _ := o.str("type")
		m := model.ClearMode(strings.ToLower(strings.TrimSpace(mode)))
		if !m.IsValid() {
			return Command{}, invalid("clear type must be completed or all")
		}
		return Command{Type: TypeClear, Clear: &ClearArgs{Type: m, Personal: personal}}, nil

	case TypeHelp:
		return Command{Type: TypeHelp}, nil

	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", name)}
	}
}

var optionNames = map[string]struct{}{
	"item": {}, "personal": {}, "category": {}, "show": {},
	"number": {}, "text": {}, "due_date": {}, "type": {},
}

func isOptionName(key string) bool {
	_, ok := optionNames[strings.ToLower(key)]
	return ok
}

type options map[string]any

func (o options) str(key string) (string, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}

func (o options) boolean(key string) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return false, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, invalid("%s must be true or false", key)
		}
		return b, nil
	default:
		return false, invalid("%s must be true or false", key)
	}
}

func (o options) number(key string) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, invalid("%s is required", key)
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, invalid("%s must be a whole number", key)
		}
		n = parsed
	default:
		return 0, invalid("%s must be a whole number", key)
	}
	if n < 1 {
		return 0, invalid("%s must be at least 1", key)
	}
	return n, nil
}

// tokenize splits on whitespace, keeping double-quoted runs together.
func tokenize(s string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		out = append(out, cur.String())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return out, nil
}
