package commands

import "github.com/sandeepkv93/listd/internal/model"

type OptionKind string

const (
	OptionString  OptionKind = "string"
	OptionBool    OptionKind = "boolean"
	OptionInteger OptionKind = "integer"
)

type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Option struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Kind        OptionKind `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Choices     []Choice   `json:"choices,omitempty"`
	MinValue    int        `json:"min_value,omitempty"`
	MaxLength   int        `json:"max_length,omitempty"`
}

// Definition describes a slash command independently of any transport.
type Definition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Options     []Option `json:"options,omitempty"`
}

func personalOption(desc string) Option {
	return Option{Name: "personal", Description: desc, Kind: OptionBool}
}

func Definitions() []Definition {
	categories := []Choice{{Name: "All", Value: "all"}}
	for _, c := range model.Categories {
		categories = append(categories, Choice{Name: c.Label(), Value: string(c)})
	}

	return []Definition{
		{
			Name:        string(TypeAdd),
			Description: "Add an item to the list",
			Options: []Option{
				{Name: "item", Description: "The item to add", Kind: OptionString, Required: true, MaxLength: model.MaxTextLength},
				personalOption("Add to your personal list instead of the channel list"),
			},
		},
		{
			Name:        string(TypeList),
			Description: "Show the to-do/to-buy list",
			Options: []Option{
				personalOption("Show your personal list"),
				{Name: "category", Description: "Only show one category", Kind: OptionString, Choices: categories},
				{Name: "show", Description: "Filter by completion status", Kind: OptionString, Choices: []Choice{
					{Name: "All", Value: "all"},
					{Name: "Completed", Value: "completed"},
					{Name: "Pending", Value: "pending"},
				}},
			},
		},
		{
			Name:        string(TypeCheck),
			Description: "Toggle completion of an item",
			Options: []Option{
				{Name: "number", Description: "Item number as shown by /list", Kind: OptionInteger, Required: true, MinValue: 1},
				personalOption("Use your personal list"),
			},
		},
		{
			Name:        string(TypeEdit),
			Description: "Edit an item",
			Options: []Option{
				{Name: "number", Description: "Item number as shown by /list", Kind: OptionInteger, Required: true, MinValue: 1},
				{Name: "text", Description: "New text", Kind: OptionString, MaxLength: model.MaxTextLength},
				{Name: "due_date", Description: "Due date (YYYY-MM-DD) or none", Kind: OptionString},
				personalOption("Use your personal list"),
			},
		},
		{
			Name:        string(TypeClear),
			Description: "Clear items from the list",
			Options: []Option{
				{Name: "type", Description: "What to clear", Kind: OptionString, Required: true, Choices: []Choice{
					{Name: "Completed items", Value: string(model.ClearCompleted)},
					{Name: "All items", Value: string(model.ClearAll)},
				}},
				personalOption("Clear your personal list"),
			},
		},
		{
			Name:        string(TypeHelp),
			Description: "Show help for the list bot",
		},
	}
}
