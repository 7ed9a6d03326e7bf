package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
)

const (
	FieldText    = "text"
	FieldDueDate = "due_date"

	// NoneValue marks the disabled placeholder option of an empty menu.
	NoneValue = "none"

	labelWidth       = 25
	descriptionWidth = 50
	dateLayout       = "Jan 2, 2006"
)

type ListInput struct {
	Title    string
	Personal bool
	List     model.List
	Filter   Filter
	Start    int
	Now      time.Time
	Location *time.Location
}

// ListView is the computed state behind a rendered list message.
type ListView struct {
	Title   string
	Filter  Filter
	Page    Page
	numbers map[model.ItemID]int
}

func (v ListView) Number(id model.ItemID) int {
	return v.numbers[id]
}

func (v ListView) identView() customid.View {
	f := v.Filter.normalized()
	return customid.View{Page: v.Page.CurrentPage, Category: f.Category, Status: f.Status}
}

func BuildListView(in ListInput) ListView {
	ordered := Ordered(in.List)
	numbers := make(map[model.ItemID]int, len(ordered))
	for i, it := range ordered {
		numbers[it.ID] = i + 1
	}
	return ListView{
		Title:   in.Title,
		Filter:  in.Filter.normalized(),
		Page:    Paginate(Apply(in.List.Items, in.Filter), in.Start),
		numbers: numbers,
	}
}

func ChannelTitle(channelName string) string {
	if channelName == "" {
		return "Channel List"
	}
	return "#" + channelName + " List"
}

func PersonalTitle(username string) string {
	return username + "'s Personal List"
}

// ListMessage renders the list embed with its navigation, selection and
// action rows.
func ListMessage(in ListInput) (Message, ListView) {
	view := BuildListView(in)
	today := model.Day(in.Now, in.Location)

	embed := Embed{
		Title:     view.Title,
		Color:     ColorDefault,
		Footer:    listFooter(view),
		Timestamp: in.Now,
	}
	if len(view.Page.Items) == 0 {
		embed.Description = "The list is empty. Add items with `/add` command."
	} else {
		lines := make([]string, 0, len(view.Page.Items))
		for _, it := range view.Page.Items {
			lines = append(lines, itemLine(view.Number(it.ID), it, today, in.Location))
		}
		embed.Description = strings.Join(lines, "\n")
	}

	ident := view.identView()
	rows := make([]ActionRow, 0, 4)
	if view.Page.TotalPages > 1 {
		rows = append(rows, NavRow(in.Personal, ident, view.Page))
	}
	rows = append(rows, ItemSelectRow(in.Personal, ident, view))
	if len(view.Page.Items) > 0 {
		rows = append(rows, QuickToggleRow(in.Personal, ident, view))
	}
	rows = append(rows, ListActionRow(in.Personal, ident))

	return Message{Embeds: []Embed{embed}, Rows: rows, Ephemeral: in.Personal}, view
}

func listFooter(view ListView) string {
	footer := fmt.Sprintf("Page %d/%d • Total items: %d", view.Page.CurrentPage, view.Page.TotalPages, view.Page.Total)
	if !view.Filter.Active() {
		return footer
	}
	filters := make([]string, 0, 2)
	if view.Filter.Category != customid.FilterAll {
		filters = append(filters, "Category: "+view.Filter.Category)
	}
	if view.Filter.Status != customid.FilterAll {
		filters = append(filters, "Status: "+view.Filter.Status)
	}
	return footer + " | Filters: " + strings.Join(filters, ", ")
}

func itemLine(n int, it model.Item, today time.Time, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s %s **%s**", n, statusEmoji(it), it.EffectivePriority().Emoji(), it.Text)
	if e := it.Category.Emoji(); e != "" {
		b.WriteString(" " + e)
	}
	if day, ok := it.DueDay(loc); ok {
		b.WriteString(" (Due: " + FormatDate(*it.DueDate, loc) + ")")
		if !it.Completed && day.Before(today) {
			b.WriteString(" ⚠️ **Overdue**")
		}
	}
	return b.String()
}

func statusEmoji(it model.Item) string {
	if it.Completed {
		return "✅"
	}
	return "⬜"
}

func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

func NavRow(personal bool, view customid.View, page Page) ActionRow {
	first := page.CurrentPage <= 1
	last := page.CurrentPage >= page.TotalPages
	nav := func(move customid.NavMove) string {
		return customid.Nav{Personal: personal, Move: move, View: view}.Encode()
	}
	return ActionRow{Buttons: []Button{
		{CustomID: nav(customid.NavFirst), Label: "◀◀", Style: StyleSecondary, Disabled: first},
		{CustomID: nav(customid.NavPrev), Label: "◀", Style: StylePrimary, Disabled: first},
		{CustomID: nav(customid.NavPage), Label: fmt.Sprintf("%d/%d", page.CurrentPage, page.TotalPages), Style: StyleSecondary, Disabled: true},
		{CustomID: nav(customid.NavNext), Label: "▶", Style: StylePrimary, Disabled: last},
		{CustomID: nav(customid.NavLast), Label: "▶▶", Style: StyleSecondary, Disabled: last},
	}}
}

func ItemSelectRow(personal bool, ident customid.View, view ListView) ActionRow {
	menu := &SelectMenu{
		CustomID:    customid.SelectItem{Personal: personal, View: ident}.Encode(),
		Placeholder: "Select an item to manage",
	}
	for _, it := range view.Page.Items {
		menu.Options = append(menu.Options, SelectOption{
			Label:       fmt.Sprintf("Item #%d: %s", view.Number(it.ID), Truncate(it.Text, labelWidth)),
			Description: truncate.String(it.Text, descriptionWidth),
			Value:       string(it.ID),
			Emoji:       statusEmoji(it),
		})
	}
	if len(menu.Options) == 0 {
		menu.Options = []SelectOption{{
			Label:       "No items in list",
			Description: "Add items using the Add button or /add command",
			Value:       NoneValue,
		}}
		menu.Disabled = true
	}
	return ActionRow{Select: menu}
}

func QuickToggleRow(personal bool, ident customid.View, view ListView) ActionRow {
	menu := &SelectMenu{
		CustomID:    customid.QuickToggle{Personal: personal, View: ident}.Encode(),
		Placeholder: "Quick toggle completion",
	}
	for _, it := range view.Page.Items {
		action := "Mark done"
		if it.Completed {
			action = "Mark pending"
		}
		menu.Options = append(menu.Options, SelectOption{
			Label:       fmt.Sprintf("#%d: %s", view.Number(it.ID), Truncate(it.Text, labelWidth)),
			Description: action,
			Value:       string(it.ID),
			Emoji:       statusEmoji(it),
		})
	}
	return ActionRow{Select: menu}
}

func ListActionRow(personal bool, view customid.View) ActionRow {
	return ActionRow{Buttons: []Button{
		{CustomID: customid.ListAction{Personal: personal, Op: customid.ListAdd, View: view}.Encode(), Label: "Add Item", Emoji: "➕", Style: StyleSuccess},
		{CustomID: customid.ListAction{Personal: personal, Op: customid.ListRefresh, View: view}.Encode(), Label: "Refresh", Emoji: "🔄", Style: StyleSecondary},
		{CustomID: customid.ListAction{Personal: personal, Op: customid.ListClearCompleted, View: view}.Encode(), Label: "Clear Completed", Emoji: "🧹", Style: StyleDanger},
	}}
}

// Truncate cuts s to width printable cells and appends "..." when it had to.
func Truncate(s string, width int) string {
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	return truncate.String(s, uint(width)) + "..."
}

func ItemDetail(personal bool, number int, it model.Item, loc *time.Location) Message {
	status := "Pending ⬜"
	if it.Completed {
		status = "Completed ✅"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Item #%d: %s**\n", number, it.Text)
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Priority: %s %s\n", it.EffectivePriority().Emoji(), it.EffectivePriority().Label())
	if it.Category != "" {
		fmt.Fprintf(&b, "Category: %s %s\n", it.Category.Emoji(), it.Category.Label())
	}
	if it.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s\n", FormatDate(*it.DueDate, loc))
	}
	b.WriteString("\nSelect an action:")
	return Message{Content: b.String(), Rows: []ActionRow{ItemActionRow(personal, it.ID)}, Ephemeral: true}
}

func ItemActionRow(personal bool, id model.ItemID) ActionRow {
	action := func(op customid.ItemOp) string {
		return customid.ItemAction{Personal: personal, Op: op, ItemID: id}.Encode()
	}
	return ActionRow{Buttons: []Button{
		{CustomID: action(customid.ItemToggle), Label: "Toggle Complete", Emoji: "✅", Style: StylePrimary},
		{CustomID: action(customid.ItemEdit), Label: "Edit", Emoji: "✏️", Style: StyleSecondary},
		{CustomID: action(customid.ItemDelete), Label: "Delete", Emoji: "🗑️", Style: StyleDanger},
	}}
}

func scopePhrase(personal bool) string {
	if personal {
		return "your personal list"
	}
	return "this channel's list"
}

func ConfirmClear(personal bool, mode model.ClearMode, count int) Message {
	what := fmt.Sprintf("all %d items", count)
	if mode == model.ClearCompleted {
		what = fmt.Sprintf("%d completed items", count)
	}
	return Message{
		Content: fmt.Sprintf("Are you sure you want to clear %s from %s? This cannot be undone.", what, scopePhrase(personal)),
		Rows: []ActionRow{{Buttons: []Button{
			{CustomID: customid.Clear{Personal: personal, Confirm: true, Mode: mode}.Encode(), Label: "Confirm", Style: StyleDanger},
			{CustomID: customid.Clear{Personal: personal}.Encode(), Label: "Cancel", Style: StyleSecondary},
		}}},
		Ephemeral: true,
	}
}

// AddModal returns the add form. Submitting it re-renders the source list
// in view.
func AddModal(personal bool, view customid.View) Modal {
	return Modal{
		CustomID: customid.AddForm{Personal: personal, View: view}.Encode(),
		Title:    "Add New Item",
		Inputs: []TextInput{{
			CustomID:    FieldText,
			Label:       "Item",
			Placeholder: "What do you need to do or buy?",
			Required:    true,
			MaxLength:   model.MaxTextLength,
		}},
	}
}

func EditModal(personal bool, it model.Item, loc *time.Location) Modal {
	due := ""
	if it.DueDate != nil {
		due = it.DueDate.In(locOrUTC(loc)).Format("2006-01-02")
	}
	return Modal{
		CustomID: customid.EditForm{Personal: personal, ItemID: it.ID}.Encode(),
		Title:    "Edit Item",
		Inputs: []TextInput{
			{
				CustomID:  FieldText,
				Label:     "Item",
				Value:     it.Text,
				Required:  true,
				MaxLength: model.MaxTextLength,
			},
			{
				CustomID:    FieldDueDate,
				Label:       "Due Date (optional)",
				Placeholder: "YYYY-MM-DD or leave empty for none",
				Value:       due,
			},
		},
	}
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func PriorityMenu(personal bool, id model.ItemID) ActionRow {
	menu := &SelectMenu{
		CustomID:    customid.SetPriority{Personal: personal, ItemID: id}.Encode(),
		Placeholder: "Set priority level",
	}
	for _, p := range model.Priorities {
		menu.Options = append(menu.Options, SelectOption{
			Label:       p.Label(),
			Value:       string(p),
			Emoji:       p.Emoji(),
			Description: "Set to " + p.Label() + " priority",
		})
	}
	return ActionRow{Select: menu}
}

func CategoryMenu(personal bool, id model.ItemID) ActionRow {
	menu := &SelectMenu{
		CustomID:    customid.SetCategory{Personal: personal, ItemID: id}.Encode(),
		Placeholder: "Set category",
	}
	for _, c := range model.Categories {
		menu.Options = append(menu.Options, SelectOption{
			Label:       c.Label(),
			Value:       string(c),
			Emoji:       c.Emoji(),
			Description: "Set to " + c.Label() + " category",
		})
	}
	return ActionRow{Select: menu}
}

func Help() Message {
	return Message{
		Embeds: []Embed{{
			Title:       "To-Do/To-Buy List Bot - Help",
			Color:       ColorDefault,
			Description: "This bot helps you maintain to-do lists or shopping lists for your server. Each channel can have its own list, and each user can have a personal list.",
			Fields: []EmbedField{
				{
					Name: "Basic Commands",
					Value: "`/add` - Add a new item to your list\n" +
						"`/list` - View your to-do/to-buy list\n" +
						"`/edit` - Edit an existing item\n" +
						"`/check` - Toggle completion status of an item\n" +
						"`/clear` - Clear completed or all items from your list",
				},
				{
					Name: "Interactive Features",
					Value: "• **Buttons** - Most list displays have action buttons\n" +
						"• **Selection Menus** - Easily select items to manage\n" +
						"• **Pagination** - Navigate through long lists\n" +
						"• **Categories** - Organize items by type\n" +
						"• **Priorities** - Set high/medium/low priorities\n" +
						"• **Due Dates** - Add deadlines to your items",
				},
				{
					Name:  "Personal Lists",
					Value: "Use the `personal` option with most commands to work with your personal list instead of the channel list. Personal lists are private to you and accessible from any channel.",
				},
				{
					Name: "Tips",
					Value: "• Use **filters** when viewing lists to focus on specific items\n" +
						"• Items are automatically **sorted** by priority and completion status\n" +
						"• Use the selection menu under lists to quickly manage items\n" +
						"• Overdue items are highlighted automatically",
				},
			},
			Footer: "To view details for a specific command, type / and click on the command name",
		}},
		Ephemeral: true,
	}
}
