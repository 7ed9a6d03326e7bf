// Package reminder sends the daily due-date digest to every known channel.
package reminder

import (
	"strings"
	"time"

	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/views"
)

// Due splits the incomplete, dated items of list into those due on now's
// calendar day and those due before it. Days are compared in loc.
func Due(list model.List, now time.Time, loc *time.Location) (today, overdue []model.Item) {
	current := model.Day(now, loc)
	for _, it := range views.Renderable(list.Items) {
		if it.Completed {
			continue
		}
		day, ok := it.DueDay(loc)
		if !ok {
			continue
		}
		switch {
		case day.Equal(current):
			today = append(today, it)
		case day.Before(current):
			overdue = append(overdue, it)
		}
	}
	return today, overdue
}

// Compose renders the digest. It returns "" when there is nothing to send.
func Compose(today, overdue []model.Item, loc *time.Location) string {
	if len(today) == 0 && len(overdue) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("📅 **To-Do List Reminder**\n\n")
	if len(today) > 0 {
		b.WriteString("**Items due today:**\n")
		for _, it := range today {
			b.WriteString("- " + it.Text + "\n")
		}
		b.WriteString("\n")
	}
	if len(overdue) > 0 {
		b.WriteString("**Overdue items:**\n")
		for _, it := range overdue {
			b.WriteString("- " + it.Text + " (Due: " + views.FormatDate(*it.DueDate, loc) + ")\n")
		}
	}
	b.WriteString("\nUse `/list` to see all items and manage them.")
	return b.String()
}
