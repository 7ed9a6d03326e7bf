package views

import (
	"sort"
	"strings"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
)

// PageSize is the number of items per rendered page.
const PageSize = 10

type Filter struct {
	Category string
	Status   string
}

func (f Filter) normalized() Filter {
	if f.Category == "" {
		f.Category = customid.FilterAll
	}
	if f.Status == "" {
		f.Status = customid.FilterAll
	}
	return f
}

func (f Filter) Active() bool {
	f = f.normalized()
	return f.Category != customid.FilterAll || f.Status != customid.FilterAll
}

func (f Filter) Matches(it model.Item) bool {
	f = f.normalized()
	if f.Category != customid.FilterAll && string(it.Category) != f.Category {
		return false
	}
	switch f.Status {
	case customid.StatusCompleted:
		return it.Completed
	case customid.StatusPending:
		return !it.Completed
	default:
		return true
	}
}

// Renderable drops items that cannot be addressed by a component identifier:
// empty ids, ids containing the separator and repeated ids.
func Renderable(items []model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	seen := make(map[model.ItemID]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" || strings.Contains(string(it.ID), ":") {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Sort returns a stably sorted copy: pending before completed, then by
// priority, then dated before undated with earlier dates first, then newest.
func Sort(items []model.Item) []model.Item {
	out := append([]model.Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if ra, rb := a.EffectivePriority().Rank(), b.EffectivePriority().Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

// Ordered is the canonical numbered order of a list. Item numbers shown to
// users and accepted by commands are 1-based positions in it.
func Ordered(l model.List) []model.Item {
	return Sort(Renderable(l.Items))
}

// ByNumber resolves a 1-based item number against Ordered.
func ByNumber(l model.List, n int) (model.Item, bool) {
	ordered := Ordered(l)
	if n < 1 || n > len(ordered) {
		return model.Item{}, false
	}
	return ordered[n-1], true
}

// Apply filters first and sorts after.
func Apply(items []model.Item, f Filter) []model.Item {
	kept := make([]model.Item, 0, len(items))
	for _, it := range Renderable(items) {
		if f.Matches(it) {
			kept = append(kept, it)
		}
	}
	return Sort(kept)
}

type Page struct {
	Items       []model.Item
	Start       int
	CurrentPage int
	TotalPages  int
	Total       int
}

func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

// Paginate clamps start into range and slices one page.
func Paginate(items []model.Item, start int) Page {
	total := len(items)
	pages := TotalPages(total)
	maxStart := (pages - 1) * PageSize
	if start > maxStart {
		start = maxStart
	}
	if start < 0 {
		start = 0
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return Page{
		Items:       items[start:end],
		Start:       start,
		CurrentPage: start/PageSize + 1,
		TotalPages:  pages,
		Total:       total,
	}
}

// StartForPage converts a 1-based page number to a start offset.
func StartForPage(page int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * PageSize
}

// Navigate applies a navigation move to the page recorded in the identifier.
// The result is clamped later by Paginate.
func Navigate(move customid.NavMove, page, totalPages int) int {
	switch move {
	case customid.NavFirst:
		return 0
	case customid.NavPrev:
		return StartForPage(page - 1)
	case customid.NavNext:
		return StartForPage(page + 1)
	case customid.NavLast:
		return StartForPage(totalPages)
	default:
		return StartForPage(page)
	}
}
