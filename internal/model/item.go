package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTextLength bounds item text at creation and edit.
const MaxTextLength = 100

var (
	ErrInvalidPriority = errors.New("model: invalid item priority")
	ErrInvalidCategory = errors.New("model: invalid item category")
	ErrInvalidDueDate  = errors.New("model: invalid due date")
	ErrTextRequired    = errors.New("model: item text is required")
	ErrTextTooLong     = errors.New("model: item text is too long")
	ErrNoChanges       = errors.New("model: no changes supplied")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display, high first. Unknown values rank with none.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "None"
	}
}

func (p Priority) Emoji() string {
	switch p {
	case PriorityHigh:
		return "🔴"
	case PriorityMedium:
		return "🟠"
	case PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

type Category string

const (
	CategoryGroceries Category = "groceries"
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryHealth    Category = "health"
	CategoryHome      Category = "home"
	CategoryOther     Category = "other"
)

var Categories = []Category{CategoryGroceries, CategoryWork, CategoryPersonal, CategoryHealth, CategoryHome, CategoryOther}

func (c Category) IsValid() bool {
	switch c {
	case CategoryGroceries, CategoryWork, CategoryPersonal, CategoryHealth, CategoryHome, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) Label() string {
	if c == "" {
		return "None"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c Category) Emoji() string {
	switch c {
	case CategoryGroceries:
		return "🛒"
	case CategoryWork:
		return "💼"
	case CategoryPersonal:
		return "👤"
	case CategoryHealth:
		return "❤️"
	case CategoryHome:
		return "🏠"
	case CategoryOther:
		return "📋"
	default:
		return ""
	}
}

// ItemID is compared as a string. Older documents stored ids as JSON numbers,
// so both forms decode to the same value.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

func NewItemID() ItemID {
	return ItemID(uuid.NewString())
}

type Item struct {
	ID        ItemID     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority,omitempty"`
	Category  Category   `json:"category,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewItem builds an item with defaults. It does not validate or truncate text;
// callers check ValidateText first.
func NewItem(text, createdBy string, now time.Time) Item {
	now = now.UTC()
	return Item{
		ID:        NewItemID(),
		Text:      text,
		Priority:  PriorityNone,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}
	if n := len([]rune(text)); n > MaxTextLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, n, MaxTextLength)
	}
	return nil
}

// EffectivePriority maps a missing priority to none.
func (it Item) EffectivePriority() Priority {
	if it.Priority == "" {
		return PriorityNone
	}
	return it.Priority
}

func (it *Item) Toggle(now time.Time) {
	it.Completed = !it.Completed
	it.touch(now)
}

func (it *Item) SetPriority(p Priority, now time.Time) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	it.Priority = p
	it.touch(now)
	return nil
}

func (it *Item) SetCategory(c Category, now time.Time) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	it.Category = c
	it.touch(now)
	return nil
}

// Edit describes an edit request. Nil fields are left alone. A date-only due
// date means midnight in Location (UTC when nil).
type Edit struct {
	Text     *string
	DueDate  *string
	Location *time.Location
}

// ApplyEdit validates everything before touching the item, so a rejected edit
// leaves it unchanged. It returns the names of the fields that changed.
func (it *Item) ApplyEdit(e Edit, now time.Time) ([]string, error) {
	if e.Text == nil && e.DueDate == nil {
		return nil, ErrNoChanges
	}
	if e.Text != nil {
		if err := ValidateText(*e.Text); err != nil {
			return nil, err
		}
	}
	var (
		due      *time.Time
		clearDue bool
	)
	if e.DueDate != nil {
		parsed, cleared, err := ParseDueDate(*e.DueDate, e.Location)
		if err != nil {
			return nil, err
		}
		due, clearDue = parsed, cleared
	}

	changes := make([]string, 0, 2)
	if e.Text != nil && *e.Text != it.Text {
		it.Text = *e.Text
		changes = append(changes, "text")
	}
	switch {
	case clearDue:
		if it.DueDate != nil {
			it.DueDate = nil
			changes = append(changes, "due date (removed)")
		}
	case due != nil:
		if it.DueDate == nil || !it.DueDate.Equal(*due) {
			it.DueDate = due
			changes = append(changes, "due date")
		}
	}
	if len(changes) > 0 {
		it.touch(now)
	}
	return changes, nil
}

// ParseDueDate accepts "none" (any case, clears the date), YYYY-MM-DD or RFC 3339.
// A bare date is midnight in loc, so it reads back as the same calendar day
// when shown in loc.
func ParseDueDate(raw string, loc *time.Location) (*time.Time, bool, error) {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "none") {
		return nil, true, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		t = t.UTC()
		return &t, false, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, false, nil
	}
	return nil, false, fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDueDate, raw)
}

// touch keeps UpdatedAt strictly increasing even when the clock does not move.
func (it *Item) touch(now time.Time) {
	now = now.UTC()
	if !now.After(it.UpdatedAt) {
		now = it.UpdatedAt.Add(time.Nanosecond)
	}
	it.UpdatedAt = now
}

// DueDay is the due date truncated to a calendar day in loc.
func (it Item) DueDay(loc *time.Location) (time.Time, bool) {
	if it.DueDate == nil {
		return time.Time{}, false
	}
	return Day(*it.DueDate, loc), true
}

func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
