// Package customid encodes the state carried by message component and modal
// identifiers. An identifier is "<domain>[_personal]:<action>[:<arg>...]";
// every flow's resumable state lives either here or in the store.
package customid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/listd/internal/model"
)

const (
	sep            = ":"
	personalSuffix = "_personal"
	// MaxLength is the platform limit on component identifiers.
	MaxLength = 100
)

var ErrMalformed = errors.New("customid: malformed identifier")

type DecodeError struct {
	ID     string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("customid: %s: %q", e.Reason, e.ID)
}

func (e *DecodeError) Unwrap() error { return ErrMalformed }

type Domain string

const (
	DomainListNav      Domain = "list_nav"
	DomainListAction   Domain = "list_action"
	DomainItemAction   Domain = "item_action"
	DomainClear        Domain = "clear"
	DomainListSelect   Domain = "list_select"
	DomainQuickToggle  Domain = "quick_toggle"
	DomainAddModal     Domain = "add_modal"
	DomainEditModal    Domain = "edit_modal"
	DomainEditPriority Domain = "edit_priority"
	DomainEditCategory Domain = "edit_category"
)

// Action is one decoded identifier. The concrete types below are the only
// implementations.
type Action interface {
	Domain() Domain
	IsPersonal() bool
	Encode() string
	sealed()
}

const (
	FilterAll = "all"

	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// View is the list view state threaded through navigation identifiers.
type View struct {
	Page     int
	Category string
	Status   string
}

func (v View) normalized() View {
	if v.Page < 1 {
		v.Page = 1
	}
	if v.Category == "" {
		v.Category = FilterAll
	}
	if v.Status == "" {
		v.Status = FilterAll
	}
	return v
}

func (v View) tokens() []string {
	v = v.normalized()
	return []string{strconv.Itoa(v.Page), v.Category, v.Status}
}

type NavMove string

const (
	NavFirst NavMove = "first"
	NavPrev  NavMove = "prev"
	NavNext  NavMove = "next"
	NavLast  NavMove = "last"
	// NavPage is the disabled page indicator.
	NavPage NavMove = "page"
)

type Nav struct {
	Personal bool
	Move     NavMove
	View     View
}

type ListOp string

const (
	ListAdd            ListOp = "add"
	ListRefresh        ListOp = "refresh"
	ListClearCompleted ListOp = "clear_completed"
)

type ListAction struct {
	Personal bool
	Op       ListOp
	View     View
}

type ItemOp string

const (
	ItemToggle ItemOp = "toggle"
	ItemEdit   ItemOp = "edit"
	ItemDelete ItemOp = "delete"
)

type ItemAction struct {
	Personal bool
	Op       ItemOp
	ItemID   model.ItemID
}

// Clear is the second step of a destructive clear. Confirm false means cancel.
type Clear struct {
	Personal bool
	Confirm  bool
	Mode     model.ClearMode
}

type SelectItem struct {
	Personal bool
	View     View
}

type QuickToggle struct {
	Personal bool
	View     View
}

// AddForm carries the view of the list the form was opened from.
type AddForm struct {
	Personal bool
	View     View
}

type EditForm struct {
	Personal bool
	ItemID   model.ItemID
}

type SetPriority struct {
	Personal bool
	ItemID   model.ItemID
}

type SetCategory struct {
	Personal bool
	ItemID   model.ItemID
}

func (Nav) Domain() Domain         { return DomainListNav }
func (ListAction) Domain() Domain  { return DomainListAction }
func (ItemAction) Domain() Domain  { return DomainItemAction }
func (Clear) Domain() Domain       { return DomainClear }
func (SelectItem) Domain() Domain  { return DomainListSelect }
func (QuickToggle) Domain() Domain { return DomainQuickToggle }
func (AddForm) Domain() Domain     { return DomainAddModal }
func (EditForm) Domain() Domain    { return DomainEditModal }
func (SetPriority) Domain() Domain { return DomainEditPriority }
func (SetCategory) Domain() Domain { return DomainEditCategory }

func (a Nav) IsPersonal() bool         { return a.Personal }
func (a ListAction) IsPersonal() bool  { return a.Personal }
func (a ItemAction) IsPersonal() bool  { return a.Personal }
func (a Clear) IsPersonal() bool       { return a.Personal }
func (a SelectItem) IsPersonal() bool  { return a.Personal }
func (a QuickToggle) IsPersonal() bool { return a.Personal }
func (a AddForm) IsPersonal() bool     { return a.Personal }
func (a EditForm) IsPersonal() bool    { return a.Personal }
func (a SetPriority) IsPersonal() bool { return a.Personal }
func (a SetCategory) IsPersonal() bool { return a.Personal }

func (Nav) sealed()         {}
func (ListAction) sealed()  {}
func (ItemAction) sealed()  {}
func (Clear) sealed()       {}
func (SelectItem) sealed()  {}
func (QuickToggle) sealed() {}
func (AddForm) sealed()     {}
func (EditForm) sealed()    {}
func (SetPriority) sealed() {}
func (SetCategory) sealed() {}

func (a Nav) Encode() string {
	return join(DomainListNav, a.Personal, append([]string{string(a.Move)}, a.View.tokens()...)...)
}

func (a ListAction) Encode() string {
	return join(DomainListAction, a.Personal, append([]string{string(a.Op)}, a.View.tokens()...)...)
}

func (a ItemAction) Encode() string {
	return join(DomainItemAction, a.Personal, string(a.Op), string(a.ItemID))
}

func (a Clear) Encode() string {
	if !a.Confirm {
		return join(DomainClear, a.Personal, "cancel")
	}
	return join(DomainClear, a.Personal, "confirm", string(a.Mode))
}

func (a SelectItem) Encode() string {
	return join(DomainListSelect, a.Personal, a.View.tokens()...)
}

func (a QuickToggle) Encode() string {
	return join(DomainQuickToggle, a.Personal, a.View.tokens()...)
}

func (a AddForm) Encode() string {
	return join(DomainAddModal, a.Personal, append([]string{"submit"}, a.View.tokens()...)...)
}

func (a EditForm) Encode() string {
	return join(DomainEditModal, a.Personal, "submit", string(a.ItemID))
}

func (a SetPriority) Encode() string {
	return join(DomainEditPriority, a.Personal, "set", string(a.ItemID))
}

func (a SetCategory) Encode() string {
	return join(DomainEditCategory, a.Personal, "set", string(a.ItemID))
}

func join(d Domain, personal bool, args ...string) string {
	head := string(d)
	if personal {
		head += personalSuffix
	}
	return strings.Join(append([]string{head}, args...), sep)
}

// Decode parses an identifier into its Action. Token counts and shapes are
// checked per domain; anything else is a *DecodeError.
func Decode(id string) (Action, error) {
	if id == "" || len(id) > MaxLength {
		return nil, &DecodeError{ID: id, Reason: "bad length"}
	}
	parts := strings.Split(id, sep)
	head, args := parts[0], parts[1:]
	personal := strings.HasSuffix(head, personalSuffix)
	domain := Domain(strings.TrimSuffix(head, personalSuffix))

	bad := func(reason string) (Action, error) {
		return nil, &DecodeError{ID: id, Reason: reason}
	}

	switch domain {
	case DomainListNav:
		if len(args) != 4 {
			return bad("list_nav wants move and view")
		}
		move := NavMove(args[0])
		switch move {
		case NavFirst, NavPrev, NavNext, NavLast, NavPage:
		default:
			return bad("unknown navigation move")
		}
		view, err := parseView(args[1:])
		if err != nil {
			return bad(err.Error())
		}
		return Nav{Personal: personal, Move: move, View: view}, nil

	case DomainListAction:
		if len(args) == 0 {
			return bad("list_action wants an operation")
		}
		op := ListOp(args[0])
		switch op {
		case ListAdd:
			view, err := optionalView(args[1:])
			if err != nil {
				return bad(err.Error())
			}
			return ListAction{Personal: personal, Op: op, View: view}, nil
		case ListRefresh, ListClearCompleted:
			if len(args) != 4 {
				return bad("list_action wants view arguments")
			}
			view, err := parseView(args[1:])
			if err != nil {
				return bad(err.Error())
			}
			return ListAction{Personal: personal, Op: op, View: view}, nil
		default:
			return bad("unknown list operation")
		}

	case DomainItemAction:
		if len(args) != 2 {
			return bad("item_action wants operation and item id")
		}
		op := ItemOp(args[0])
		switch op {
		case ItemToggle, ItemEdit, ItemDelete:
		default:
			return bad("unknown item operation")
		}
		if args[1] == "" {
			return bad("empty item id")
		}
		return ItemAction{Personal: personal, Op: op, ItemID: model.ItemID(args[1])}, nil

	case DomainClear:
		switch {
		case len(args) == 1 && args[0] == "cancel":
			return Clear{Personal: personal}, nil
		case len(args) == 2 && args[0] == "confirm":
			mode := model.ClearMode(args[1])
			if !mode.IsValid() {
				return bad("unknown clear mode")
			}
			return Clear{Personal: personal, Confirm: true, Mode: mode}, nil
		default:
			return bad("clear wants confirm:<mode> or cancel")
		}

	case DomainListSelect, DomainQuickToggle:
		if len(args) != 3 {
			return bad("selection wants view arguments")
		}
		view, err := parseView(args)
		if err != nil {
			return bad(err.Error())
		}
		if domain == DomainListSelect {
			return SelectItem{Personal: personal, View: view}, nil
		}
		return QuickToggle{Personal: personal, View: view}, nil

	case DomainAddModal:
		if len(args) == 0 || args[0] != "submit" {
			return bad("add_modal wants submit")
		}
		view, err := optionalView(args[1:])
		if err != nil {
			return bad(err.Error())
		}
		return AddForm{Personal: personal, View: view}, nil

	case DomainEditModal, DomainEditPriority, DomainEditCategory:
		want := "set"
		if domain == DomainEditModal {
			want = "submit"
		}
		if len(args) != 2 || args[0] != want || args[1] == "" {
			return bad(string(domain) + " wants " + want + " and item id")
		}
		itemID := model.ItemID(args[1])
		switch domain {
		case DomainEditModal:
			return EditForm{Personal: personal, ItemID: itemID}, nil
		case DomainEditPriority:
			return SetPriority{Personal: personal, ItemID: itemID}, nil
		default:
			return SetCategory{Personal: personal, ItemID: itemID}, nil
		}

	default:
		return bad("unknown domain")
	}
}

// optionalView accepts either no view tokens (identifiers minted before the
// view was carried) or a full view.
func optionalView(tokens []string) (View, error) {
	if len(tokens) == 0 {
		return View{}.normalized(), nil
	}
	return parseView(tokens)
}

func parseView(tokens []string) (View, error) {
	if len(tokens) != 3 {
		return View{}, errors.New("view wants page, category and status")
	}
	page, err := strconv.Atoi(tokens[0])
	if err != nil || page < 1 {
		return View{}, errors.New("bad page number")
	}
	category := tokens[1]
	if category != FilterAll && !model.Category(category).IsValid() {
		return View{}, errors.New("unknown category filter")
	}
	switch tokens[2] {
	case FilterAll, StatusCompleted, StatusPending:
	default:
		return View{}, errors.New("unknown status filter")
	}
	return View{Page: page, Category: category, Status: tokens[2]}, nil
}
