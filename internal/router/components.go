package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/views"
)

func (r *Router) handleAction(ctx context.Context, in Interaction, action customid.Action, resp Responder) error {
	switch a := action.(type) {
	case customid.Nav:
		return r.navigate(ctx, in, a, resp)
	case customid.ListAction:
		return r.listAction(ctx, in, a, resp)
	case customid.ItemAction:
		return r.itemAction(ctx, in, a, resp)
	case customid.Clear:
		return r.confirmClear(ctx, in, a, resp)
	case customid.SelectItem:
		return r.selectItem(ctx, in, a, resp)
	case customid.QuickToggle:
		return r.quickToggle(ctx, in, a, resp)
	case customid.AddForm:
		return r.submitAdd(ctx, in, a, resp)
	case customid.EditForm:
		return r.submitEdit(ctx, in, a, resp)
	case customid.SetPriority:
		return r.setPriority(ctx, in, a, resp)
	case customid.SetCategory:
		return r.setCategory(ctx, in, a, resp)
	default:
		return validation("Unsupported control.")
	}
}

func filterOf(v customid.View) views.Filter {
	return views.Filter{Category: v.Category, Status: v.Status}
}

func (r *Router) navigate(ctx context.Context, in Interaction, a customid.Nav, resp Responder) error {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	list, err := r.lists.Read(ctx, scope)
	if err != nil {
		return err
	}
	f := filterOf(a.View)
	pages := views.TotalPages(len(views.Apply(list.Items, f)))
	start := views.Navigate(a.Move, a.View.Page, pages)
	return resp.Update(ctx, r.render(in, a.Personal, list, f, start))
}

func (r *Router) listAction(ctx context.Context, in Interaction, a customid.ListAction, resp Responder) error {
	switch a.Op {
	case customid.ListAdd:
		return resp.ShowModal(ctx, views.AddModal(a.Personal, a.View))
	case customid.ListRefresh:
		scope, err := r.scope(in, a.Personal)
		if err != nil {
			return err
		}
		list, err := r.lists.Read(ctx, scope)
		if err != nil {
			return err
		}
		return resp.Update(ctx, r.render(in, a.Personal, list, filterOf(a.View), views.StartForPage(a.View.Page)))
	case customid.ListClearCompleted:
		scope, err := r.scope(in, a.Personal)
		if err != nil {
			return err
		}
		var removed int
		list, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
			removed = l.ClearCompleted()
			return removed > 0, nil
		})
		if err != nil {
			return err
		}
		if removed > 0 {
			r.metrics.Mutation("clear_completed")
		}
		if err := resp.Reply(ctx, clearedMessage(a.Personal, model.ClearCompleted, removed)); err != nil {
			return err
		}
		r.refreshSource(ctx, in, resp, a.Personal, list, filterOf(a.View), views.StartForPage(a.View.Page))
		return nil
	default:
		return validation("Unsupported list action.")
	}
}

func clearedMessage(personal bool, mode model.ClearMode, n int) views.Message {
	where := "the channel list"
	if personal {
		where = "your personal list"
	}
	what := fmt.Sprintf("%d completed items", n)
	if mode == model.ClearAll {
		what = fmt.Sprintf("all %d items", n)
	}
	return views.Message{Content: fmt.Sprintf("Cleared %s from %s.", what, where), Ephemeral: personal}
}

func (r *Router) itemAction(ctx context.Context, in Interaction, a customid.ItemAction, resp Responder) error {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}

	switch a.Op {
	case customid.ItemToggle:
		var toggled model.Item
		if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
			it, ok := l.Find(a.ItemID)
			if !ok {
				return false, notFound(msgItemGone)
			}
			it.Toggle(r.now())
			toggled = *it
			return true, nil
		}); err != nil {
			return err
		}
		r.metrics.Mutation("toggle")
		status := "pending ⬜"
		if toggled.Completed {
			status = "completed ✅"
		}
		return resp.Reply(ctx, views.Message{
			Content:   fmt.Sprintf("Marked item as %s:\n**%s**", status, toggled.Text),
			Ephemeral: a.Personal,
		})

	case customid.ItemEdit:
		list, err := r.lists.Read(ctx, scope)
		if err != nil {
			return err
		}
		it, ok := list.Find(a.ItemID)
		if !ok {
			return notFound(msgItemGone)
		}
		if err := model.Authorize(*it, in.Actor, scope.Kind); err != nil {
			return err
		}
		return resp.ShowModal(ctx, views.EditModal(a.Personal, *it, r.loc))

	case customid.ItemDelete:
		var deleted model.Item
		if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
			it, ok := l.Find(a.ItemID)
			if !ok {
				return false, notFound(msgItemGone)
			}
			if err := model.Authorize(*it, in.Actor, scope.Kind); err != nil {
				return false, err
			}
			deleted, _ = l.Remove(a.ItemID)
			return true, nil
		}); err != nil {
			return err
		}
		r.metrics.Mutation("delete")
		return resp.Reply(ctx, views.Message{
			Content:   "Deleted item:\n**" + deleted.Text + "**",
			Ephemeral: a.Personal,
		})

	default:
		return validation("Unsupported item action.")
	}
}

func (r *Router) confirmClear(ctx context.Context, in Interaction, a customid.Clear, resp Responder) error {
	if !a.Confirm {
		return resp.Update(ctx, views.Text("Operation cancelled."))
	}
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	var removed int
	if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		removed = l.Clear(a.Mode)
		return removed > 0, nil
	}); err != nil {
		return err
	}
	if removed > 0 {
		r.metrics.Mutation("clear_" + string(a.Mode))
	}

	done := clearedMessage(a.Personal, a.Mode, removed)
	done.Ephemeral = true
	if err := resp.Update(ctx, done); err != nil {
		return err
	}
	if a.Personal {
		return nil
	}
	what := fmt.Sprintf("%d completed items", removed)
	if a.Mode == model.ClearAll {
		what = fmt.Sprintf("all %d items", removed)
	}
	return resp.FollowUp(ctx, views.Message{
		Content: fmt.Sprintf("%s cleared %s from the list.", in.Actor.Username, what),
	})
}

// selected returns the single chosen option value.
func selected(in Interaction) (model.ItemID, error) {
	if len(in.Values) == 0 {
		return "", validation(msgNoItems)
	}
	v := strings.TrimSpace(in.Values[0])
	if v == "" || v == views.NoneValue {
		return "", validation(msgNoItems)
	}
	return model.ItemID(v), nil
}

func (r *Router) selectItem(ctx context.Context, in Interaction, a customid.SelectItem, resp Responder) error {
	id, err := selected(in)
	if err != nil {
		return err
	}
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	list, err := r.lists.Read(ctx, scope)
	if err != nil {
		return err
	}
	view := views.BuildListView(views.ListInput{List: list})
	n := view.Number(id)
	if n == 0 {
		return notFound(msgItemModified)
	}
	it, _ := list.Find(id)
	return resp.Reply(ctx, views.ItemDetail(a.Personal, n, *it, r.loc))
}

func (r *Router) quickToggle(ctx context.Context, in Interaction, a customid.QuickToggle, resp Responder) error {
	id, err := selected(in)
	if err != nil {
		return err
	}
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	var (
		toggled model.Item
		number  int
	)
	list, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		number = views.BuildListView(views.ListInput{List: *l}).Number(id)
		if number == 0 {
			return false, notFound(msgItemModified)
		}
		it, _ := l.Find(id)
		it.Toggle(r.now())
		toggled = *it
		return true, nil
	})
	if err != nil {
		return err
	}
	r.metrics.Mutation("toggle")

	msg := toggledMessage(a.Personal, number, toggled)
	msg.Ephemeral = true
	if err := resp.Reply(ctx, msg); err != nil {
		return err
	}
	r.refreshSource(ctx, in, resp, a.Personal, list, filterOf(a.View), views.StartForPage(a.View.Page))
	return nil
}

func (r *Router) setPriority(ctx context.Context, in Interaction, a customid.SetPriority, resp Responder) error {
	if len(in.Values) == 0 {
		return validation("Pick a priority.")
	}
	p := model.Priority(in.Values[0])
	it, err := r.modifyItem(ctx, in, a.Personal, a.ItemID, func(it *model.Item) error {
		return it.SetPriority(p, r.now())
	})
	if err != nil {
		return err
	}
	r.metrics.Mutation("priority")
	return resp.Reply(ctx, views.Text(fmt.Sprintf("Priority of **%s** set to %s %s.", it.Text, p.Emoji(), p.Label())))
}

func (r *Router) setCategory(ctx context.Context, in Interaction, a customid.SetCategory, resp Responder) error {
	if len(in.Values) == 0 {
		return validation("Pick a category.")
	}
	c := model.Category(in.Values[0])
	it, err := r.modifyItem(ctx, in, a.Personal, a.ItemID, func(it *model.Item) error {
		return it.SetCategory(c, r.now())
	})
	if err != nil {
		return err
	}
	r.metrics.Mutation("category")
	return resp.Reply(ctx, views.Text(fmt.Sprintf("Category of **%s** set to %s %s.", it.Text, c.Emoji(), c.Label())))
}

// modifyItem resolves id, checks ownership and applies fn under the scope lock.
func (r *Router) modifyItem(ctx context.Context, in Interaction, personal bool, id model.ItemID, fn func(*model.Item) error) (model.Item, error) {
	scope, err := r.scope(in, personal)
	if err != nil {
		return model.Item{}, err
	}
	var out model.Item
	_, err = r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		it, ok := l.Find(id)
		if !ok {
			return false, notFound(msgItemGone)
		}
		if err := model.Authorize(*it, in.Actor, scope.Kind); err != nil {
			return false, err
		}
		if err := fn(it); err != nil {
			return false, err
		}
		out = *it
		return true, nil
	})
	return out, err
}
