package router

import (
	"context"
	"strings"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/views"
)

func (r *Router) submitAdd(ctx context.Context, in Interaction, a customid.AddForm, resp Responder) error {
	text := strings.TrimSpace(in.Fields[views.FieldText])
	if err := model.ValidateText(text); err != nil {
		return err
	}
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	list, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		l.Add(model.NewItem(text, in.Actor.ID, r.now()))
		return true, nil
	})
	if err != nil {
		return err
	}
	r.metrics.Mutation("add")
	if err := resp.Reply(ctx, addedMessage(a.Personal, text)); err != nil {
		return err
	}
	r.refreshSource(ctx, in, resp, a.Personal, list, filterOf(a.View), views.StartForPage(a.View.Page))
	return nil
}

// submitEdit applies the edit form. An empty due date field clears the date.
func (r *Router) submitEdit(ctx context.Context, in Interaction, a customid.EditForm, resp Responder) error {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return err
	}
	e := model.Edit{Location: r.loc}
	if text, ok := in.Fields[views.FieldText]; ok {
		text = strings.TrimSpace(text)
		e.Text = &text
	}
	if due, ok := in.Fields[views.FieldDueDate]; ok {
		due = strings.TrimSpace(due)
		if due == "" {
			due = "none"
		}
		e.DueDate = &due
	}

	var (
		edited  model.Item
		changes []string
	)
	list, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		it, ok := l.Find(a.ItemID)
		if !ok {
			return false, notFound(msgItemGone)
		}
		if err := model.Authorize(*it, in.Actor, scope.Kind); err != nil {
			return false, err
		}
		var err error
		changes, err = it.ApplyEdit(e, r.now())
		if err != nil {
			return false, err
		}
		edited = *it
		return len(changes) > 0, nil
	})
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return resp.Reply(ctx, views.Text("No changes were made to the item."))
	}
	r.metrics.Mutation("edit")
	n := views.BuildListView(views.ListInput{List: list}).Number(edited.ID)
	return resp.Reply(ctx, updatedMessage(a.Personal, n, edited, changes))
}
