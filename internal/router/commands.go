package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/listd/internal/commands"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/views"
)

func (r *Router) handleCommand(ctx context.Context, in Interaction, resp Responder) error {
	var (
		cmd commands.Command
		err error
	)
	if in.Command != "" {
		cmd, err = commands.FromOptions(in.Command, in.Options)
	} else {
		cmd, err = commands.Parse(in.Input)
	}
	if err != nil {
		return err
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add:   func(a commands.AddArgs) (commands.Result, error) { return r.add(ctx, in, a) },
		List:  func(a commands.ListArgs) (commands.Result, error) { return r.list(ctx, in, a) },
		Check: func(a commands.CheckArgs) (commands.Result, error) { return r.check(ctx, in, a) },
		Edit:  func(a commands.EditArgs) (commands.Result, error) { return r.edit(ctx, in, a) },
		Clear: func(a commands.ClearArgs) (commands.Result, error) { return r.clear(ctx, in, a) },
		Help:  func() (commands.Result, error) { return commands.Result{Reply: views.Help()}, nil },
	})
	if err != nil {
		return err
	}

	if res.Modal != nil {
		if err := resp.ShowModal(ctx, *res.Modal); err != nil {
			return fmt.Errorf("show modal: %w", err)
		}
	} else if err := resp.Reply(ctx, res.Reply); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	for _, f := range res.FollowUps {
		if err := resp.FollowUp(ctx, f); err != nil {
			return fmt.Errorf("follow-up: %w", err)
		}
	}
	return nil
}

func addedMessage(personal bool, text string) views.Message {
	if personal {
		return views.Message{Content: "Added to your personal list: **" + text + "**", Ephemeral: true}
	}
	return views.Message{Content: "Added to channel list: **" + text + "**"}
}

func (r *Router) add(ctx context.Context, in Interaction, a commands.AddArgs) (commands.Result, error) {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return commands.Result{}, err
	}
	if err := model.ValidateText(a.Item); err != nil {
		return commands.Result{}, err
	}
	if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		l.Add(model.NewItem(a.Item, in.Actor.ID, r.now()))
		return true, nil
	}); err != nil {
		return commands.Result{}, err
	}
	r.metrics.Mutation("add")
	return commands.Result{Reply: addedMessage(a.Personal, a.Item)}, nil
}

func (r *Router) list(ctx context.Context, in Interaction, a commands.ListArgs) (commands.Result, error) {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return commands.Result{}, err
	}
	list, err := r.lists.Read(ctx, scope)
	if err != nil {
		return commands.Result{}, err
	}
	msg := r.render(in, a.Personal, list, views.Filter{Category: a.Category, Status: a.Show}, 0)
	return commands.Result{Reply: msg}, nil
}

func toggledMessage(personal bool, number int, it model.Item) views.Message {
	status, emoji := "pending ⬜", "📝"
	if it.Completed {
		status, emoji = "completed ✅", "🎉"
	}
	return views.Message{
		Content:   fmt.Sprintf("%s Marked item #%d as %s:\n**%s**", emoji, number, status, it.Text),
		Ephemeral: personal,
	}
}

func (r *Router) check(ctx context.Context, in Interaction, a commands.CheckArgs) (commands.Result, error) {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return commands.Result{}, err
	}
	var toggled model.Item
	if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		target, ok := views.ByNumber(*l, a.Number)
		if !ok {
			return false, missingNumber(a.Number)
		}
		it, _ := l.Find(target.ID)
		it.Toggle(r.now())
		toggled = *it
		return true, nil
	}); err != nil {
		return commands.Result{}, err
	}
	r.metrics.Mutation("toggle")
	return commands.Result{Reply: toggledMessage(a.Personal, a.Number, toggled)}, nil
}

func updatedMessage(personal bool, number int, it model.Item, changes []string) views.Message {
	return views.Message{
		Content:   fmt.Sprintf("Updated item #%d: **%s**\nChanged: %s", number, it.Text, strings.Join(changes, ", ")),
		Ephemeral: personal,
	}
}

func (r *Router) edit(ctx context.Context, in Interaction, a commands.EditArgs) (commands.Result, error) {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return commands.Result{}, err
	}

	if a.Empty() {
		list, err := r.lists.Read(ctx, scope)
		if err != nil {
			return commands.Result{}, err
		}
		target, ok := views.ByNumber(list, a.Number)
		if !ok {
			return commands.Result{}, missingNumber(a.Number)
		}
		if err := model.Authorize(target, in.Actor, scope.Kind); err != nil {
			return commands.Result{}, err
		}
		modal := views.EditModal(a.Personal, target, r.loc)
		return commands.Result{Modal: &modal}, nil
	}

	var (
		edited  model.Item
		changes []string
	)
	if _, err := r.lists.Update(ctx, scope, func(l *model.List) (bool, error) {
		target, ok := views.ByNumber(*l, a.Number)
		if !ok {
			return false, missingNumber(a.Number)
		}
		if err := model.Authorize(target, in.Actor, scope.Kind); err != nil {
			return false, err
		}
		it, _ := l.Find(target.ID)
		var err error
		changes, err = it.ApplyEdit(model.Edit{Text: a.Text, DueDate: a.DueDate, Location: r.loc}, r.now())
		if err != nil {
			return false, err
		}
		edited = *it
		return len(changes) > 0, nil
	}); err != nil {
		return commands.Result{}, err
	}

	if len(changes) == 0 {
		return commands.Result{Reply: views.Text("No changes were made to the item.")}, nil
	}
	r.metrics.Mutation("edit")
	return commands.Result{
		Reply: updatedMessage(a.Personal, a.Number, edited, changes),
		FollowUps: []views.Message{{
			Content:   "You can also update the priority or category:",
			Rows:      []views.ActionRow{views.PriorityMenu(a.Personal, edited.ID), views.CategoryMenu(a.Personal, edited.ID)},
			Ephemeral: true,
		}},
	}, nil
}

func (r *Router) clear(ctx context.Context, in Interaction, a commands.ClearArgs) (commands.Result, error) {
	scope, err := r.scope(in, a.Personal)
	if err != nil {
		return commands.Result{}, err
	}
	list, err := r.lists.Read(ctx, scope)
	if err != nil {
		return commands.Result{}, err
	}
	count := list.Len() + list.Preserved()
	if a.Type == model.ClearCompleted {
		count = list.CompletedCount()
	}
	return commands.Result{Reply: views.ConfirmClear(a.Personal, a.Type, count)}, nil
}
