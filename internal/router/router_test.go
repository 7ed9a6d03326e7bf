package router

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/logging"
	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/storage"
	"github.com/sandeepkv93/listd/internal/views"
)

var (
	alice = model.Actor{ID: "u-alice", Username: "alice"}
	bob   = model.Actor{ID: "u-bob", Username: "bob"}
	admin = model.Actor{ID: "u-admin", Username: "root", Admin: true}
)

const channel = "c1"

type call struct {
	Op    string
	Msg   views.Message
	Modal views.Modal
}

type fakeResponder struct {
	mu           sync.Mutex
	calls        []call
	updatePanics bool
	sourceErr    error
}

func (f *fakeResponder) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeResponder) Reply(_ context.Context, msg views.Message) error {
	f.record(call{Op: "reply", Msg: msg})
	return nil
}

func (f *fakeResponder) Update(_ context.Context, msg views.Message) error {
	if f.updatePanics {
		panic("boom")
	}
	f.record(call{Op: "update", Msg: msg})
	return nil
}

func (f *fakeResponder) ShowModal(_ context.Context, m views.Modal) error {
	f.record(call{Op: "modal", Modal: m})
	return nil
}

func (f *fakeResponder) FollowUp(_ context.Context, msg views.Message) error {
	f.record(call{Op: "followup", Msg: msg})
	return nil
}

func (f *fakeResponder) EditSource(_ context.Context, msg views.Message) error {
	if f.sourceErr != nil {
		return f.sourceErr
	}
	f.record(call{Op: "edit_source", Msg: msg})
	return nil
}

func (f *fakeResponder) only(t *testing.T, op string) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []call
	for _, c := range f.calls {
		if c.Op == op {
			found = append(found, c)
		}
	}
	require.Len(t, found, 1, "calls: %+v", f.calls)
	return found[0]
}

type fixture struct {
	router *Router
	lists  *storage.Lists
	logger *logging.TestLogger

	mu    sync.Mutex
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureIn(t, nil)
}

// newFixtureIn builds a fixture whose router shows and parses dates in loc.
func newFixtureIn(t *testing.T, loc *time.Location) *fixture {
	t.Helper()
	store, err := storage.OpenDocumentStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	lists, err := storage.NewLists(store, storage.LockScope)
	require.NoError(t, err)

	f := &fixture{lists: lists, logger: logging.NewTestLogger(), clock: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	f.router, err = New(lists, Options{Logger: f.logger.Logger, Now: f.now, Location: loc})
	require.NoError(t, err)
	return f
}

// now advances a minute per call so creation order is deterministic.
func (f *fixture) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) run(t *testing.T, in Interaction) *fakeResponder {
	t.Helper()
	resp := &fakeResponder{}
	require.NoError(t, f.router.Handle(t.Context(), in, resp))
	return resp
}

func (f *fixture) command(t *testing.T, actor model.Actor, line string) *fakeResponder {
	t.Helper()
	return f.run(t, Interaction{ID: "i", Kind: KindCommand, Actor: actor, ChannelID: channel, ChannelName: "groceries", Input: line})
}

func (f *fixture) component(t *testing.T, actor model.Actor, id string, values ...string) *fakeResponder {
	t.Helper()
	return f.run(t, Interaction{ID: "i", Kind: KindComponent, Actor: actor, ChannelID: channel, ChannelName: "groceries", CustomID: id, Values: values})
}

func (f *fixture) channelList(t *testing.T) model.List {
	t.Helper()
	l, err := f.lists.Read(t.Context(), storage.ChannelScope(channel))
	require.NoError(t, err)
	return l
}

func (f *fixture) item(t *testing.T, n int) model.Item {
	t.Helper()
	it, ok := views.ByNumber(f.channelList(t), n)
	require.True(t, ok, "item #%d", n)
	return it
}

func TestAddCommand(t *testing.T) {
	f := newFixture(t)
	resp := f.command(t, alice, "/add oat milk")

	reply := resp.only(t, "reply")
	assert.Equal(t, "Added to channel list: **oat milk**", reply.Msg.Content)
	assert.False(t, reply.Msg.Ephemeral)

	list := f.channelList(t)
	require.Len(t, list.Items, 1)
	assert.Equal(t, alice.ID, list.Items[0].CreatedBy)
}

func TestAddPersonalIsEphemeral(t *testing.T) {
	f := newFixture(t)
	resp := f.command(t, alice, "/add socks personal:true")
	reply := resp.only(t, "reply")
	assert.Equal(t, "Added to your personal list: **socks**", reply.Msg.Content)
	assert.True(t, reply.Msg.Ephemeral)
	assert.Empty(t, f.channelList(t).Items)
}

func TestAddRejectsLongText(t *testing.T) {
	f := newFixture(t)
	resp := f.command(t, alice, "/add "+strings.Repeat("x", model.MaxTextLength+1))
	reply := resp.only(t, "reply")
	assert.True(t, reply.Msg.Ephemeral)
	assert.Contains(t, reply.Msg.Content, "Invalid command")
	assert.Empty(t, f.channelList(t).Items)
}

func TestListCommandRendersSortedNumbers(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add bread")
	f.command(t, alice, "/add milk")
	bread, milk := f.channelList(t).Items[0], f.channelList(t).Items[1]
	f.component(t, alice, customid.SetPriority{ItemID: milk.ID}.Encode(), "low")
	f.component(t, alice, customid.SetPriority{ItemID: bread.ID}.Encode(), "high")

	resp := f.command(t, bob, "/list")
	embed := resp.only(t, "reply").Msg.Embeds[0]
	assert.Equal(t, "#groceries List", embed.Title)
	lines := strings.Split(embed.Description, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1. ⬜ 🔴 **bread**")
	assert.Contains(t, lines[1], "2. ⬜")
	assert.Contains(t, lines[1], "**milk**")
}

func TestCheckResolvesSortedOrder(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add low thing")
	f.command(t, alice, "/add high thing")
	low := f.channelList(t).Items[0]
	f.component(t, alice, customid.SetPriority{ItemID: low.ID}.Encode(), "low")
	high := f.channelList(t).Items[1]
	f.component(t, alice, customid.SetPriority{ItemID: high.ID}.Encode(), "high")

	resp := f.command(t, bob, "/check 1")
	assert.Equal(t, "🎉 Marked item #1 as completed ✅:\n**high thing**", resp.only(t, "reply").Msg.Content)

	list := f.channelList(t)
	got, _ := list.Find(high.ID)
	assert.True(t, got.Completed)

	resp = f.command(t, bob, "/check 9")
	assert.Equal(t, "Error: Item #9 doesn't exist in the list. Use /list to see all items.", resp.only(t, "reply").Msg.Content)
}

func TestEditForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	before := f.item(t, 1)

	resp := f.command(t, bob, `/edit 1 text:"stolen"`)
	reply := resp.only(t, "reply")
	assert.Equal(t, msgNotOwner, reply.Msg.Content)
	assert.True(t, reply.Msg.Ephemeral)

	after := f.item(t, 1)
	assert.Equal(t, before.Text, after.Text)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	f.logger.AssertLogged(t, zapcore.InfoLevel, "interaction rejected")
}

func TestEditByAdminAndFollowUpMenus(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")

	resp := f.command(t, admin, `/edit 1 text:"oat milk" due_date:2026-03-20`)
	assert.Equal(t, "Updated item #1: **oat milk**\nChanged: text, due date", resp.only(t, "reply").Msg.Content)

	follow := resp.only(t, "followup").Msg
	assert.True(t, follow.Ephemeral)
	require.Len(t, follow.Rows, 2)
	assert.True(t, strings.HasPrefix(follow.Rows[0].Select.CustomID, "edit_priority:set:"))
	assert.True(t, strings.HasPrefix(follow.Rows[1].Select.CustomID, "edit_category:set:"))

	it := f.item(t, 1)
	require.NotNil(t, it.DueDate)
	assert.Equal(t, "oat milk", it.Text)
}

func TestEditInvalidDateLeavesItem(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	before := f.item(t, 1)

	resp := f.command(t, alice, "/edit 1 due_date:not-a-date")
	assert.Equal(t, msgBadDate, resp.only(t, "reply").Msg.Content)
	assert.Equal(t, before, f.item(t, 1))
}

func TestEditDueDateNoneClears(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	f.command(t, alice, "/edit 1 due_date:2026-04-01")
	require.NotNil(t, f.item(t, 1).DueDate)

	resp := f.command(t, alice, "/edit 1 due_date:NONE")
	assert.Contains(t, resp.only(t, "reply").Msg.Content, "Changed: due date (removed)")
	assert.Nil(t, f.item(t, 1).DueDate)
}

func TestBareEditOpensModal(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)

	resp := f.command(t, alice, "/edit 1")
	modal := resp.only(t, "modal").Modal
	assert.Equal(t, customid.EditForm{ItemID: it.ID}.Encode(), modal.CustomID)
	assert.Equal(t, "milk", modal.Inputs[0].Value)
}

func TestEditModalSubmit(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)
	id := customid.EditForm{ItemID: it.ID}.Encode()

	resp := f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel, CustomID: id,
		Fields: map[string]string{views.FieldText: "oat milk", views.FieldDueDate: ""}})
	assert.Equal(t, "Updated item #1: **oat milk**\nChanged: text", resp.only(t, "reply").Msg.Content)

	resp = f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel, CustomID: id,
		Fields: map[string]string{views.FieldText: "oat milk"}})
	assert.Equal(t, "No changes were made to the item.", resp.only(t, "reply").Msg.Content)

	f.component(t, alice, customid.ItemAction{Op: customid.ItemDelete, ItemID: it.ID}.Encode())
	resp = f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel, CustomID: id,
		Fields: map[string]string{views.FieldText: "gone"}})
	assert.Equal(t, msgItemGone, resp.only(t, "reply").Msg.Content)
}

func TestEditModalRoundTripKeepsDateInZone(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	f := newFixtureIn(t, est)
	f.command(t, alice, "/add milk")
	f.command(t, alice, "/edit 1 due_date:2026-05-01")

	list := f.command(t, alice, "/list").only(t, "reply").Msg
	assert.Contains(t, list.Embeds[0].Description, "(Due: May 1, 2026)")
	stored := *f.item(t, 1).DueDate

	for i := 0; i < 3; i++ {
		modal := f.command(t, alice, "/edit 1").only(t, "modal").Modal
		fields := map[string]string{}
		for _, in := range modal.Inputs {
			fields[in.CustomID] = in.Value
		}
		assert.Equal(t, "2026-05-01", fields[views.FieldDueDate])

		resp := f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel, CustomID: modal.CustomID, Fields: fields})
		assert.Equal(t, "No changes were made to the item.", resp.only(t, "reply").Msg.Content)
		require.NotNil(t, f.item(t, 1).DueDate)
		assert.True(t, stored.Equal(*f.item(t, 1).DueDate), "submit %d moved the due date", i+1)
	}
}

func TestAddModalRefreshesSource(t *testing.T) {
	f := newFixture(t)
	resp := f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel, ChannelName: "groceries",
		CustomID: customid.AddForm{}.Encode(), Fields: map[string]string{views.FieldText: " eggs "}})

	assert.Equal(t, "Added to channel list: **eggs**", resp.only(t, "reply").Msg.Content)
	src := resp.only(t, "edit_source").Msg
	assert.Contains(t, src.Embeds[0].Description, "**eggs**")
}

func TestAddModalKeepsSourceView(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.command(t, alice, fmt.Sprintf("/add item %02d", i))
	}

	view := customid.View{Page: 2, Category: customid.FilterAll, Status: customid.StatusPending}
	resp := f.component(t, alice, customid.ListAction{Op: customid.ListAdd, View: view}.Encode())
	modal := resp.only(t, "modal").Modal

	resp = f.run(t, Interaction{Kind: KindModal, Actor: alice, ChannelID: channel,
		CustomID: modal.CustomID, Fields: map[string]string{views.FieldText: "eggs"}})
	src := resp.only(t, "edit_source").Msg
	footer := src.Embeds[0].Footer
	assert.True(t, strings.HasPrefix(footer, "Page 2/2"), footer)
	assert.Contains(t, footer, "Status: pending")
	assert.Contains(t, src.Embeds[0].Description, "item 00")
	assert.NotContains(t, src.Embeds[0].Description, "eggs")
}

func TestNavigationPages(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.command(t, alice, fmt.Sprintf("/add item %02d", i))
	}

	view := customid.View{Page: 1, Category: customid.FilterAll, Status: customid.FilterAll}
	resp := f.component(t, bob, customid.Nav{Move: customid.NavNext, View: view}.Encode())
	assert.True(t, strings.HasPrefix(resp.only(t, "update").Msg.Embeds[0].Footer, "Page 2/3"))

	resp = f.component(t, bob, customid.Nav{Move: customid.NavLast, View: view}.Encode())
	msg := resp.only(t, "update").Msg
	assert.True(t, strings.HasPrefix(msg.Embeds[0].Footer, "Page 3/3"))
	assert.Len(t, strings.Split(msg.Embeds[0].Description, "\n"), 5)

	view.Page = 7
	resp = f.component(t, bob, customid.Nav{Move: customid.NavNext, View: view}.Encode())
	assert.True(t, strings.HasPrefix(resp.only(t, "update").Msg.Embeds[0].Footer, "Page 3/3"))
}

func TestClearConfirmFlow(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.command(t, alice, fmt.Sprintf("/add item %d", i))
	}
	for i := 0; i < 3; i++ {
		f.command(t, alice, "/check 1")
	}

	resp := f.command(t, alice, "/clear completed")
	confirm := resp.only(t, "reply").Msg
	assert.Contains(t, confirm.Content, "clear 3 completed items")
	assert.True(t, confirm.Ephemeral)

	resp = f.component(t, alice, confirm.Rows[0].Buttons[0].CustomID)
	assert.Equal(t, "Cleared 3 completed items from the channel list.", resp.only(t, "update").Msg.Content)
	assert.Equal(t, "alice cleared 3 completed items from the list.", resp.only(t, "followup").Msg.Content)
	assert.Len(t, f.channelList(t).Items, 2)

	resp = f.component(t, alice, customid.Clear{}.Encode())
	assert.Equal(t, "Operation cancelled.", resp.only(t, "update").Msg.Content)
	assert.Len(t, f.channelList(t).Items, 2)
}

func TestItemActionMissingItem(t *testing.T) {
	f := newFixture(t)
	resp := f.component(t, alice, customid.ItemAction{Op: customid.ItemToggle, ItemID: "nope"}.Encode())
	reply := resp.only(t, "reply").Msg
	assert.Equal(t, msgItemGone, reply.Content)
	assert.True(t, reply.Ephemeral)
}

func TestItemDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)
	del := customid.ItemAction{Op: customid.ItemDelete, ItemID: it.ID}.Encode()

	resp := f.component(t, bob, del)
	assert.Equal(t, msgNotOwner, resp.only(t, "reply").Msg.Content)
	assert.Len(t, f.channelList(t).Items, 1)

	resp = f.component(t, alice, del)
	assert.Equal(t, "Deleted item:\n**milk**", resp.only(t, "reply").Msg.Content)
	assert.Empty(t, f.channelList(t).Items)
}

func TestSelectAndQuickToggle(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)
	view := customid.View{Page: 1, Category: customid.FilterAll, Status: customid.FilterAll}

	resp := f.component(t, bob, customid.SelectItem{View: view}.Encode(), string(it.ID))
	detail := resp.only(t, "reply").Msg
	assert.Contains(t, detail.Content, "**Item #1: milk**")
	require.Len(t, detail.Rows, 1)

	resp = f.component(t, bob, customid.SelectItem{View: view}.Encode(), views.NoneValue)
	assert.Equal(t, msgNoItems, resp.only(t, "reply").Msg.Content)

	resp = f.component(t, bob, customid.QuickToggle{View: view}.Encode(), string(it.ID))
	assert.Equal(t, "🎉 Marked item #1 as completed ✅:\n**milk**", resp.only(t, "reply").Msg.Content)
	assert.Contains(t, resp.only(t, "edit_source").Msg.Embeds[0].Description, "✅")
	assert.True(t, f.item(t, 1).Completed)
}

func TestQuickToggleSourceFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)

	resp := &fakeResponder{sourceErr: errors.New("message deleted")}
	in := Interaction{Kind: KindComponent, Actor: alice, ChannelID: channel,
		CustomID: customid.QuickToggle{View: customid.View{Page: 1}}.Encode(), Values: []string{string(it.ID)}}
	require.NoError(t, f.router.Handle(t.Context(), in, resp))
	resp.only(t, "reply")
	f.logger.AssertLogged(t, zapcore.WarnLevel, "could not refresh source list")
}

func TestMalformedCustomID(t *testing.T) {
	f := newFixture(t)
	resp := f.component(t, alice, "list_nav:sideways:1:all:all")
	reply := resp.only(t, "reply").Msg
	assert.True(t, reply.Ephemeral)
	assert.Contains(t, reply.Content, "no longer valid")
}

func TestPanicBecomesGenericReply(t *testing.T) {
	f := newFixture(t)
	resp := &fakeResponder{updatePanics: true}
	in := Interaction{Kind: KindComponent, Actor: alice, ChannelID: channel,
		CustomID: customid.ListAction{Op: customid.ListRefresh, View: customid.View{Page: 1}}.Encode()}

	require.NoError(t, f.router.Handle(t.Context(), in, resp))
	assert.Equal(t, genericFailure, resp.only(t, "reply").Msg.Content)
	f.logger.AssertLogged(t, zapcore.ErrorLevel, "interaction panicked")
}

func TestConcurrentAddsAreRetained(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := &fakeResponder{}
			in := Interaction{Kind: KindCommand, Actor: alice, ChannelID: channel, Command: "add",
				Options: map[string]any{"item": fmt.Sprintf("item %d", i)}}
			assert.NoError(t, f.router.Handle(context.Background(), in, resp))
		}()
	}
	wg.Wait()
	assert.Len(t, f.channelList(t).Items, 2)
}

func TestChannelScopeNeedsChannel(t *testing.T) {
	f := newFixture(t)
	resp := f.run(t, Interaction{Kind: KindCommand, Actor: alice, Input: "/add milk"})
	assert.Equal(t, "This command must be used in a channel.", resp.only(t, "reply").Msg.Content)

	resp = f.run(t, Interaction{Kind: KindCommand, Actor: alice, Input: "/add milk personal:true"})
	assert.Contains(t, resp.only(t, "reply").Msg.Content, "personal list")
}

func TestSetCategoryValidation(t *testing.T) {
	f := newFixture(t)
	f.command(t, alice, "/add milk")
	it := f.item(t, 1)

	resp := f.component(t, alice, customid.SetCategory{ItemID: it.ID}.Encode(), "snacks")
	assert.Equal(t, "Unknown category.", resp.only(t, "reply").Msg.Content)

	resp = f.component(t, alice, customid.SetCategory{ItemID: it.ID}.Encode(), "groceries")
	assert.Contains(t, resp.only(t, "reply").Msg.Content, "Groceries")
	assert.Equal(t, model.CategoryGroceries, f.item(t, 1).Category)
}
