package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/listd/internal/model"
	"github.com/sandeepkv93/listd/internal/views"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add oat milk", TypeAdd},
		{"list personal:true show:pending", TypeList},
		{"/check 3", TypeCheck},
		{`/edit 2 text:"oat milk" due_date:2026-03-01`, TypeEdit},
		{"/clear completed", TypeClear},
		{"/help", TypeHelp},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/add oat milk personal:true")
	if err != nil {
		t.Fatalf("parse add: %v", err)
	}
	if cmd.Add.Item != "oat milk" || !cmd.Add.Personal {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}

	cmd, err = Parse(`/edit 2 text:"oat milk" due_date:none`)
	if err != nil {
		t.Fatalf("parse edit: %v", err)
	}
	if cmd.Edit.Number != 2 || cmd.Edit.Text == nil || *cmd.Edit.Text != "oat milk" || *cmd.Edit.DueDate != "none" {
		t.Fatalf("unexpected edit args: %+v", cmd.Edit)
	}

	cmd, err = Parse("/edit 4")
	if err != nil {
		t.Fatalf("parse bare edit: %v", err)
	}
	if !cmd.Edit.Empty() {
		t.Fatalf("bare edit should carry no changes: %+v", cmd.Edit)
	}
}

func TestParseRejectsInvalidArguments(t *testing.T) {
	bad := []string{
		"/add",
		"/add " + strings.Repeat("x", model.MaxTextLength+1),
		"/check 0",
		"/check two",
		"/clear some",
		"/list category:snacks",
		"/list show:done",
		"/add milk personal:maybe",
		`/edit 1 text:"open`,
	}
	for _, in := range bad {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestFromOptionsStructuredValues(t *testing.T) {
	cmd, err := FromOptions("check", map[string]any{"number": int64(3), "personal": true})
	if err != nil {
		t.Fatalf("from options: %v", err)
	}
	if cmd.Check.Number != 3 || !cmd.Check.Personal {
		t.Fatalf("unexpected check args: %+v", cmd.Check)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Item != "write docs" {
				t.Fatalf("unexpected item: %q", a.Item)
			}
			return Result{Reply: views.Text("ok")}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Reply.Content != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("/help")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestDefinitionsCoverEveryCommand(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Definitions() {
		seen[d.Name] = true
	}
	for _, want := range []Type{TypeAdd, TypeList, TypeCheck, TypeEdit, TypeClear, TypeHelp} {
		if !seen[string(want)] {
			t.Fatalf("missing definition for %s", want)
		}
	}
}
