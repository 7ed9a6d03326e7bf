package commands

import (
	"fmt"

	"github.com/sandeepkv93/listd/internal/views"
)

// Result is what a command produces: a reply, or a modal in its place, plus
// optional follow-up messages sent after the reply.
type Result struct {
	Reply     views.Message
	Modal     *views.Modal
	FollowUps []views.Message
}

type Handlers struct {
	Add   func(AddArgs) (Result, error)
	List  func(ListArgs) (Result, error)
	Check func(CheckArgs) (Result, error)
	Edit  func(EditArgs) (Result, error)
	Clear func(ClearArgs) (Result, error)
	Help  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeList:
		if handlers.List == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.List(*cmd.List)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Check(*cmd.Check)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Edit(*cmd.Edit)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Clear(*cmd.Clear)
	case TypeHelp:
		if handlers.Help == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Help()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
