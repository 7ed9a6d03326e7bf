package router

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/listd/internal/commands"
	"github.com/sandeepkv93/listd/internal/customid"
	"github.com/sandeepkv93/listd/internal/model"
)

type ErrorKind string

const (
	ErrValidation ErrorKind = "validation"
	ErrNotFound   ErrorKind = "not_found"
	ErrForbidden  ErrorKind = "forbidden"
)

// UserError is a failure the actor caused and is told about verbatim.
type UserError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UserError) Unwrap() error { return e.Err }

func validation(msg string) error {
	return &UserError{Kind: ErrValidation, Message: msg}
}

func notFound(msg string) error {
	return &UserError{Kind: ErrNotFound, Message: msg}
}

const (
	msgItemGone     = "Item not found. It may have been deleted."
	msgItemModified = "Item not found. It may have been deleted or modified."
	msgNoItems      = "There are no items to select."
	msgNotOwner     = "You can only edit items that you added."
	msgBadDate      = "Invalid date format. Please use YYYY-MM-DD format."
)

func missingNumber(n int) error {
	return notFound(fmt.Sprintf("Error: Item #%d doesn't exist in the list. Use /list to see all items.", n))
}

// classify maps domain errors onto UserError. Anything else stays internal.
func classify(err error) error {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	var ce *commands.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case commands.ErrCodeUnknownCommand:
			return &UserError{Kind: ErrValidation, Message: "Unknown command. Use /help to see what I can do.", Err: err}
		case commands.ErrCodeHandlerMissing:
			return err
		default:
			return &UserError{Kind: ErrValidation, Message: "Invalid command: " + ce.Message, Err: err}
		}
	}
	switch {
	case errors.Is(err, customid.ErrMalformed):
		return &UserError{Kind: ErrValidation, Message: "This control is no longer valid. Run /list again.", Err: err}
	case errors.Is(err, model.ErrForbidden):
		return &UserError{Kind: ErrForbidden, Message: msgNotOwner, Err: err}
	case errors.Is(err, model.ErrInvalidDueDate):
		return &UserError{Kind: ErrValidation, Message: msgBadDate, Err: err}
	case errors.Is(err, model.ErrTextRequired), errors.Is(err, model.ErrTextTooLong):
		return &UserError{Kind: ErrValidation, Message: fmt.Sprintf("Item text must be between 1 and %d characters.", model.MaxTextLength), Err: err}
	case errors.Is(err, model.ErrNoChanges):
		return &UserError{Kind: ErrValidation, Message: "No changes were made to the item.", Err: err}
	case errors.Is(err, model.ErrInvalidPriority):
		return &UserError{Kind: ErrValidation, Message: "Unknown priority.", Err: err}
	case errors.Is(err, model.ErrInvalidCategory):
		return &UserError{Kind: ErrValidation, Message: "Unknown category.", Err: err}
	}
	return err
}
