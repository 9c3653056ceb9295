package editor

import (
	"context"
)

// Prompt is the confirmation shown before a destructive operation.
type Prompt struct {
	Title   string
	Message string
	Action  string
	Cancel  string
}

// Confirmer asks the user to confirm a prompt.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Answer is a Confirmer whose answer is already known, as when the user
// confirmed by submitting a form.
type Answer bool

func (a Answer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(a), nil
}

// Progress shows a transient message while op runs.
type Progress interface {
	Run(ctx context.Context, message string, op func(context.Context) error) error
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(ctx context.Context, message string, op func(context.Context) error) error

func (f ProgressFunc) Run(ctx context.Context, message string, op func(context.Context) error) error {
	return f(ctx, message, op)
}

// NoProgress runs op without showing anything.
var NoProgress Progress = ProgressFunc(func(ctx context.Context, _ string, op func(context.Context) error) error {
	return op(ctx)
})
