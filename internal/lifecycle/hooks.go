package lifecycle

import (
	"context"
	"errors"
)

var errDraining = errors.New("shutting down")

// Hook describes a named shutdown hook.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Func adapts a shutdown step that cannot fail or observe ctx.
func Func(fn func()) func(context.Context) error {
	return func(context.Context) error {
		fn()
		return nil
	}
}
