package world

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"pkg.world.dev/world-engine/ecs/types"
)

// ErrorContext describes where an error handled by an ErrorHandler came from.
type ErrorContext struct {
	Kind    string
	Name    string
	LastRun types.Tick
}

func (c ErrorContext) String() string {
	return fmt.Sprintf("%s %q", c.Kind, c.Name)
}

// ErrorHandler reacts to an error that has no caller to return to, such as a failed command.
type ErrorHandler func(err error, ctx ErrorContext)

// DefaultErrorHandler is the resource that selects the world's error handler. Without it the world
// panics.
type DefaultErrorHandler struct {
	Handler ErrorHandler
}

func PanicHandler(err error, ctx ErrorContext) {
	panic(fmt.Sprintf("encountered an error in %s: %v", ctx, err))
}

func WarnHandler(err error, ctx ErrorContext) {
	log.Warn().Err(err).Str("kind", ctx.Kind).Str("name", ctx.Name).Msg("encountered an error")
}

func IgnoreHandler(error, ErrorContext) {}
