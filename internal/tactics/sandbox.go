// Package tactics drives combatants with sandboxed GopherLua scripts. Each
// script defines a global decide(situation) function that returns the
// combatant's plan for the round.
package tactics

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes one call may
// execute when no limit is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's mainLoopWithContext calls Done() once per opcode, which makes
// this an exact instruction limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining budget and fires cancel when it runs out.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// withInstructionLimit returns a child of parent that cancels after limit
// opcodes, or when parent is done.
//
// Precondition: limit > 0.
func withInstructionLimit(parent context.Context, limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(parent)
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates a GopherLua LState with only the base, table,
// string and math libraries, and with dofile, loadfile, load, collectgarbage
// and require removed.
//
// Postcondition: the caller owns the LState and must Close it. No
// instruction limit is attached; use runLimited for every call into it.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// runLimited runs fn against L with a fresh instruction budget bound to ctx.
//
// Precondition: limit > 0.
// Postcondition: L has no context attached when runLimited returns.
func runLimited(ctx context.Context, L *lua.LState, limit int, fn func() error) error {
	lctx, cancel := withInstructionLimit(ctx, limit)
	defer cancel()
	L.SetContext(lctx)
	defer L.RemoveContext()
	return fn()
}
