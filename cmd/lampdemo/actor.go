package main

import (
	"fmt"
	"sync"

	"github.com/abiosoft/ishell/v2"

	"lamp/pkg/lamptypes"
)

// ConsoleActor is the interactive-shell Actor, backed by an ishell
// session. Every console user shares the single identity "console"
// since ishell itself has no notion of multiple concurrent sessions.
type ConsoleActor struct {
	shell *ishell.Shell
}

// NewConsoleActor wraps sh as a lamptypes.Actor.
func NewConsoleActor(sh *ishell.Shell) *ConsoleActor {
	return &ConsoleActor{shell: sh}
}

// ID implements lamptypes.Actor.
func (a *ConsoleActor) ID() string { return "console" }

// Reply implements lamptypes.Actor.
func (a *ConsoleActor) Reply(message string) { a.shell.Println(message) }

// Error implements lamptypes.Actor.
func (a *ConsoleActor) Error(message string) { a.shell.Println("error: " + message) }

var _ lamptypes.Actor = (*ConsoleActor)(nil)

// ScriptActor is the non-interactive Actor used for batch scripts and
// for commands targeting another named actor (teleport, greet). It
// accumulates replies rather than writing to a terminal, so a batch
// run or a test can inspect what the actor was told.
type ScriptActor struct {
	id string

	mu      sync.Mutex
	replies []string
	errs    []string
}

// NewScriptActor creates a ScriptActor with the given stable identity.
func NewScriptActor(id string) *ScriptActor {
	return &ScriptActor{id: id}
}

// ID implements lamptypes.Actor.
func (a *ScriptActor) ID() string { return a.id }

// Reply implements lamptypes.Actor.
func (a *ScriptActor) Reply(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.replies = append(a.replies, message)
	fmt.Printf("[%s] %s\n", a.id, message)
}

// Error implements lamptypes.Actor.
func (a *ScriptActor) Error(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, message)
	fmt.Printf("[%s] error: %s\n", a.id, message)
}

// Replies returns every message sent to this actor so far, in order.
func (a *ScriptActor) Replies() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.replies...)
}

var _ lamptypes.Actor = (*ScriptActor)(nil)

// directory resolves actor names to live Actor values, backing the
// "actor" parameter type used by commands like greet and teleport that
// address another actor by name.
type directory struct {
	mu     sync.RWMutex
	actors map[string]lamptypes.Actor
}

func newDirectory() *directory {
	return &directory{actors: map[string]lamptypes.Actor{}}
}

func (d *directory) register(a lamptypes.Actor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actors[a.ID()] = a
}

func (d *directory) lookup(name string) (lamptypes.Actor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.actors[name]
	return a, ok
}
