package world

import (
	"sync"
)

// Command is a deferred world mutation.
type Command struct {
	Name  string
	Apply func(w *World) error
}

type commandBuffer struct {
	mu       sync.Mutex
	commands []Command
}

// RawCommandQueue is a handle to a buffer of commands. Clones share the buffer, so commands pushed
// through any clone are applied by the next World.Flush.
type RawCommandQueue struct {
	buf *commandBuffer
}

func NewRawCommandQueue() RawCommandQueue {
	return RawCommandQueue{buf: &commandBuffer{}}
}

// Clone returns a handle to the same buffer.
func (q RawCommandQueue) Clone() RawCommandQueue {
	return RawCommandQueue{buf: q.buf}
}

// Push appends a command.
func (q RawCommandQueue) Push(name string, apply func(w *World) error) {
	q.buf.mu.Lock()
	defer q.buf.mu.Unlock()
	q.buf.commands = append(q.buf.commands, Command{Name: name, Apply: apply})
}

// Len returns the number of pending commands.
func (q RawCommandQueue) Len() int {
	q.buf.mu.Lock()
	defer q.buf.mu.Unlock()
	return len(q.buf.commands)
}

func (q RawCommandQueue) drain() []Command {
	q.buf.mu.Lock()
	defer q.buf.mu.Unlock()
	cmds := q.buf.commands
	q.buf.commands = nil
	return cmds
}
