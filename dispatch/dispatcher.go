// Package dispatch provides a central registry and dispatcher for protocol-based
// requests handled by the pigeist daemon.
package dispatch

import (
	"sort"
	"sync"

	"github.com/mfulz/pigeist/protocol"
)

// HandlerFunc defines the signature of a request handler.
type HandlerFunc func(req *protocol.Request) *protocol.Response

// Dispatcher maps request types to their handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// New creates a new Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a request type to a handler.
func (d *Dispatcher) Register(command string, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[command] = handler
}

// Commands returns the sorted registered request types.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for cmd := range d.handlers {
		out = append(out, cmd)
	}
	sort.Strings(out)
	return out
}

// Dispatch executes the handler for a given request.
func (d *Dispatcher) Dispatch(req *protocol.Request) *protocol.Response {
	d.mu.RLock()
	handler, ok := d.handlers[req.Type]
	d.mu.RUnlock()

	if !ok {
		return protocol.Fail(req, "unknown command")
	}

	resp := handler(req)
	if resp.ID == "" {
		resp.ID = req.ID
	}
	return resp
}
