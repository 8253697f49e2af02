package editor

import "tableflip.dev/modelnav/pkg/node"

// UpdateFunc receives a committed (key, payload) pair.
type UpdateFunc func(key node.Key, payload node.Payload)

// Emitter forwards saved payloads to the owner of the model. It does not
// queue, retry or transform anything.
type Emitter struct {
	fn UpdateFunc
}

// NewEmitter wraps fn. A nil fn drops every update.
func NewEmitter(fn UpdateFunc) *Emitter {
	return &Emitter{fn: fn}
}

// Emit forwards one update.
func (e *Emitter) Emit(key node.Key, payload node.Payload) {
	if e == nil || e.fn == nil {
		return
	}
	e.fn(key, payload)
}
