package executor

import "sync"

// FlipBridge is a single-slot signal channel that lets a mounted ticket screen
// react to a flip request, even when the user is already on that screen.
type FlipBridge struct {
	mu      sync.Mutex
	current *flipRegistration
}

type flipRegistration struct {
	fn func()
}

// NewFlipBridge returns an empty bridge.
func NewFlipBridge() *FlipBridge {
	return &FlipBridge{}
}

// Register installs fn, replacing any previous handler. The returned func
// clears the slot only while this registration is still the installed one.
func (b *FlipBridge) Register(fn func()) (unregister func()) {
	reg := &flipRegistration{fn: fn}
	b.mu.Lock()
	b.current = reg
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.current == reg {
			b.current = nil
		}
	}
}

// Installed reports whether a handler is registered.
func (b *FlipBridge) Installed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// Trigger calls the installed handler and reports whether there was one.
// The handler runs outside the lock.
func (b *FlipBridge) Trigger() bool {
	b.mu.Lock()
	reg := b.current
	b.mu.Unlock()
	if reg == nil || reg.fn == nil {
		return false
	}
	reg.fn()
	return true
}
