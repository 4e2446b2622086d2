// Package input tracks keyboard state delivered by window callbacks.
package input

import "sync"

// KeyState is the read-only view of a keyboard consumed by camera drivers.
type KeyState interface {
	// Pressed reports whether the key is currently held down.
	//
	// Parameters:
	//   - key: a key code (see the common.Key* constants)
	//
	// Returns:
	//   - bool: true while the key is held
	Pressed(key uint32) bool
}

// Keyboard records which keys are held. Window callbacks write it and camera
// drivers read it through KeyState.
type Keyboard struct {
	mu   sync.Mutex
	down map[uint32]struct{}
}

var _ KeyState = &Keyboard{}

// NewKeyboard creates a Keyboard with no keys held.
//
// Returns:
//   - *Keyboard: the new keyboard state
func NewKeyboard() *Keyboard {
	return &Keyboard{down: make(map[uint32]struct{})}
}

// Press marks key as held.
func (k *Keyboard) Press(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down[key] = struct{}{}
}

// Release marks key as no longer held.
func (k *Keyboard) Release(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.down, key)
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.down)
}

func (k *Keyboard) Pressed(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.down[key]
	return ok
}
