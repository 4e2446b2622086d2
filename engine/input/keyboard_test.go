package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardPressRelease(t *testing.T) {
	k := NewKeyboard()
	assert.False(t, k.Pressed(87))

	k.Press(87)
	k.Press(65)
	assert.True(t, k.Pressed(87))
	assert.True(t, k.Pressed(65))

	k.Release(87)
	assert.False(t, k.Pressed(87))
	assert.True(t, k.Pressed(65))

	k.Release(87) // releasing an unheld key is harmless
	assert.False(t, k.Pressed(87))
}

func TestKeyboardReset(t *testing.T) {
	k := NewKeyboard()
	k.Press(1)
	k.Press(2)
	k.Reset()
	assert.False(t, k.Pressed(1))
	assert.False(t, k.Pressed(2))
}
