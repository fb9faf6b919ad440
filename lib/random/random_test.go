package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		assert.Len(t, String(n), n)
	}
}

func TestStringAlphanumeric(t *testing.T) {
	s := String(1024)
	for _, r := range s {
		valid := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, valid, "unexpected rune %q", r)
	}
}

func TestStringDiffers(t *testing.T) {
	assert.NotEqual(t, String(32), String(32))
}
