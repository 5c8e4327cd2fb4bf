package intutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, -5, Min(-5))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.Equal(t, -5, Max(-5))
}

func TestMod(t *testing.T) {
	assert.Equal(t, 2, Mod(7, 5))
	assert.Equal(t, 0, Mod(10, 5))
	assert.Equal(t, 3, Mod(-2, 5))
	assert.Equal(t, 0, Mod(-5, 5))
	assert.Equal(t, 4, Mod(-1, 5))
}

func TestRange(t *testing.T) {
	assert.Equal(t, []int{2, 3, 4}, Range(2, 5))
	assert.Equal(t, []int{}, Range(3, 3))
	assert.Equal(t, []int{}, Range(5, 2))
}
