package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchWindows(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}, {4, 5}}, batchWindows(5, 2))
	assert.Equal(t, [][2]int{{0, 3}}, batchWindows(3, 5))
	assert.Nil(t, batchWindows(0, 2))

	// zero falls back to the default window
	assert.Equal(t, [][2]int{{0, 2}, {2, 3}}, batchWindows(3, 0))
}
