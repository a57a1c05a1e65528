package symgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIsUniqueAndMonotonic(t *testing.T) {
	g := New()
	assert.Equal(t, "0", g.Next())
	assert.Equal(t, "1", g.Next())
	assert.Equal(t, "2", g.Next())
}

func TestResetRewindsCounter(t *testing.T) {
	g := New()
	g.Next()
	g.Next()
	g.Reset()
	assert.Equal(t, "0", g.Next())
}
