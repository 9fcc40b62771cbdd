package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	ctx := NewContext()

	assert.NotEqual(t, uuid.Nil, ctx.RunID())
	assert.False(t, ctx.Started().IsZero())
	assert.Equal(t, Geometry{}, ctx.Geometry())
}

func TestContext_SetGeometry(t *testing.T) {
	ctx := NewContext()
	ctx.SetGeometry(640, 480)

	g := ctx.Geometry()
	assert.Equal(t, 640, g.Width)
	assert.Equal(t, 480, g.Height)
}
