package registry

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryRegistry_RegisterAndLookup(t *testing.T) {
	r := NewInMemoryRegistry()
	r.Register("signup", mgl64.Vec3{5, 1.5, 4})

	pos, ok := r.Position("signup")
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{5, 1.5, 4}, pos)
	assert.True(t, r.Mounted("signup"))
	assert.Equal(t, 1, r.Len())

	_, ok = r.Position("missing")
	assert.False(t, ok)
}

func TestInMemoryRegistry_UnregisterKeepsLastKnown(t *testing.T) {
	r := NewInMemoryRegistry()
	r.Register("signup", mgl64.Vec3{1, 0, 1})
	r.Update("signup", mgl64.Vec3{2, 0, 2})
	r.Unregister("signup")

	pos, ok := r.Position("signup")
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{2, 0, 2}, pos)
	assert.False(t, r.Mounted("signup"))
	assert.Equal(t, 0, r.Len())

	r.Forget("signup")
	_, ok = r.Position("signup")
	assert.False(t, ok)
}

func TestInMemoryRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	r := NewInMemoryRegistry()
	r.Unregister("ghost")
	_, ok := r.Position("ghost")
	assert.False(t, ok)
}

func TestInMemoryRegistry_ConcurrentAccess(t *testing.T) {
	r := NewInMemoryRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Update("t", mgl64.Vec3{float64(i), 0, 0})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.Position("t")
		}()
	}
	wg.Wait()
	_, ok := r.Position("t")
	assert.True(t, ok)
}
