package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylens/querylens/pkg/datasource"
)

func testHandle(identity string) *datasource.Handle {
	return datasource.NewHandle(identity, datasource.DriverSQLite, nil, nil, nil, nil)
}

func TestCreateAndGet(t *testing.T) {
	reg := NewRegistry()

	s := reg.Create(testHandle("sqlite:///a.db"))
	require.NotEmpty(t, s.ID)
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)

	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, "sqlite:///a.db", got.Handle.Identity)
}

func TestGetUnknown(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Get(uuid.NewString())
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	reg := NewRegistry()
	s := reg.Create(testHandle("sqlite:///a.db"))

	removed, ok := reg.Remove(s.ID)
	require.True(t, ok)
	assert.Same(t, s, removed)

	_, ok = reg.Get(s.ID)
	assert.False(t, ok)

	_, ok = reg.Remove(s.ID)
	assert.False(t, ok)
}

func TestSessionsAreIndependent(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create(testHandle("sqlite:///a.db"))
	b := reg.Create(testHandle("sqlite:///b.db"))

	assert.NotEqual(t, a.ID, b.ID)

	reg.Remove(a.ID)
	_, ok := reg.Get(b.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := reg.Create(testHandle("sqlite:///a.db"))
			_, ok := reg.Get(s.ID)
			assert.True(t, ok)
			reg.Remove(s.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, reg.Len())
}
