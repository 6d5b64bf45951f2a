package workspace

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/app/pages"
)

type clock struct{ now atomic.Int64 }

func (c *clock) Now() time.Time { return time.Unix(0, c.now.Load()) }
func (c *clock) Advance(d time.Duration) { c.now.Add(int64(d)) }

func newTestRegistry(t *testing.T, size int, clk *clock) *Registry {
	t.Helper()
	reg, err := NewRegistry(size, func(id string) (*pages.Workspace, error) {
		return pages.NewWorkspace(id, pages.WorkspaceConfig{
			Client: client.Options{BaseURL: "http://upstream.invalid"},
			Now:    clk.Now,
			Log:    zerolog.Nop(),
		})
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func TestResolveCreatesOnceAndReuses(t *testing.T) {
	reg := newTestRegistry(t, 4, &clock{})

	ws, created, err := reg.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, ws.ID)

	again, created, err := reg.Resolve(ws.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, ws, again)

	other, created, err := reg.Resolve("forged-id")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "forged-id", other.ID)
	assert.Equal(t, 2, reg.Len())
}

func TestEvictionClosesWorkspace(t *testing.T) {
	reg := newTestRegistry(t, 2, &clock{})

	first, _, err := reg.Resolve("")
	require.NoError(t, err)
	_, _, err = reg.Resolve("")
	require.NoError(t, err)
	_, _, err = reg.Resolve("")
	require.NoError(t, err)

	assert.True(t, first.Closed())
	_, ok := reg.Get(first.ID)
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len())
}

func TestSweepClosesIdleWorkspaces(t *testing.T) {
	clk := &clock{}
	clk.now.Store(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC).UnixNano())
	reg := newTestRegistry(t, 8, clk)

	idle, _, err := reg.Resolve("")
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)
	busy, _, err := reg.Resolve("")
	require.NoError(t, err)
	clk.Advance(15 * time.Minute)

	removed := reg.Sweep(clk.Now(), 30*time.Minute)
	assert.Equal(t, 1, removed)
	assert.True(t, idle.Closed())
	assert.False(t, busy.Closed())
}

func TestRemoveAndClose(t *testing.T) {
	reg := newTestRegistry(t, 4, &clock{})
	a, _, _ := reg.Resolve("")
	b, _, _ := reg.Resolve("")

	reg.Remove(a.ID)
	assert.True(t, a.Closed())
	assert.False(t, b.Closed())

	reg.Close()
	assert.True(t, b.Closed())
	assert.Zero(t, reg.Len())
}
