package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 讓測試可以手動推進時間
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	data, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, data)

	original := map[string]string{"user_id": "u1"}
	require.NoError(t, store.Save(ctx, "s1", original))

	// 呼叫端修改自己的 map 不應影響已保存的資料
	original["user_id"] = "changed"
	data, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"user_id": "u1"}, data)

	data["flash"] = "x"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, again, "flash")

	require.NoError(t, store.Save(ctx, "s1", map[string]string{}))
	data, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()

	t.Run("過期的 session 讀取為空", func(t *testing.T) {
		clock := newFakeClock()
		store := NewMemoryStore(time.Minute, WithMemoryStoreClock(clock.Now))
		require.NoError(t, store.Save(ctx, "s1", map[string]string{"user_id": "alice"}))

		clock.Advance(59 * time.Second)
		data, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "alice", data["user_id"])

		clock.Advance(time.Second)
		data, err = store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, data)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("保存會延長存活時間", func(t *testing.T) {
		clock := newFakeClock()
		store := NewMemoryStore(time.Minute, WithMemoryStoreClock(clock.Now))
		require.NoError(t, store.Save(ctx, "s1", map[string]string{"user_id": "alice"}))

		clock.Advance(50 * time.Second)
		require.NoError(t, store.Save(ctx, "s1", map[string]string{"user_id": "alice"}))
		clock.Advance(50 * time.Second)

		data, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "alice", data["user_id"])
	})

	t.Run("保存時清除從未再讀取的過期 session", func(t *testing.T) {
		clock := newFakeClock()
		store := NewMemoryStore(time.Minute, WithMemoryStoreClock(clock.Now))
		for i := 0; i < 1000; i++ {
			require.NoError(t, store.Save(ctx, fmt.Sprintf("anon-%d", i), map[string]string{"flash_message": "x"}))
		}
		require.Equal(t, 1000, store.Len())

		clock.Advance(time.Minute)
		require.NoError(t, store.Save(ctx, "fresh", map[string]string{"user_id": "bob"}))
		assert.Equal(t, 1, store.Len())
	})
}
