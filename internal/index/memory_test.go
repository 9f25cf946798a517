package index

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(key string, expiresAt time.Time) *Entry {
	return &Entry{
		Key:          key,
		Extension:    ".pdf",
		StorageName:  key + ".pdf",
		OriginalName: "report.pdf",
		ContentType:  "application/pdf",
		SizeBytes:    512000,
		CreatedAt:    expiresAt.Add(-time.Hour),
		ExpiresAt:    expiresAt,
	}
}

func TestMemory_PutGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put(ctx, sampleEntry("k1", now)))
	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "k1.pdf", got.StorageName)
	assert.Equal(t, 1, m.Len())

	// returned entries are copies
	got.Extension = ".exe"
	again, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", again.Extension)

	require.NoError(t, m.Delete(ctx, "k1"))
	require.NoError(t, m.Delete(ctx, "k1"))
	_, err = m.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Expired(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, m.Put(ctx, sampleEntry("late", now.Add(-time.Minute))))
	require.NoError(t, m.Put(ctx, sampleEntry("early", now.Add(-time.Hour))))
	require.NoError(t, m.Put(ctx, sampleEntry("exact", now)))
	require.NoError(t, m.Put(ctx, sampleEntry("fresh", now.Add(time.Minute))))
	require.NoError(t, m.Put(ctx, &Entry{Key: "forever", StorageName: "forever"}))

	expired, err := m.Expired(ctx, now)
	require.NoError(t, err)
	var keys []string
	for _, e := range expired {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"early", "late", "exact"}, keys)
}

func TestEntry_Expired(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, sampleEntry("a", now).Expired(now))
	assert.True(t, sampleEntry("a", now.Add(-time.Second)).Expired(now))
	assert.False(t, sampleEntry("a", now.Add(time.Second)).Expired(now))
	assert.False(t, (&Entry{}).Expired(now))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			assert.NoError(t, m.Put(ctx, sampleEntry(key, now)))
			_, err := m.Get(ctx, key)
			assert.NoError(t, err)
			_, _ = m.Expired(ctx, now)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
