package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_EndToEnd(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocal(base)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ls.Put(ctx, "k1.txt", bytes.NewBufferString("hello"), 5, "text/plain"))

	_, err = os.Stat(filepath.Join(base, "k1.txt"))
	require.NoError(t, err)

	obj, err := ls.Open(ctx, "k1.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.NoError(t, obj.Close())
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int64(5), obj.Info().Size)
	assert.Equal(t, "k1.txt", obj.Info().Name)
	_, seekable := obj.(io.Seeker)
	assert.True(t, seekable)

	objects, err := ls.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1.txt"}, Names(objects))

	require.NoError(t, ls.Delete(ctx, "k1.txt"))
	_, err = ls.Open(ctx, "k1.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, ls.Delete(ctx, "k1.txt"), ErrObjectNotFound)
}

func TestLocal_ListSkipsStagingAndDirectories(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocal(base)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(base, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, partialDir, "x.tmp"), []byte("x"), 0o644))

	objects, err := ls.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}

type failingReader struct{ n int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.n > 0 {
		f.n--
		p[0] = 'x'
		return 1, nil
	}
	return 0, errors.New("connection reset")
}

func TestLocal_PutFailureLeavesNothingVisible(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocal(base)
	require.NoError(t, err)

	err = ls.Put(context.Background(), "broken.bin", &failingReader{n: 3}, 10, "")
	require.Error(t, err)

	objects, err := ls.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)

	staged, err := os.ReadDir(filepath.Join(base, partialDir))
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestLocal_PutHonoursCancellation(t *testing.T) {
	ls, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = ls.Put(ctx, "c.txt", bytes.NewBufferString("data"), 4, "")
	require.ErrorIs(t, err, context.Canceled)

	_, err = ls.Open(context.Background(), "c.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocal_RejectsEscapingNames(t *testing.T) {
	ls, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", "..", "../etc/passwd", `a\b`, partialDir} {
		assert.Error(t, ls.Put(ctx, name, bytes.NewBufferString("x"), 1, ""), name)
		_, err := ls.Open(ctx, name)
		assert.ErrorIs(t, err, ErrObjectNotFound, name)
	}
}

func TestLocal_ListMissingDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "store")
	ls, err := NewLocal(base)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(base))

	_, err = ls.List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}
