package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"carecircle/internal/ports/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	stores := map[string]blob.Store{
		"memory":     NewMemory(),
		"filesystem": fs,
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := s.Put(ctx, "rec-1/doc-1", strings.NewReader("hello care circle"))
			require.NoError(t, err)
			assert.Equal(t, int64(17), n)

			rc, err := s.Open(ctx, "rec-1/doc-1")
			require.NoError(t, err)
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "hello care circle", string(b))

			require.NoError(t, s.Delete(ctx, "rec-1/doc-1"))
			_, err = s.Open(ctx, "rec-1/doc-1")
			assert.ErrorIs(t, err, blob.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "rec-1/doc-1"), blob.ErrNotFound)
		})
	}
}

func TestFilesystem_RejectsEscapingKeys(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "/abs/path", "."} {
		_, err := fs.Put(context.Background(), key, strings.NewReader("x"))
		assert.ErrorIs(t, err, errBadKey, key)
	}
}
