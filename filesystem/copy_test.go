package filesystem

import (
	"testing"

	"github.com/brettbedarf/vtree/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy_Recursive(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/", "/a/f", "/a/sub/", "/a/sub/g")

	copied, err := fs.Copy("/a", "/b", false, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/b/sub", "/b/sub/g", "/b/f"}, copied)

	src, err := fs.GetItem("/a/f", false)
	require.NoError(t, err)
	dst, err := fs.GetItem("/b/f", false)
	require.NoError(t, err)
	assert.NotSame(t, src, dst)
	assert.NotEqual(t, src.ID(), dst.ID())

	dst.SetPayload(99)
	assert.Equal(t, 1, payloadAt(t, fs, "/a/f"))
	assert.Equal(t, 99, payloadAt(t, fs, "/b/f"))
}

func TestCopy_NonRecursive(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/", "/a/f")

	copied, err := fs.Copy("/a", "/b", false, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b"}, copied)
	dir, err := fs.GetDirectory("/b", false)
	require.NoError(t, err)
	assert.Equal(t, 0, dir.Len())
}

func TestCopy_Destinations(t *testing.T) {
	t.Parallel()

	t.Run("IntoDirectory", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a/", "/a/f", "/t/")

		copied, err := fs.Copy("/a/f", "/t", false, false, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"/t/f"}, copied)
	})

	t.Run("ThroughLink", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a/", "/a/f", "/t/", "/tl -> /t")

		copied, err := fs.Copy("/a/f", "/tl", false, false, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"/t/f"}, copied)
		assert.True(t, fs.SymbolicLinkExists("/tl", false))
	})

	t.Run("DanglingLink", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/f", "/dl -> /nowhere")

		copied, err := fs.Copy("/f", "/dl", false, false, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"/nowhere"}, copied)
		assert.Equal(t, 0, payloadAt(t, fs, "/dl"))
	})

	t.Run("MergeIntoExistingDirectory", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a/", "/a/f", "/t/a/", "/t/a/old")

		_, err := fs.Copy("/a", "/t", false, true, false)
		require.NoError(t, err)
		assert.True(t, fs.ItemExists("/t/a/old", false))
		assert.Equal(t, 1, payloadAt(t, fs, "/t/a/f"))
	})

	t.Run("Overwrite", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/x", "/y")

		_, err := fs.Copy("/x", "/y", false, false, false)
		assertCode(t, err, errors.ErrAlreadyExists)
		assert.Equal(t, 1, payloadAt(t, fs, "/y"))

		_, err = fs.Copy("/x", "/y", true, false, false)
		require.NoError(t, err)
		assert.Equal(t, 0, payloadAt(t, fs, "/y"))
	})

	t.Run("MissingParent", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/x")

		_, err := fs.Copy("/x", "/no/y", false, false, false)
		assertCode(t, err, errors.ErrNotFound)
	})
}

func TestCopy_Links(t *testing.T) {
	t.Parallel()

	t.Run("RegistersClones", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a/", "/a/f", "/a/l -> /a/f")

		_, err := fs.Copy("/a", "/b", false, true, false)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"/a/f": {"/a/l", "/b/l"}}, fs.LinkIndex())
		assert.True(t, fs.SymbolicLinkExists("/b/l", false))
	})

	t.Run("FollowLinks", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/x/", "/x/y", "/a/", "/a/l -> /x")

		_, err := fs.Copy("/a", "/b", false, true, true)
		require.NoError(t, err)
		assert.True(t, fs.DirectoryExists("/b/l", false))
		assert.Equal(t, 1, payloadAt(t, fs, "/b/l/y"))
		assert.Equal(t, map[string][]string{"/x": {"/a/l"}}, fs.LinkIndex())
	})

	t.Run("Cycle", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/d/", "/d/up -> /d")

		_, err := fs.Copy("/d", "/e", false, true, true)
		assertCode(t, err, errors.ErrCircularReference)
		assert.False(t, fs.NodeExists("/e", false), "nothing is written when the walk fails")
	})
}

func TestCopy_Errors(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/", "/a/sub/", "/a/f", "/a/a/")

	tests := []struct {
		name      string
		src, dst  string
		recursive bool
		wantCode  errors.ErrorCode
	}{
		{"Root", "/", "/b", true, errors.ErrIllegalStructuralEdit},
		{"Same", "/a/f", "/a/f", false, errors.ErrInvalidArgument},
		{"IntoOwnSubtree", "/a", "/a/sub", true, errors.ErrIllegalStructuralEdit},
		{"IntoOwnParent", "/a/sub", "/a", true, errors.ErrIllegalStructuralEdit},
		{"OverOwnAncestor", "/a/a", "/", true, errors.ErrIllegalStructuralEdit},
		{"MissingSource", "/nope", "/b", false, errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := fs.Copy(tt.src, tt.dst, false, tt.recursive, false)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestCopy_IntoAncestor(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/", "/a/x/", "/a/x/f")

	copied, err := fs.Copy("/a/x", "/", false, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/x", "/x/f"}, copied)
	assert.Equal(t, 2, payloadAt(t, fs, "/x/f"))
	assert.Equal(t, 2, payloadAt(t, fs, "/a/x/f"))
}
