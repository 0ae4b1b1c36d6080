package filesystem

import (
	"testing"

	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Parallel()

	t.Run("TakesPathName", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		n, err := fs.Add("/x", NewItem("ignored", 1), false)
		require.NoError(t, err)
		assert.Equal(t, "x", n.Name())
		assert.True(t, n.IsOwned())
	})

	t.Run("AttachedNodeIsCloned", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a/", "/a/f")

		a, err := fs.GetNode("/a", false)
		require.NoError(t, err)
		b, err := fs.Add("/b", a, false)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
		assert.NotEqual(t, a.ID(), b.ID())
		assert.Equal(t, 1, payloadAt(t, fs, "/b/f"))
		assert.Equal(t, 1, payloadAt(t, fs, "/a/f"))
	})

	t.Run("SubtreeLinksRegistered", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		d := NewDirectory("d")
		require.NoError(t, d.Add(NewSymbolicLink("up", vpath.Parse(".."))))
		require.NoError(t, d.Add(NewItem("f", 3)))

		_, err := fs.Add("/d", d, false)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"/": {"/d/up"}}, fs.LinkIndex())
		assert.Equal(t, 3, payloadAt(t, fs, "/d/up/d/f"))
	})

	t.Run("Overwrite", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/item", "/dir/", "/link -> /dir")

		_, err := fs.AddItem("/item", 5, false)
		assertCode(t, err, errors.ErrAlreadyExists)

		_, err = fs.AddDirectory("/dir", false)
		assertCode(t, err, errors.ErrAlreadyExists)

		_, err = fs.AddItem("/dir", 5, true)
		assertCode(t, err, errors.ErrWrongKind)

		_, err = fs.Add("/item", NewDirectory(""), true)
		require.NoError(t, err, "items are always replaceable")
		assert.True(t, fs.DirectoryExists("/item", false))

		_, err = fs.AddSymbolicLink("/link", "/item", true)
		require.NoError(t, err)
		assert.True(t, fs.DirectoryExists("/link", true))
	})

	t.Run("ThroughLinkedParent", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/real/", "/link -> /real")

		_, err := fs.AddItem("/link/f", 9, false)
		require.NoError(t, err)
		assert.Equal(t, 9, payloadAt(t, fs, "/real/f"))
	})

	t.Run("ParentIsItem", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/f")

		_, err := fs.AddItem("/f/x", 1, false)
		assertCode(t, err, errors.ErrWrongKind)
	})

	t.Run("Root", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		_, err := fs.AddDirectory("/", false)
		assertCode(t, err, errors.ErrIllegalStructuralEdit)
	})
}

func TestAddDirectory_CreateSubdirectories(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	_, err := fs.AddDirectory("/a/b/c", false)
	assertCode(t, err, errors.ErrNotFound)

	c, err := fs.AddDirectory("/a/b/c", true)
	require.NoError(t, err)
	assert.True(t, fs.DirectoryExists("/a/b", false))

	again, err := fs.AddDirectory("/a/b/c", true)
	require.NoError(t, err)
	assert.Same(t, c, again)

	_, err = fs.AddItem("/a/f", 1, false)
	require.NoError(t, err)
	_, err = fs.AddDirectory("/a/f/g", true)
	assertCode(t, err, errors.ErrWrongKind)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("Item", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/f", "/l -> /f")

		require.NoError(t, fs.Update("/f", NewItem("", 9)))
		assert.Equal(t, 9, payloadAt(t, fs, "/f"))

		require.NoError(t, fs.Update("/l", NewItem("", 10)), "a link is updated through")
		assert.Equal(t, 10, payloadAt(t, fs, "/f"))

		err := fs.Update("/f", NewItem("", "text"))
		assertCode(t, err, errors.ErrWrongKind)
	})

	t.Run("DirectoryMerge", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/d/", "/d/a", "/d/keep")

		src := NewDirectory("ignored")
		require.NoError(t, src.Add(NewItem("a", 5)))
		require.NoError(t, src.Add(NewItem("b", 6)))
		require.NoError(t, src.Add(NewDirectory("s")))

		require.NoError(t, fs.Update("/d", src))
		assert.Equal(t, 5, payloadAt(t, fs, "/d/a"))
		assert.Equal(t, 6, payloadAt(t, fs, "/d/b"))
		assert.Equal(t, 2, payloadAt(t, fs, "/d/keep"))
		assert.True(t, fs.DirectoryExists("/d/s", false))
	})

	t.Run("DirectoryMergeClonesChildren", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/d/")

		src := NewDirectory("src")
		require.NoError(t, src.Add(NewItem("x", 1)))
		require.NoError(t, fs.Update("/d", src))
		_, err := fs.Add("/e", src, false)
		require.NoError(t, err)

		merged, err := fs.GetItem("/d/x", false)
		require.NoError(t, err)
		added, err := fs.GetItem("/e/x", false)
		require.NoError(t, err)
		assert.NotSame(t, merged, added)
		assert.NotEqual(t, merged.ID(), added.ID())

		added.SetPayload(99)
		assert.Equal(t, 1, payloadAt(t, fs, "/d/x"))
	})

	t.Run("Link", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/a", "/b", "/l -> /a")

		require.NoError(t, fs.Update("/l", NewSymbolicLink("", vpath.Parse("/b"))))
		assert.Equal(t, 1, payloadAt(t, fs, "/l"))
		assert.Equal(t, map[string][]string{"/b": {"/l"}}, fs.LinkIndex())
	})

	t.Run("WrongKind", func(t *testing.T) {
		t.Parallel()
		fs := newTestStorage(t)
		build(t, fs, "/d/", "/f")

		assertCode(t, fs.Update("/d", NewItem("", 1)), errors.ErrWrongKind)
		assertCode(t, fs.Update("/f", NewDirectory("")), errors.ErrWrongKind)
		assertCode(t, fs.Update("/nope", NewItem("", 1)), errors.ErrNotFound)
	})
}

func TestSetNode(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)

	require.NoError(t, fs.SetNode("/n/m/o", NewItem("", 3)))
	assert.Equal(t, 3, payloadAt(t, fs, "/n/m/o"))

	require.NoError(t, fs.SetNode("/n/m/o", NewItem("", 4)))
	assert.Equal(t, 4, payloadAt(t, fs, "/n/m/o"))

	require.NoError(t, fs.SetNode("/n/m/o", NewDirectory("")))
	assert.True(t, fs.DirectoryExists("/n/m/o", false))

	root := NewDirectory("")
	require.NoError(t, root.Add(NewItem("top", 1)))
	require.NoError(t, fs.SetNode("/", root))
	assert.Equal(t, 1, payloadAt(t, fs, "/top"))
	assert.True(t, fs.DirectoryExists("/n", false))

	assertCode(t, fs.SetNode("/", NewItem("", 1)), errors.ErrIllegalStructuralEdit)
}
