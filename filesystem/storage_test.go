package filesystem

import (
	"testing"

	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	assert.True(t, fs.DirectoryExists("/", false))
	assert.True(t, fs.DirectoryExists("/", true))
	assert.True(t, fs.Root().IsOwned())
	assert.Equal(t, "/", fs.CurrentPath())
	assert.Equal(t, config.DefaultMatcher, fs.Config().Matcher)
}

func TestStorage_AddItemAndGet(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	_, err := fs.AddDirectory("/a", false)
	require.NoError(t, err)
	item, err := fs.AddItem("/a/b", 42, false)
	require.NoError(t, err)

	assert.Equal(t, "b", item.Name())
	assert.True(t, item.IsOwned())
	assert.True(t, fs.NodeExists("/a/b", false))
	assert.True(t, fs.ItemExists("/a/b", true))
	assert.Equal(t, 42, payloadAt(t, fs, "/a/b"))

	got, err := fs.GetNode("/a/b", false)
	require.NoError(t, err)
	assert.Same(t, item, got)

	_, err = fs.AddItem("/missing/b", 1, false)
	assertCode(t, err, errors.ErrNotFound)
}

func TestStorage_LinkResolution(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	_, err := fs.AddDirectory("/real", false)
	require.NoError(t, err)
	_, err = fs.AddItem("/real/f", 1, false)
	require.NoError(t, err)
	_, err = fs.AddSymbolicLink("/link", "/real", false)
	require.NoError(t, err)

	item, err := fs.GetItem("/link/f", true)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Payload())

	link, err := fs.GetSymbolicLink("/link")
	require.NoError(t, err)
	target, ok := link.Target()
	require.True(t, ok)
	assert.Equal(t, "/real", target.String())
	assert.Equal(t, NodeTypeDirectory, link.TargetType())

	dir, err := fs.GetDirectory("/link", true)
	require.NoError(t, err)
	real, err := fs.GetDirectory("/real", false)
	require.NoError(t, err)
	assert.Same(t, real, dir)

	_, err = fs.GetDirectory("/link", false)
	assertCode(t, err, errors.ErrWrongKind)

	resolved, err := fs.ResolvePath("/link/f")
	require.NoError(t, err)
	assert.Equal(t, "/real/f", resolved)
}

func TestStorage_Getters(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/d/", "/f", "/l -> /d", "/dangling -> /nowhere")

	tests := []struct {
		name     string
		get      func() (any, error)
		wantNil  bool
		wantCode errors.ErrorCode
	}{
		{"GetItemWrongKind", func() (any, error) { return fs.GetItem("/d", true) }, false, errors.ErrWrongKind},
		{"GetDirectoryWrongKind", func() (any, error) { return fs.GetDirectory("/f", true) }, false, errors.ErrWrongKind},
		{"GetSymbolicLinkWrongKind", func() (any, error) { return fs.GetSymbolicLink("/d") }, false, errors.ErrWrongKind},
		{"GetItemMissing", func() (any, error) { return fs.GetItem("/nope", true) }, false, errors.ErrNotFound},
		{"TryGetItemMissing", func() (any, error) { return fs.TryGetItem("/nope", true) }, true, ""},
		{"TryGetDirectoryMissing", func() (any, error) { return fs.TryGetDirectory("/nope", true) }, true, ""},
		{"TryGetSymbolicLinkMissing", func() (any, error) { return fs.TryGetSymbolicLink("/nope") }, true, ""},
		{"TryGetNodeMissing", func() (any, error) { return fs.TryGetNode("/nope", false) }, true, ""},
		{"TryGetDanglingFollowed", func() (any, error) { return fs.TryGetNode("/dangling", true) }, true, ""},
		{"TryGetItemWrongKind", func() (any, error) { return fs.TryGetItem("/d", true) }, false, errors.ErrWrongKind},
		{"TryGetThroughItem", func() (any, error) { return fs.TryGetItem("/f/x", true) }, false, errors.ErrTraverseItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.get()
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			}
		})
	}
}

func TestStorage_Exists(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/d/", "/d/f", "/l -> /d", "/dangling -> /nowhere")

	assert.True(t, fs.NodeExists("/dangling", false))
	assert.False(t, fs.NodeExists("/dangling", true))
	assert.True(t, fs.SymbolicLinkExists("/l", false))
	assert.False(t, fs.SymbolicLinkExists("/d", false))
	assert.False(t, fs.SymbolicLinkExists("/l", true), "a followed link is never a link")
	assert.False(t, fs.SymbolicLinkExists("/dangling", true))
	assert.True(t, fs.DirectoryExists("/l", true))
	assert.False(t, fs.DirectoryExists("/l", false))
	assert.True(t, fs.ItemExists("/l/f", false))
	assert.False(t, fs.ItemExists("/d/f/x", true))
	assert.False(t, fs.NodeExists("", true))
}

func TestStorage_CurrentDirectory(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/", "/a/f", "/l -> /a")

	require.NoError(t, fs.ChangeDirectory("/a"))
	assert.Equal(t, "/a", fs.CurrentPath())

	_, err := fs.AddItem("g", 7, false)
	require.NoError(t, err)
	assert.Equal(t, 7, payloadAt(t, fs, "/a/g"))
	assert.Equal(t, 7, payloadAt(t, fs, "./g"))
	assert.True(t, fs.NodeExists("../l", false))

	assertCode(t, fs.ChangeDirectory("f"), errors.ErrWrongKind)
	assertCode(t, fs.ChangeDirectory("/nope"), errors.ErrNotFound)
	assert.Equal(t, "/a", fs.CurrentPath())

	require.NoError(t, fs.ChangeDirectory("/l"))
	assert.Equal(t, "/l", fs.CurrentPath(), "the cursor keeps the path as given")
	assert.Equal(t, 1, payloadAt(t, fs, "f"))

	require.NoError(t, fs.ChangeDirectory(".."))
	assert.Equal(t, "/", fs.CurrentPath())
}

func TestStorage_ConvertToAbsolute(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/a/")
	require.NoError(t, fs.ChangeDirectory("/a"))

	tests := []struct {
		path, base string
		want       string
		wantCode   errors.ErrorCode
	}{
		{"x", "", "/a/x", ""},
		{"../x", "", "/x", ""},
		{"/b/./c", "", "/b/c", ""},
		{"y", "/q/r", "/q/r/y", ""},
		{"..", "/q", "/", ""},
		{"y", "rel", "", errors.ErrInvalidArgument},
		{"../..", "", "", errors.ErrInvalidArgument},
		{"", "", "", errors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.path+"@"+tt.base, func(t *testing.T) {
			t.Parallel()
			got, err := fs.ConvertToAbsolute(tt.path, tt.base)
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_GenerateName(t *testing.T) {
	t.Parallel()

	fs := newTestStorage(t)
	build(t, fs, "/item1", "/item3", "/dir1/")

	name, err := fs.GenerateName("/", NodeTypeItem)
	require.NoError(t, err)
	assert.Equal(t, "item2", name)

	name, err = fs.GenerateName("/", NodeTypeDirectory)
	require.NoError(t, err)
	assert.Equal(t, "dir2", name)

	name, err = fs.GenerateName("/dir1", NodeTypeSymbolicLink)
	require.NoError(t, err)
	assert.Equal(t, "link1", name)

	_, err = fs.GenerateName("/", NodeTypeNone)
	assertCode(t, err, errors.ErrInvalidArgument)
	_, err = fs.GenerateName("/item1", NodeTypeItem)
	assertCode(t, err, errors.ErrWrongKind)
}

func TestStorage_NameValidation(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.ReservedNames = []string{"CON"}
	cfg.InvalidChars = []string{"\x00", ":"}
	fs := newTestStorageWithConfig(t, cfg)

	for _, path := range []string{"/CON", "/a:b", "/a\x00b", "/.."} {
		_, err := fs.AddItem(path, 1, false)
		assertCode(t, err, errors.ErrInvalidArgument)
	}
	_, err := fs.AddItem("", 1, false)
	assertCode(t, err, errors.ErrInvalidArgument)

	d := NewDirectory("d")
	require.NoError(t, d.Add(NewItem("bad:name", 1)))
	_, err = fs.Add("/d", d, false)
	assertCode(t, err, errors.ErrInvalidArgument)
	assert.False(t, fs.NodeExists("/d", false))
}

func TestStorage_CustomSyntax(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.Separator = "\\"
	cfg.ParentDir = "^"
	fs := newTestStorageWithConfig(t, cfg)

	_, err := fs.AddDirectory("\\a\\b", true)
	require.NoError(t, err)
	_, err = fs.AddItem("\\a\\b\\c", 3, false)
	require.NoError(t, err)
	_, err = fs.AddSymbolicLink("\\a\\l", "b", false)
	require.NoError(t, err)

	assert.Equal(t, 3, payloadAt(t, fs, "\\a\\l\\^\\b\\c"))
	paths, err := fs.ListPaths("\\a", WalkOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"\\a", "\\a\\b", "\\a\\b\\c", "\\a\\l"}, paths)
	assert.Equal(t, map[string][]string{"\\a\\b": {"\\a\\l"}}, fs.LinkIndex())
	assert.Equal(t, "\\", fs.CurrentPath())
}
