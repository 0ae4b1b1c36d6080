// Package vtree is an in-memory hierarchical namespace of directories,
// items carrying typed payloads, and symbolic links.
//
// The namespace lives in [filesystem.Storage]. Paths use a configurable
// syntax (see [config.Config]) and are resolved against a current directory.
// Symbolic links are followed on the way to a node, cycles among them are
// detected, and every link is tracked so that moving or renaming its target
// keeps the link pointing at it.
//
//	fs, err := vtree.New[string](nil)
//	if err != nil {
//		return err
//	}
//	_, _ = fs.AddDirectory("/etc/app", true)
//	_, _ = fs.AddItem("/etc/app/config", "debug=true", false)
//	_, _ = fs.AddSymbolicLink("/current", "etc/app", false)
//	item, err := fs.GetItem("/current/config", true)
package vtree

import (
	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/filesystem"
)

// New creates an empty namespace whose items carry payloads of type T.
// A nil cfg uses [config.NewDefaultConfig].
func New[T any](cfg *config.Config) (*filesystem.Storage[T], error) {
	return filesystem.NewStorage[T](cfg)
}
