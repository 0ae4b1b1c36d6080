// Package manifest loads declarative namespace definitions and applies them
// to a [filesystem.Storage].
//
// A manifest is a YAML (or JSON) document listing entries in the order they
// are created:
//
//	entries:
//	  - type: dir
//	    path: /etc/app
//	  - type: item
//	    path: /etc/app/config
//	    value: "debug=true"
//	  - type: symlink
//	    path: /current
//	    target: etc/app
package manifest

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/filesystem"
	"github.com/brettbedarf/vtree/internal/util"
)

// Entry types accepted in [EntryDTO.Type]
const (
	TypeDirectory    = "dir"
	TypeItem         = "item"
	TypeSymbolicLink = "symlink"
)

// EntryDTO is the file representation of one node definition.
type EntryDTO struct {
	Type      string  `yaml:"type" json:"type"`
	Path      string  `yaml:"path" json:"path"`
	Value     *string `yaml:"value,omitempty" json:"value,omitempty"`   // Item payload (Default "")
	Target    *string `yaml:"target,omitempty" json:"target,omitempty"` // Link target; absent creates a link without target
	Overwrite bool    `yaml:"overwrite,omitempty" json:"overwrite,omitempty"`
}

// Manifest is an ordered list of node definitions.
type Manifest struct {
	Entries []EntryDTO `yaml:"entries" json:"entries"`
}

// Parse decodes a manifest document. JSON documents are accepted as well.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Load reads and decodes the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Apply creates every entry in fs in order. Directories are created with
// their missing parents; items and links need an existing parent. A failing
// entry does not stop the others; all failures are returned together.
func (m *Manifest) Apply(fs *filesystem.Storage[string]) error {
	logger := util.GetLogger("Manifest.Apply")

	var result *multierror.Error
	failed := 0
	for i, entry := range m.Entries {
		if err := entry.apply(fs); err != nil {
			logger.Debug().Err(err).Int("entry", i).Str("path", entry.Path).Msg("Failed to apply entry")
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): %w", i, entry.Path, err))
			failed++
		}
	}
	logger.Debug().Int("entries", len(m.Entries)).Int("failed", failed).Msg("Applied manifest")
	return result.ErrorOrNil()
}

func (e EntryDTO) apply(fs *filesystem.Storage[string]) error {
	switch e.Type {
	case TypeDirectory:
		_, err := fs.AddDirectory(e.Path, true)
		return err
	case TypeItem:
		_, err := fs.AddItem(e.Path, util.ValueOr(e.Value, ""), e.Overwrite)
		return err
	case TypeSymbolicLink:
		_, err := fs.AddSymbolicLink(e.Path, util.ValueOr(e.Target, ""), e.Overwrite)
		return err
	}
	return errors.Newf(errors.ErrInvalidArgument, "unknown entry type %q", e.Type).WithPath(e.Path)
}
