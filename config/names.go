package config

import (
	"slices"
	"strings"

	"github.com/brettbedarf/vtree/errors"
)

// ValidateName checks name against the node naming rules: non-empty, no
// separator, no blacklisted substring and not a reserved name.
func (c *Config) ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidArgument, "node name is empty")
	}
	if strings.Contains(name, c.Separator) {
		return errors.Newf(errors.ErrInvalidArgument, "node name %q contains the separator %q", name, c.Separator)
	}
	if name == c.CurrentDir || name == c.ParentDir || slices.Contains(c.ReservedNames, name) {
		return errors.Newf(errors.ErrInvalidArgument, "node name %q is reserved", name)
	}
	for _, bad := range c.InvalidChars {
		if bad != "" && strings.Contains(name, bad) {
			return errors.Newf(errors.ErrInvalidArgument, "node name %q contains invalid character %q", name, bad)
		}
	}
	return nil
}
