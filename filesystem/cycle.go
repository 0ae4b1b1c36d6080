package filesystem

import (
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
	"github.com/google/uuid"
)

// cycleDetector tracks the links currently being resolved. A link entered
// twice before it is left closes a cycle. Instances live for one call.
type cycleDetector struct {
	active map[uuid.UUID]vpath.Path
}

func newCycleDetector() *cycleDetector {
	return &cycleDetector{active: make(map[uuid.UUID]vpath.Path)}
}

func (c *cycleDetector) enter(link *SymbolicLink, at vpath.Path) error {
	if first, ok := c.active[link.ID()]; ok {
		return errors.New(errors.ErrCircularReference, "circular symbolic link").
			WithPath(at.String()).
			WithDetail("first", first.String())
	}
	c.active[link.ID()] = at
	return nil
}

func (c *cycleDetector) leave(link *SymbolicLink) {
	delete(c.active, link.ID())
}
