package filesystem

import "github.com/brettbedarf/vtree/vpath"

// NodeContext describes a node reached by a traversal or a walk.
//
// A context whose Node is nil stands for a missing entry; it is only handed
// out when the caller asked not to fail on missing segments.
type NodeContext struct {
	Node Node
	// TraversalPath is the path as requested. Walk contexts hold it relative
	// to the walk base.
	TraversalPath vpath.Path
	// Parent is the directory physically holding Node.
	Parent *Directory
	Depth  int
	// Index is the position within the parent's view during a walk.
	Index int
	// ResolvedPath is the physical absolute path after following links.
	ResolvedPath vpath.Path
	// Resolved is set when any link was followed on the way.
	Resolved bool
	// ResolvedLink is the link that was substituted by its target when the
	// final segment itself was a followed link.
	ResolvedLink *SymbolicLink

	// throughLink marks walk contexts found below a followed link.
	throughLink bool
}

// Found reports whether the context points at a node.
func (c *NodeContext) Found() bool {
	return c != nil && c.Node != nil
}

// Type is the kind of Node, or NodeTypeNone for a missing entry.
func (c *NodeContext) Type() NodeType {
	if !c.Found() {
		return NodeTypeNone
	}
	return c.Node.Type()
}
