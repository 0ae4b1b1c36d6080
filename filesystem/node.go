package filesystem

import (
	"io"
	"time"

	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/errors"
	"github.com/brettbedarf/vtree/vpath"
	"github.com/google/uuid"
)

// NodeType is the kind of a [Node].
type NodeType int

const (
	NodeTypeNone NodeType = iota
	NodeTypeDirectory
	NodeTypeItem
	NodeTypeSymbolicLink
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeDirectory:
		return config.KindDirectory
	case NodeTypeItem:
		return config.KindItem
	case NodeTypeSymbolicLink:
		return config.KindSymbolicLink
	default:
		return "none"
	}
}

// ParseNodeType maps a config kind name onto its NodeType.
func ParseNodeType(kind string) (NodeType, error) {
	switch kind {
	case config.KindDirectory:
		return NodeTypeDirectory, nil
	case config.KindItem:
		return NodeTypeItem, nil
	case config.KindSymbolicLink:
		return NodeTypeSymbolicLink, nil
	}
	return NodeTypeNone, errors.Newf(errors.ErrInvalidArgument, "unknown node kind %q", kind)
}

// NodeTypeFilter is a bit set of node kinds.
type NodeTypeFilter uint8

const (
	FilterDirectory NodeTypeFilter = 1 << iota
	FilterItem
	FilterSymbolicLink

	FilterNone NodeTypeFilter = 0
	FilterAll                 = FilterDirectory | FilterItem | FilterSymbolicLink
)

// Allows reports whether nodes of type t pass the filter.
func (f NodeTypeFilter) Allows(t NodeType) bool {
	switch t {
	case NodeTypeDirectory:
		return f&FilterDirectory != 0
	case NodeTypeItem:
		return f&FilterItem != 0
	case NodeTypeSymbolicLink:
		return f&FilterSymbolicLink != 0
	}
	return false
}

// FilterOf builds a filter accepting exactly the given types.
func FilterOf(types ...NodeType) NodeTypeFilter {
	var f NodeTypeFilter
	for _, t := range types {
		switch t {
		case NodeTypeDirectory:
			f |= FilterDirectory
		case NodeTypeItem:
			f |= FilterItem
		case NodeTypeSymbolicLink:
			f |= FilterSymbolicLink
		}
	}
	return f
}

// Node is an entry of the namespace: a [*Directory], an [*Item] or a
// [*SymbolicLink].
//
// A node is owned while it is attached to a Storage. Inserting an owned node
// somewhere else inserts a clone instead.
type Node interface {
	Name() string
	Type() NodeType
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
	IsOwned() bool

	meta() *nodeMeta
	// cloneNode returns a deep, unowned copy with a fresh identity.
	cloneNode() Node
}

type nodeMeta struct {
	name      string
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	owned     bool
}

func newMeta(name string) nodeMeta {
	now := time.Now()
	return nodeMeta{name: name, id: uuid.New(), createdAt: now, updatedAt: now}
}

func (m *nodeMeta) Name() string         { return m.name }
func (m *nodeMeta) ID() uuid.UUID        { return m.id }
func (m *nodeMeta) CreatedAt() time.Time { return m.createdAt }
func (m *nodeMeta) UpdatedAt() time.Time { return m.updatedAt }
func (m *nodeMeta) IsOwned() bool        { return m.owned }
func (m *nodeMeta) meta() *nodeMeta      { return m }

func (m *nodeMeta) touch() {
	m.updatedAt = time.Now()
}

// Directory holds named children. Names are unique within a directory and
// iteration follows insertion order.
type Directory struct {
	nodeMeta
	children map[string]Node
	order    []string
}

func NewDirectory(name string) *Directory {
	return &Directory{
		nodeMeta: newMeta(name),
		children: make(map[string]Node),
	}
}

func (d *Directory) Type() NodeType { return NodeTypeDirectory }

// Get returns the child called name.
func (d *Directory) Get(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

func (d *Directory) Has(name string) bool {
	_, ok := d.children[name]
	return ok
}

func (d *Directory) Len() int { return len(d.order) }

// Names returns the child names in insertion order.
func (d *Directory) Names() []string {
	return append([]string(nil), d.order...)
}

// Nodes returns the children in insertion order.
func (d *Directory) Nodes() []Node {
	nodes := make([]Node, 0, len(d.order))
	for _, name := range d.order {
		nodes = append(nodes, d.children[name])
	}
	return nodes
}

// Add attaches child to a directory that is not yet part of a Storage.
// Attached directories are edited through the Storage so the link registry
// stays consistent.
func (d *Directory) Add(child Node) error {
	if d.owned {
		return errors.New(errors.ErrIllegalStructuralEdit, "directory is attached; edit it through its storage").WithPath(d.name)
	}
	name := child.Name()
	if name == "" {
		return errors.New(errors.ErrInvalidArgument, "child name is empty")
	}
	if d.Has(name) {
		return errors.New(errors.ErrAlreadyExists, "child already exists").WithPath(name)
	}
	if child.IsOwned() {
		child = child.cloneNode()
	}
	d.addChild(child)
	return nil
}

func (d *Directory) addChild(child Node) {
	if _, ok := d.children[child.Name()]; !ok {
		d.order = append(d.order, child.Name())
	}
	d.children[child.Name()] = child
}

func (d *Directory) removeChild(name string) Node {
	child, ok := d.children[name]
	if !ok {
		return nil
	}
	delete(d.children, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return child
}

// renameChild renames in place, keeping the entry's position.
func (d *Directory) renameChild(oldName, newName string) {
	child, ok := d.children[oldName]
	if !ok {
		return
	}
	delete(d.children, oldName)
	child.meta().name = newName
	d.children[newName] = child
	for i, n := range d.order {
		if n == oldName {
			d.order[i] = newName
			break
		}
	}
}

func (d *Directory) cloneNode() Node {
	c := d.cloneEmpty()
	for _, child := range d.Nodes() {
		c.addChild(child.cloneNode())
	}
	return c
}

func (d *Directory) cloneEmpty() *Directory {
	return NewDirectory(d.name)
}

// Cloner is implemented by payloads that need a deep copy when their item is
// cloned.
type Cloner[T any] interface {
	Clone() T
}

// Item carries an opaque payload. A payload implementing io.Closer is closed
// when its item is removed from the tree.
type Item[T any] struct {
	nodeMeta
	payload T
}

func NewItem[T any](name string, payload T) *Item[T] {
	return &Item[T]{nodeMeta: newMeta(name), payload: payload}
}

func (i *Item[T]) Type() NodeType { return NodeTypeItem }

func (i *Item[T]) Payload() T { return i.payload }

// SetPayload replaces the payload and bumps the modification time.
func (i *Item[T]) SetPayload(payload T) {
	i.payload = payload
	i.touch()
}

func (i *Item[T]) cloneNode() Node {
	c := NewItem(i.name, i.payload)
	if cl, ok := any(i.payload).(Cloner[T]); ok {
		c.payload = cl.Clone()
	}
	return c
}

// assign copies the payload of other, which must be an item of the same T.
func (i *Item[T]) assign(other Node) error {
	o, ok := other.(*Item[T])
	if !ok {
		return errors.New(errors.ErrWrongKind, "payload type mismatch").WithPath(i.name)
	}
	i.SetPayload(o.payload)
	return nil
}

func (i *Item[T]) dispose() error {
	if c, ok := any(i.payload).(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type disposer interface {
	dispose() error
}

type assigner interface {
	assign(other Node) error
}

// SymbolicLink points at another path. The target is stored as given,
// absolute or relative to the directory holding the link.
type SymbolicLink struct {
	nodeMeta
	target     vpath.Path
	hasTarget  bool
	targetType NodeType
}

// NewSymbolicLink creates a link to target. An empty relative target leaves
// the link without a target.
func NewSymbolicLink(name string, target vpath.Path) *SymbolicLink {
	return &SymbolicLink{
		nodeMeta:  newMeta(name),
		target:    target,
		hasTarget: !target.IsEmpty(),
	}
}

func (l *SymbolicLink) Type() NodeType { return NodeTypeSymbolicLink }

// Target returns the stored target and whether there is one.
func (l *SymbolicLink) Target() (vpath.Path, bool) {
	return l.target, l.hasTarget
}

func (l *SymbolicLink) HasTarget() bool { return l.hasTarget }

// TargetType is the cached kind of the node the target resolves to, or
// NodeTypeNone while the link dangles.
func (l *SymbolicLink) TargetType() NodeType { return l.targetType }

func (l *SymbolicLink) setTarget(target vpath.Path) {
	l.target = target
	l.hasTarget = !target.IsEmpty()
	l.touch()
}

func (l *SymbolicLink) cloneNode() Node {
	c := NewSymbolicLink(l.name, l.target)
	c.targetType = l.targetType
	return c
}

// shallowClone copies a node without children.
func shallowClone(n Node) Node {
	if d, ok := n.(*Directory); ok {
		return d.cloneEmpty()
	}
	return n.cloneNode()
}

func setOwned(n Node, owned bool) {
	n.meta().owned = owned
	if d, ok := n.(*Directory); ok {
		for _, child := range d.children {
			setOwned(child, owned)
		}
	}
}

// forEachLink visits every link in the subtree rooted at n, which lives at p.
// Links are not followed.
func forEachLink(n Node, p vpath.Path, fn func(link *SymbolicLink, at vpath.Path)) {
	switch nd := n.(type) {
	case *SymbolicLink:
		fn(nd, p)
	case *Directory:
		for _, child := range nd.Nodes() {
			forEachLink(child, p.Join(child.Name()), fn)
		}
	}
}

// disposeSubtree closes disposable payloads below and including n and
// returns the errors it met.
func disposeSubtree(n Node) []error {
	var errs []error
	switch nd := n.(type) {
	case *Directory:
		for _, child := range nd.Nodes() {
			errs = append(errs, disposeSubtree(child)...)
		}
	case disposer:
		if err := nd.dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// resolvedType is the kind used to group a node in a directory view. A link
// groups with its target when the target is known.
func resolvedType(n Node) NodeType {
	if l, ok := n.(*SymbolicLink); ok && l.targetType != NodeTypeNone {
		return l.targetType
	}
	return n.Type()
}
