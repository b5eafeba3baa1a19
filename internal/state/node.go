package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ErrMissingPath reports an Update against a path that does not exist on the
// filesystem. This is a caller error, not a recoverable condition.
var ErrMissingPath = errors.New("path does not exist")

// Kind discriminates the two node variants.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// Attribute names the filesystem metadata fields tracked per node.
type Attribute string

const (
	AttrSize         Attribute = "Size"
	AttrCreation     Attribute = "Creation"
	AttrModification Attribute = "Modification"
	AttrOwner        Attribute = "Owner"
	AttrGroup        Attribute = "Group"
	AttrPermissions  Attribute = "Permissions"
)

// TrackedAttributes lists every attribute captured during update, in the
// order they are serialized.
var TrackedAttributes = []Attribute{
	AttrSize, AttrCreation, AttrModification, AttrOwner, AttrGroup, AttrPermissions,
}

// Reserved tag key and the diff classifications stored under it.
const (
	TagEvent      = "event"
	EventAdded    = "added"
	EventRemoved  = "removed"
	EventModified = "modified"
	EventNone     = ""
)

// SignatureFilter decides per absolute file path whether content hashing is
// worth the read. Large files can opt out and keep attribute signatures only.
type SignatureFilter func(absPath string) bool

// Node is one filesystem entry captured inside a snapshot. A node is not
// comparable until Update has run against a live path, or until its
// attributes and content signature are set by hand (deserialization).
type Node struct {
	state  *State
	parent *Node
	kind   Kind

	location string
	attrs    map[Attribute]string
	tags     map[string]string

	// children is owned exclusively by directory nodes and kept sorted by
	// location.
	children []*Node

	contentSig    *string
	attrsSig      *string
	usesSignature bool
	cached        bool
}

func newNode(st *State, location string, kind Kind, usesSignature bool) *Node {
	return &Node{
		state:         st,
		kind:          kind,
		location:      filepath.Clean(location),
		attrs:         make(map[Attribute]string),
		tags:          make(map[string]string),
		usesSignature: usesSignature,
	}
}

// NewFileNode creates a file node at the given location, relative to the
// owning state's root. When usesSignature is false the file's content is
// never hashed.
func NewFileNode(st *State, location string, usesSignature bool) *Node {
	return newNode(st, location, KindFile, usesSignature)
}

// NewDirectoryNode creates a directory node at the given location, relative
// to the owning state's root.
func NewDirectoryNode(st *State, location string) *Node {
	return newNode(st, location, KindDirectory, true)
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) IsDirectory() bool   { return n.kind == KindDirectory }
func (n *Node) Location() string    { return n.location }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) Children() []*Node   { return n.children }
func (n *Node) HasChildren() bool   { return len(n.children) > 0 }
func (n *Node) UsesSignature() bool { return n.usesSignature }

// Name returns the base name of the node's location.
func (n *Node) Name() string {
	return filepath.Base(n.location)
}

// AbsoluteLocation resolves the node's location against the owning state's
// root path.
func (n *Node) AbsoluteLocation() string {
	return n.state.AbsoluteLocation(n.location)
}

// Attribute returns the string-encoded value of a tracked attribute, or ""
// when it has not been captured.
func (n *Node) Attribute(name Attribute) string {
	return n.attrs[name]
}

// SetAttribute overrides a tracked attribute. Intended for nodes restored
// from a serialized snapshot, which never see the filesystem.
func (n *Node) SetAttribute(name Attribute, value string) {
	n.attrs[name] = value
	n.attrsSig = nil
}

// Attributes exposes the node's attribute map.
func (n *Node) Attributes() map[Attribute]string {
	return n.attrs
}

// Tag returns the value stored under the given tag key, "" when unset.
func (n *Node) Tag(name string) string {
	return n.tags[name]
}

// SetTag stores an arbitrary annotation on the node.
func (n *Node) SetTag(name, value string) {
	n.tags[name] = value
}

// Walk visits this node and then every descendant depth-first, children in
// location order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.children {
		child.Walk(visit)
	}
}

func (n *Node) appendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) sortChildren() {
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].location < n.children[j].location
	})
}

// Update populates the node's attributes and signatures from the filesystem,
// recursively for directories, and registers the node in the owning state's
// indices. The target path must exist or be a symbolic link.
func (n *Node) Update(filter SignatureFilter) error {
	abs := n.AbsoluteLocation()
	fs := n.state.fs
	// Links may point to locations that do not exist.
	if !fs.IsSymlink(abs) && !fs.Exists(abs) {
		return fmt.Errorf("update %q: %w", abs, ErrMissingPath)
	}

	n.invalidateSignatures()

	if n.kind == KindDirectory {
		if err := n.updateChildren(filter); err != nil {
			return err
		}
	} else if n.usesSignature {
		data, err := fs.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("read %q: %w", abs, err)
		}
		sig := fileContentSignature(data)
		n.contentSig = &sig
	}

	if err := n.updateAttributes(); err != nil {
		return err
	}

	n.state.cacheNode(n)
	return nil
}

// updateChildren rebuilds the children list from the live directory listing.
// Stale children from a prior population are discarded; symbolic links are
// skipped outright. File children are hashed concurrently, directories are
// descended depth-first.
func (n *Node) updateChildren(filter SignatureFilter) error {
	fs := n.state.fs
	entries, err := fs.ListEntries(n.AbsoluteLocation())
	if err != nil {
		return fmt.Errorf("list %q: %w", n.AbsoluteLocation(), err)
	}

	n.children = nil
	for _, name := range entries {
		location := filepath.Join(n.location, name)
		abs := n.state.AbsoluteLocation(location)
		if fs.IsSymlink(abs) {
			continue
		}
		if fs.IsDir(abs) {
			n.appendChild(NewDirectoryNode(n.state, location))
		} else {
			uses := filter == nil || filter(abs)
			n.appendChild(NewFileNode(n.state, location, uses))
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(n.state.workers)
	for _, child := range n.children {
		if child.kind == KindDirectory {
			if err := child.Update(filter); err != nil {
				return err
			}
			continue
		}
		child := child
		g.Go(func() error { return child.Update(filter) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	n.sortChildren()
	return nil
}

func (n *Node) updateAttributes() error {
	abs := n.AbsoluteLocation()
	st, err := n.state.fs.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %q: %w", abs, err)
	}
	n.attrs[AttrSize] = strconv.FormatInt(st.Size, 10)
	n.attrs[AttrCreation] = strconv.FormatInt(st.Creation, 10)
	n.attrs[AttrModification] = strconv.FormatInt(st.Modification, 10)
	n.attrs[AttrOwner] = strconv.FormatUint(uint64(st.UID), 10)
	n.attrs[AttrGroup] = strconv.FormatUint(uint64(st.GID), 10)
	n.attrs[AttrPermissions] = strconv.FormatUint(uint64(st.Perm), 8)
	n.attrsSig = nil
	return nil
}
