package state

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"snaptrack/internal/fsio"
)

// State reflects one filesystem subtree at one point in time. It owns the
// snapshot tree and two lookup indices over it: by normalized location and by
// content signature. Once populated it is treated as read-only by consumers;
// event tags written during diffing are annotations, not structural changes.
type State struct {
	id           uuid.UUID
	rootLocation string
	root         *Node
	creationTime time.Time

	fs       fsio.FS
	workers  int
	observer func(*Node)

	mu         sync.Mutex
	locations  map[string]*Node
	signatures map[string][]*Node
}

// New creates an empty state rooted at the given filesystem path. The path
// should be absolute; it is cleaned but not resolved.
func New(rootLocation string) *State {
	return NewWithFS(rootLocation, fsio.NewOS())
}

// NewWithFS creates an empty state backed by the given filesystem
// implementation.
func NewWithFS(rootLocation string, fs fsio.FS) *State {
	return &State{
		id:           uuid.New(),
		rootLocation: filepath.Clean(rootLocation),
		fs:           fs,
		workers:      runtime.NumCPU(),
		locations:    make(map[string]*Node),
		signatures:   make(map[string][]*Node),
	}
}

func (st *State) ID() uuid.UUID           { return st.id }
func (st *State) Root() *Node             { return st.root }
func (st *State) RootLocation() string    { return st.rootLocation }
func (st *State) CreationTime() time.Time { return st.creationTime }

// AbsoluteLocation resolves a location relative to the state root.
func (st *State) AbsoluteLocation(location string) string {
	return filepath.Join(st.rootLocation, location)
}

// Populate builds the snapshot tree from the live filesystem, replacing any
// previous tree and indices wholesale. The filter decides per file whether
// content hashing is attempted (nil hashes everything); workers bounds
// concurrent file hashing; observer, when non-nil, is invoked once per
// registered node.
func (st *State) Populate(filter SignatureFilter, workers int, observer func(*Node)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	st.workers = workers
	st.observer = observer
	st.locations = make(map[string]*Node)
	st.signatures = make(map[string][]*Node)

	root := NewDirectoryNode(st, "")
	if err := root.Update(filter); err != nil {
		return err
	}
	st.root = root
	st.creationTime = time.Now()
	return nil
}

// cacheNode registers a node in the location and signature indices.
// Registration is idempotent: a node already marked cached is left alone.
// Files that opted out of content hashing never enter the signature index.
func (st *State) cacheNode(n *Node) {
	st.mu.Lock()
	if n.cached {
		st.mu.Unlock()
		return
	}
	st.locations[n.location] = n
	if n.usesSignature {
		if sig := n.ContentSignature(); sig != "" {
			st.signatures[sig] = append(st.signatures[sig], n)
		}
	}
	n.cached = true
	st.mu.Unlock()

	if st.observer != nil {
		st.observer(n)
	}
}

// NodeWithLocation returns the node at the given normalized location, or nil
// when no such node exists.
func (st *State) NodeWithLocation(location string) *Node {
	return st.locations[location]
}

// NodesWithContentSignature returns the nodes sharing the given content
// signature, in registration order. A miss yields an empty result.
func (st *State) NodesWithContentSignature(sig string) []*Node {
	return st.signatures[sig]
}

// NodesByLocation exposes the location index covering every node in the tree.
func (st *State) NodesByLocation() map[string]*Node {
	return st.locations
}
