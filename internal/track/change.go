package track

import (
	"strings"

	"snaptrack/internal/state"
)

// Change is the classified difference between two states. Every node present
// in either state appears in exactly one partition; the nodes are borrowed
// references into the two source states, never copies.
type Change struct {
	NewState      *state.State
	PreviousState *state.State

	// created+copied+moved covers nodes only in the new state. No copy or
	// move detection is performed, so copied and moved stay empty; they exist
	// for consumers that resolve creations through the ancestor heuristic.
	created []*state.Node
	copied  []*state.Node
	moved   []*state.Node
	// removed covers nodes only in the previous state.
	removed []*state.Node
	// modified+unmodified covers nodes present in both states.
	modified   []*state.Node
	unmodified []*state.Node
}

func NewChange(newState, previousState *state.State) *Change {
	return &Change{
		NewState:      newState,
		PreviousState: previousState,
	}
}

func (c *Change) Created() []*state.Node    { return c.created }
func (c *Change) Copied() []*state.Node     { return c.copied }
func (c *Change) Moved() []*state.Node      { return c.moved }
func (c *Change) Removed() []*state.Node    { return c.removed }
func (c *Change) Modified() []*state.Node   { return c.modified }
func (c *Change) Unmodified() []*state.Node { return c.unmodified }

func (c *Change) partitions() []*[]*state.Node {
	return []*[]*state.Node{
		&c.created, &c.copied, &c.moved, &c.removed, &c.modified, &c.unmodified,
	}
}

// AnyChanges reports whether any partition other than unmodified is
// populated.
func (c *Change) AnyChanges() bool {
	return len(c.created) > 0 || len(c.copied) > 0 || len(c.moved) > 0 ||
		len(c.removed) > 0 || len(c.modified) > 0
}

// Count returns the total number of classified nodes.
func (c *Change) Count() int {
	total := 0
	for _, partition := range c.partitions() {
		total += len(*partition)
	}
	return total
}

// RemoveLocation drops, from every partition, the nodes whose location starts
// with the given prefix. Used to exclude a subtree from a reported change set
// after the fact.
func (c *Change) RemoveLocation(prefix string) {
	if prefix == "" {
		return
	}
	for _, partition := range c.partitions() {
		kept := (*partition)[:0]
		for _, node := range *partition {
			if !strings.HasPrefix(node.Location(), prefix) {
				kept = append(kept, node)
			}
		}
		*partition = kept
	}
}
