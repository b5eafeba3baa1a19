package track

import (
	"fmt"
	"sort"

	"snaptrack/internal/state"
)

// Tracker classifies the difference between two states. The On* hooks are
// optional extension points invoked after a node has been classified, so a
// caller can attach side effects without altering the classification itself.
type Tracker struct {
	OnCreated    func(node *state.Node)
	OnRemoved    func(node *state.Node)
	OnModified   func(newNode, previousNode *state.Node)
	OnUnmodified func(newNode, previousNode *state.Node)
}

// DetectChanges compares the new state against the previous state and returns
// the classified change set. Nodes only in the new state are tagged added and
// their untagged ancestors tagged modified; nodes only in the previous state
// are tagged removed; nodes in both are compared by composite signature.
func (t *Tracker) DetectChanges(newState, previousState *state.State) (*Change, error) {
	change := NewChange(newState, previousState)

	newLocations := sortedLocations(newState)
	prevLocations := sortedLocations(previousState)

	onlyNew, onlyPrev, common := Partition(newLocations, prevLocations,
		func(location string) string { return location })

	for _, location := range onlyNew {
		node := newState.NodeWithLocation(location)
		node.SetTag(state.TagEvent, state.EventAdded)
		markAncestorsModified(node)
		change.created = append(change.created, node)
		if t.OnCreated != nil {
			t.OnCreated(node)
		}
	}

	for _, location := range onlyPrev {
		node := previousState.NodeWithLocation(location)
		node.SetTag(state.TagEvent, state.EventRemoved)
		change.removed = append(change.removed, node)
		if t.OnRemoved != nil {
			t.OnRemoved(node)
		}
	}

	for _, location := range common {
		node := newState.NodeWithLocation(location)
		previousNode := previousState.NodeWithLocation(location)
		if previousNode.Signature() != node.Signature() {
			node.SetTag(state.TagEvent, state.EventModified)
			previousNode.SetTag(state.TagEvent, state.EventModified)
			change.modified = append(change.modified, node)
			if t.OnModified != nil {
				t.OnModified(node, previousNode)
			}
		} else {
			node.SetTag(state.TagEvent, state.EventNone)
			previousNode.SetTag(state.TagEvent, state.EventNone)
			change.unmodified = append(change.unmodified, node)
			if t.OnUnmodified != nil {
				t.OnUnmodified(node, previousNode)
			}
		}
	}

	// Every location must be classified exactly once.
	classified := change.Count()
	partitioned := len(onlyNew) + len(onlyPrev) + len(common)
	if classified != partitioned {
		return nil, fmt.Errorf("classified %d locations, partitioned %d", classified, partitioned)
	}

	return change, nil
}

// markAncestorsModified walks the parent chain upward, tagging each untagged
// ancestor as modified. The walk stops at the first ancestor that already
// carries a classification; an existing tag is never overwritten.
func markAncestorsModified(node *state.Node) {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Tag(state.TagEvent) != state.EventNone {
			return
		}
		parent.SetTag(state.TagEvent, state.EventModified)
	}
}

func sortedLocations(st *state.State) []string {
	nodes := st.NodesByLocation()
	locations := make([]string, 0, len(nodes))
	for location := range nodes {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	return locations
}
