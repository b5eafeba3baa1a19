package state

import (
	"sort"

	"snaptrack/internal/hash"
)

// attributeInSignature reports whether an attribute participates in the
// attributes signature for the given node kind. Creation time is always
// excluded; directories additionally exclude their modification time, which
// changes merely from adding or removing children.
func attributeInSignature(kind Kind, name Attribute) bool {
	switch name {
	case AttrCreation:
		return false
	case AttrModification:
		return kind != KindDirectory
	}
	return true
}

// attributesSignature hashes the concatenation of key+value for every
// eligible attribute, keys in lexicographic order. The explicit sort keeps
// the digest independent of map iteration order.
func attributesSignature(kind Kind, attrs map[Attribute]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	parts := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		if attributeInSignature(kind, Attribute(key)) {
			parts = append(parts, key, attrs[Attribute(key)])
		}
	}
	return hash.Strings(parts...)
}

// fileContentSignature hashes a file's raw byte content.
func fileContentSignature(data []byte) string {
	return hash.Bytes(data)
}

// directoryContentSignature hashes the concatenation of the immediate
// children's base names, in children (location) order. It depends only on the
// names: a child's own content change never alters its parent's signature.
func directoryContentSignature(children []*Node) string {
	names := make([]string, 0, len(children))
	for _, child := range children {
		names = append(names, child.Name())
	}
	return hash.Strings(names...)
}

// AttributesSignature returns the cached attributes signature, computing it
// on first access.
func (n *Node) AttributesSignature() string {
	if n.attrsSig == nil {
		sig := attributesSignature(n.kind, n.attrs)
		n.attrsSig = &sig
	}
	return *n.attrsSig
}

// ContentSignature returns the cached content signature. For directories it
// is recomputed from the children on demand; for files it is set during
// Update (or by hand for deserialized nodes) and "" when the node opted out
// of content hashing.
func (n *Node) ContentSignature() string {
	if n.contentSig != nil {
		return *n.contentSig
	}
	if n.kind == KindDirectory {
		sig := directoryContentSignature(n.children)
		n.contentSig = &sig
		return sig
	}
	return ""
}

// SetContentSignature overrides the content signature. Intended for nodes
// restored from a serialized snapshot.
func (n *Node) SetContentSignature(sig string) {
	n.contentSig = &sig
}

// Signature returns the composite signature, content and attributes digests
// joined by a dash. This is the unit of comparison between snapshots.
func (n *Node) Signature() string {
	return n.ContentSignature() + "-" + n.AttributesSignature()
}

func (n *Node) invalidateSignatures() {
	n.contentSig = nil
	n.attrsSig = nil
}
