package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrBadDocument reports a snapshot document whose root element is not State.
var ErrBadDocument = errors.New("bad document element")

// Save writes the state as an XML document to the given file.
func (st *State) Save(path string) error {
	doc := st.Document()
	doc.Indent(2)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("write snapshot %q: %w", path, err)
	}
	return nil
}

// Document builds the XML representation of the state: a State root element
// carrying the absolute root location, wrapping one Directory or File tree.
func (st *State) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("State")
	root.CreateAttr("location", st.rootLocation)
	root.CreateAttr("id", st.id.String())
	if st.root != nil {
		serializeNode(root, st.root)
	}
	return doc
}

func serializeNode(parent *etree.Element, n *Node) {
	tag := "File"
	if n.IsDirectory() {
		tag = "Directory"
	}
	el := parent.CreateElement(tag)
	el.CreateAttr("name", n.Name())
	el.CreateAttr("location", n.location)

	el.CreateElement("signature").SetText(n.ContentSignature())

	attrs := el.CreateElement("Attributes")
	for _, name := range TrackedAttributes {
		attrs.CreateElement(strings.ToLower(string(name))).SetText(n.attrs[name])
	}

	if n.IsDirectory() {
		content := el.CreateElement("Content")
		for _, child := range n.children {
			serializeNode(content, child)
		}
	}
}

// Load reads a snapshot XML document from a file and rebuilds the state,
// including its lookup indices and parent links.
func Load(path string) (*State, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", path, err)
	}
	return Parse(doc)
}

// Parse rebuilds a state from an XML document. A document whose root element
// is not State is rejected; unrecognized child elements are warned about and
// skipped, parsing continues with their siblings.
func Parse(doc *etree.Document) (*State, error) {
	rootEl := doc.Root()
	if rootEl == nil || rootEl.Tag != "State" {
		return nil, ErrBadDocument
	}

	st := New(rootEl.SelectAttrValue("location", ""))
	if raw := rootEl.SelectAttrValue("id", ""); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			st.id = id
		}
	}

	for _, childEl := range rootEl.ChildElements() {
		node, err := parseNode(st, childEl)
		if err != nil {
			return nil, err
		}
		if node != nil {
			st.root = node
			break
		}
	}

	if st.root != nil {
		st.root.Walk(st.cacheNode)
	}
	return st, nil
}

func parseNode(st *State, el *etree.Element) (*Node, error) {
	switch el.Tag {
	case "Directory":
		node := NewDirectoryNode(st, el.SelectAttrValue("location", ""))
		if err := initNode(el, node); err != nil {
			return nil, err
		}
		if content := el.SelectElement("Content"); content != nil {
			for _, childEl := range content.ChildElements() {
				child, err := parseNode(st, childEl)
				if err != nil {
					return nil, err
				}
				if child != nil {
					node.appendChild(child)
				}
			}
		}
		return node, nil
	case "File":
		node := NewFileNode(st, el.SelectAttrValue("location", ""), true)
		if err := initNode(el, node); err != nil {
			return nil, err
		}
		return node, nil
	case "Attributes", "signature":
		// Handled by initNode on the owning element.
		return nil, nil
	default:
		logrus.Warnf("unknown element %s", el.Tag)
		return nil, nil
	}
}

// initNode fills a node's attributes and content signature from its XML
// element. Attribute names are matched case-insensitively against the
// tracked set; unrecognized names are ignored.
func initNode(el *etree.Element, n *Node) error {
	attrsEl := el.SelectElement("Attributes")
	if attrsEl == nil {
		return fmt.Errorf("node %q: missing Attributes element", n.location)
	}
	for _, child := range attrsEl.ChildElements() {
		for _, tracked := range TrackedAttributes {
			if strings.EqualFold(child.Tag, string(tracked)) {
				n.attrs[tracked] = strings.TrimSpace(child.Text())
				break
			}
		}
	}

	sigEl := el.SelectElement("signature")
	if sigEl == nil {
		return fmt.Errorf("node %q: missing signature element", n.location)
	}
	if sig := strings.TrimSpace(sigEl.Text()); sig != "" {
		n.SetContentSignature(sig)
	} else {
		n.usesSignature = false
	}
	return nil
}
