package tree

import (
	"slices"
	"strings"
)

// Kind identifies what a node represents in the UI tree
type Kind int

const (
	KindContainer Kind = iota
	KindRow
	KindCell
	KindText
	KindCheckbox
	KindRadio
	KindButton
	KindSelect
	KindLink
	KindTextInput
	KindTextarea
	KindChip
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindRow:
		return "row"
	case KindCell:
		return "cell"
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindButton:
		return "button"
	case KindSelect:
		return "select"
	case KindLink:
		return "link"
	case KindTextInput:
		return "input"
	case KindTextarea:
		return "textarea"
	case KindChip:
		return "chip"
	}
	return "unknown"
}

// IsControl reports whether the kind is an interactive control
func (k Kind) IsControl() bool {
	switch k {
	case KindCheckbox, KindRadio, KindButton, KindSelect, KindLink, KindTextInput, KindTextarea:
		return true
	}
	return false
}

// Common class and attribute names shared by the widget and its renderers
const (
	ClassHidden = "hidden"

	AttrDisabled = "disabled"
	AttrReadonly = "readonly"
	AttrChecked  = "checked"
	AttrName     = "name"
	AttrValue    = "value"
)

// Node is the capability set the data provider needs from a UI tree
type Node interface {
	Kind() Kind
	ID() string

	Text() string
	SetText(text string)

	HasClass(class string) bool
	AddClass(classes ...string)
	RemoveClass(classes ...string)

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	Parent() Node
	Children() []Node
	Append(children ...Node)
	Prepend(children ...Node)
	RemoveChild(child Node) bool
	Clear()
}

// Element is the in-memory Node implementation used by the terminal browser and tests
type Element struct {
	kind     Kind
	id       string
	text     string
	classes  []string
	attrs    map[string]string
	parent   *Element
	children []*Element
}

// New creates a detached element
func New(kind Kind, id string) *Element {
	return &Element{
		kind:  kind,
		id:    id,
		attrs: make(map[string]string),
	}
}

// NewText creates a text element
func NewText(text string, classes ...string) *Element {
	e := New(KindText, "")
	e.text = text
	e.AddClass(classes...)
	return e
}

func (e *Element) Kind() Kind   { return e.kind }
func (e *Element) ID() string   { return e.id }
func (e *Element) Text() string { return e.text }

func (e *Element) SetText(text string) { e.text = text }

func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

func (e *Element) AddClass(classes ...string) {
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" || e.HasClass(c) {
			continue
		}
		e.classes = append(e.classes, c)
	}
}

func (e *Element) RemoveClass(classes ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(classes, c)
	})
}

// Classes returns a copy of the class list in insertion order
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Children() []Node {
	nodes := make([]Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c
	}
	return nodes
}

// Len returns the number of direct children
func (e *Element) Len() int {
	return len(e.children)
}

func (e *Element) Append(children ...Node) {
	for _, c := range children {
		if el := e.adopt(c); el != nil {
			e.children = append(e.children, el)
		}
	}
}

func (e *Element) Prepend(children ...Node) {
	adopted := make([]*Element, 0, len(children))
	for _, c := range children {
		if el := e.adopt(c); el != nil {
			adopted = append(adopted, el)
		}
	}
	e.children = append(adopted, e.children...)
}

// adopt detaches an element from its current parent so it can be reinserted here.
// Nodes from a foreign implementation are ignored.
func (e *Element) adopt(n Node) *Element {
	el, ok := n.(*Element)
	if !ok || el == nil {
		return nil
	}
	if el.parent != nil {
		el.parent.RemoveChild(el)
	}
	el.parent = e
	return el
}

func (e *Element) RemoveChild(child Node) bool {
	el, ok := child.(*Element)
	if !ok {
		return false
	}
	for i, c := range e.children {
		if c == el {
			e.children = append(e.children[:i], e.children[i+1:]...)
			el.parent = nil
			return true
		}
	}
	return false
}

func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
	e.text = ""
}

// Walk visits n and all of its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Find returns the first node below root (inclusive) with the given id
func Find(root Node, id string) Node {
	var found Node
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Detach removes n from its parent, if any
func Detach(n Node) {
	if n == nil {
		return
	}
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}
