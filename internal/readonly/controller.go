package readonly

import (
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Level is the granularity of a lock
type Level int

const (
	// LevelGlobal locks the whole widget
	LevelGlobal Level = iota
	// LevelItem locks one rendered record
	LevelItem
)

func (l Level) String() string {
	if l == LevelItem {
		return "item"
	}
	return "global"
}

// Marker classes
const (
	ClassGlobal    = "datalist-readonly-global"
	ClassItem      = "datalist-readonly-item"
	ClassSensitive = "readonly-sensitive"
	ClassHide      = "readonly-hide"

	// ClassOwnedHidden marks nodes hidden by the controller
	ClassOwnedHidden = "datalist-readonly-hidden"
	// ClassOwnedEffect marks nodes whose disabled/readonly attribute was set
	// by the controller
	ClassOwnedEffect = "datalist-readonly-owned"
)

func (l Level) marker() string {
	if l == LevelItem {
		return ClassItem
	}
	return ClassGlobal
}

// Controller applies and lifts read-only locks on UI subtrees
type Controller struct {
	// OnItemDisabled and OnItemEnabled are called on item scope transitions
	OnItemDisabled func(scope tree.Node)
	OnItemEnabled  func(scope tree.Node)

	// Suppress silences the item callbacks, used during bulk initialization
	Suppress bool
}

// New creates a controller
func New() *Controller {
	return &Controller{}
}

// Apply sets the level's mark on every sensitive node below scope (inclusive)
func (c *Controller) Apply(scope tree.Node, level Level) {
	if scope == nil {
		return
	}
	marker := level.marker()
	for _, n := range Sensitive(scope) {
		n.AddClass(marker)
		lock(n)
	}
	if level == LevelItem {
		scope.AddClass(ClassItem)
		if !c.Suppress && c.OnItemDisabled != nil {
			c.OnItemDisabled(scope)
		}
	}
}

// Remove clears the level's mark below scope. Nodes still marked by the other
// level stay locked.
func (c *Controller) Remove(scope tree.Node, level Level) {
	if scope == nil {
		return
	}
	marker := level.marker()
	for _, n := range Sensitive(scope) {
		n.RemoveClass(marker)
		if !Locked(n) {
			unlock(n)
		}
	}
	if level == LevelItem {
		scope.RemoveClass(ClassItem)
		if !c.Suppress && c.OnItemEnabled != nil {
			c.OnItemEnabled(scope)
		}
	}
}

// Locked reports whether any mark is set on n
func Locked(n tree.Node) bool {
	return n.HasClass(ClassGlobal) || n.HasClass(ClassItem)
}

// IsSensitive reports whether n is affected by read-only locks
func IsSensitive(n tree.Node) bool {
	return n.HasClass(ClassSensitive) || n.Kind().IsControl()
}

// Sensitive returns the sensitive nodes below scope (inclusive) in tree order
func Sensitive(scope tree.Node) []tree.Node {
	var nodes []tree.Node
	tree.Walk(scope, func(n tree.Node) bool {
		if IsSensitive(n) {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// effectAttr is the attribute a locked node receives
func effectAttr(n tree.Node) string {
	switch n.Kind() {
	case tree.KindTextInput, tree.KindTextarea:
		return tree.AttrReadonly
	}
	return tree.AttrDisabled
}

func lock(n tree.Node) {
	attr := effectAttr(n)
	if _, set := n.Attr(attr); !set {
		n.SetAttr(attr, attr)
		n.AddClass(ClassOwnedEffect)
	}
	if n.HasClass(ClassHide) && !n.HasClass(tree.ClassHidden) {
		n.AddClass(tree.ClassHidden, ClassOwnedHidden)
	}
}

func unlock(n tree.Node) {
	if n.HasClass(ClassOwnedEffect) {
		n.RemoveAttr(effectAttr(n))
		n.RemoveClass(ClassOwnedEffect)
	}
	if n.HasClass(ClassOwnedHidden) {
		n.RemoveClass(tree.ClassHidden, ClassOwnedHidden)
	}
}
