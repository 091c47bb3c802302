package filter

import (
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Rule is the filter a checkbox contributes in one of its two states
type Rule struct {
	Operator string
	Value    *string
}

// Checkbox is a live filter control. Its own checked state is the source of
// truth for the filter it contributes.
type Checkbox interface {
	Name() string
	Checked() bool
	SetChecked(checked bool)

	// CheckedRule and UncheckedRule return nil when the state contributes no filter
	CheckedRule() *Rule
	UncheckedRule() *Rule
}

// Attributes read by NodeCheckbox
const (
	AttrCheckedOperator   = "data-checked-operator"
	AttrCheckedValue      = "data-checked-value"
	AttrUncheckedOperator = "data-unchecked-operator"
	AttrUncheckedValue    = "data-unchecked-value"
)

// NodeCheckbox adapts a checkbox node of the UI tree
type NodeCheckbox struct {
	Node tree.Node
}

// NewNodeCheckbox creates a checkbox node carrying the filter rules as attributes
func NewNodeCheckbox(id, name string, checked, unchecked *Rule) *NodeCheckbox {
	n := tree.New(tree.KindCheckbox, id)
	n.SetAttr(tree.AttrName, name)
	setRule(n, AttrCheckedOperator, AttrCheckedValue, checked)
	setRule(n, AttrUncheckedOperator, AttrUncheckedValue, unchecked)
	return &NodeCheckbox{Node: n}
}

func setRule(n tree.Node, opAttr, valueAttr string, r *Rule) {
	if r == nil {
		return
	}
	n.SetAttr(opAttr, r.Operator)
	if r.Value != nil {
		n.SetAttr(valueAttr, *r.Value)
	}
}

func (c *NodeCheckbox) Name() string {
	name, _ := c.Node.Attr(tree.AttrName)
	return name
}

func (c *NodeCheckbox) Checked() bool {
	_, ok := c.Node.Attr(tree.AttrChecked)
	return ok
}

func (c *NodeCheckbox) SetChecked(checked bool) {
	if checked {
		c.Node.SetAttr(tree.AttrChecked, tree.AttrChecked)
		return
	}
	c.Node.RemoveAttr(tree.AttrChecked)
}

// Toggle flips the checked state
func (c *NodeCheckbox) Toggle() {
	c.SetChecked(!c.Checked())
}

func (c *NodeCheckbox) CheckedRule() *Rule {
	return c.rule(AttrCheckedOperator, AttrCheckedValue)
}

func (c *NodeCheckbox) UncheckedRule() *Rule {
	return c.rule(AttrUncheckedOperator, AttrUncheckedValue)
}

func (c *NodeCheckbox) rule(opAttr, valueAttr string) *Rule {
	op, ok := c.Node.Attr(opAttr)
	if !ok {
		return nil
	}
	r := &Rule{Operator: op}
	if v, ok := c.Node.Attr(valueAttr); ok {
		r.Value = &v
	}
	return r
}
