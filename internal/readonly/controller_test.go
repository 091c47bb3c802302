package readonly

import (
	"testing"

	"github.com/rebelice/datalist/internal/ui/tree"
)

func disabled(n tree.Node) bool {
	_, ok := n.Attr(tree.AttrDisabled)
	return ok
}

func buildRow(id string) (*tree.Element, *tree.Element, *tree.Element) {
	row := tree.New(tree.KindRow, id)
	cb := tree.New(tree.KindCheckbox, id+"-cb")
	input := tree.New(tree.KindTextInput, id+"-input")
	row.Append(cb, input, tree.NewText("label"))
	return row, cb, input
}

func TestDualLockIndependence(t *testing.T) {
	root := tree.New(tree.KindContainer, "body")
	row, cb, _ := buildRow("r1")
	root.Append(row)
	c := New()

	c.Apply(root, LevelGlobal)
	c.Apply(row, LevelItem)

	c.Remove(row, LevelItem)
	if !disabled(cb) || !Locked(cb) {
		t.Fatal("expected node to stay locked by the global scope")
	}

	c.Remove(root, LevelGlobal)
	if disabled(cb) || Locked(cb) {
		t.Error("expected node to be unlocked after both scopes are removed")
	}
}

func TestGlobalUnlockKeepsItemLock(t *testing.T) {
	root := tree.New(tree.KindContainer, "body")
	row, cb, _ := buildRow("r1")
	root.Append(row)
	c := New()

	c.Apply(row, LevelItem)
	c.Apply(root, LevelGlobal)
	c.Remove(root, LevelGlobal)

	if !disabled(cb) {
		t.Error("expected item lock to survive global unlock")
	}
}

func TestEffectsByKind(t *testing.T) {
	row, cb, input := buildRow("r1")
	New().Apply(row, LevelGlobal)

	if !disabled(cb) {
		t.Error("expected checkbox to be disabled")
	}
	if _, ok := input.Attr(tree.AttrReadonly); !ok {
		t.Error("expected input to be readonly")
	}
	if disabled(input) {
		t.Error("expected input to not be disabled")
	}
	if text := row.Children()[2]; Locked(text) {
		t.Error("expected plain text to be left alone")
	}
}

func TestSensitiveClass(t *testing.T) {
	row := tree.New(tree.KindRow, "r")
	chip := tree.New(tree.KindChip, "chip")
	chip.AddClass(ClassSensitive)
	row.Append(chip)

	New().Apply(row, LevelGlobal)
	if !disabled(chip) {
		t.Error("expected sensitive chip to be disabled")
	}
}

func TestHideWhenLocked(t *testing.T) {
	row := tree.New(tree.KindRow, "r")
	save := tree.New(tree.KindButton, "save")
	save.AddClass(ClassHide)
	row.Append(save)
	c := New()

	c.Apply(row, LevelGlobal)
	c.Apply(row, LevelItem)
	if !save.HasClass(tree.ClassHidden) {
		t.Fatal("expected button to be hidden")
	}

	c.Remove(row, LevelGlobal)
	if !save.HasClass(tree.ClassHidden) {
		t.Error("expected button to stay hidden while the item lock holds")
	}
	c.Remove(row, LevelItem)
	if save.HasClass(tree.ClassHidden) {
		t.Error("expected button to be shown after both locks clear")
	}
}

func TestPreexistingStateIsNotOwned(t *testing.T) {
	row := tree.New(tree.KindRow, "r")
	btn := tree.New(tree.KindButton, "b")
	btn.SetAttr(tree.AttrDisabled, tree.AttrDisabled)
	hidden := tree.New(tree.KindButton, "h")
	hidden.AddClass(ClassHide, tree.ClassHidden)
	row.Append(btn, hidden)
	c := New()

	c.Apply(row, LevelGlobal)
	c.Remove(row, LevelGlobal)

	if !disabled(btn) {
		t.Error("expected pre-disabled button to stay disabled")
	}
	if !hidden.HasClass(tree.ClassHidden) {
		t.Error("expected pre-hidden button to stay hidden")
	}
}

func TestItemCallbacks(t *testing.T) {
	row, _, _ := buildRow("r1")
	c := New()
	var events []string
	c.OnItemDisabled = func(n tree.Node) { events = append(events, "disabled:"+n.ID()) }
	c.OnItemEnabled = func(n tree.Node) { events = append(events, "enabled:"+n.ID()) }

	c.Apply(row, LevelGlobal)
	c.Apply(row, LevelItem)
	c.Remove(row, LevelItem)

	c.Suppress = true
	c.Apply(row, LevelItem)

	if len(events) != 2 || events[0] != "disabled:r1" || events[1] != "enabled:r1" {
		t.Errorf("unexpected events: %v", events)
	}
	if !row.HasClass(ClassItem) {
		t.Error("expected item scope to carry the item marker")
	}
}
