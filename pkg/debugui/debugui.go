// Package debugui renders a built debuginfo.Model as an interactive
// tview/tcell tree, for operators to sanity-check the debug-entry graph
// before handing it to pkg/dwarf's emitter.
package debugui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Manu343726/aidwarf/pkg/debuginfo"
)

// BuildTree renders classes into a tview tree rooted at a synthetic node,
// one child per class, each holding its declared methods and compiled
// ranges as descendants. Pure and side-effect free, so it is exercised
// directly by tests without starting the terminal application.
func BuildTree(classes []*debuginfo.ClassEntry) *tview.TreeNode {
	root := tview.NewTreeNode("aidwarf").SetColor(tcell.ColorWhite)

	for _, class := range classes {
		root.AddChild(buildClassNode(class))
	}

	return root
}

func buildClassNode(class *debuginfo.ClassEntry) *tview.TreeNode {
	node := tview.NewTreeNode(class.Name).SetColor(tcell.ColorYellow).SetReference(class)

	methods := tview.NewTreeNode(fmt.Sprintf("methods (%d)", len(class.Methods))).SetColor(tcell.ColorGray)
	for _, m := range class.Methods {
		methods.AddChild(buildMethodDeclNode(m))
	}
	node.AddChild(methods)

	compiled := tview.NewTreeNode(fmt.Sprintf("compiled (%d)", len(class.CompiledMethods))).SetColor(tcell.ColorGray)
	for _, cm := range class.CompiledMethods {
		compiled.AddChild(buildCompiledMethodNode(cm))
	}
	node.AddChild(compiled)

	return node
}

func buildMethodDeclNode(m *debuginfo.MethodEntry) *tview.TreeNode {
	label := fmt.Sprintf("%s (%d params, %d locals)", m.Name, len(m.Parameters), len(m.Locals))
	node := tview.NewTreeNode(label).SetColor(tcell.ColorGreen).SetReference(m)
	for _, p := range m.Parameters {
		node.AddChild(tview.NewTreeNode(fmt.Sprintf("param %s (slot %d)", p.Name, p.Slot)).SetReference(p))
	}
	for _, l := range m.Locals {
		node.AddChild(tview.NewTreeNode(fmt.Sprintf("local %s (slot %d)", l.Name, l.Slot)).SetReference(l))
	}
	return node
}

func buildCompiledMethodNode(cm *debuginfo.CompiledMethodEntry) *tview.TreeNode {
	label := fmt.Sprintf("[%d, %d) frame=%d", cm.Primary.Lo, cm.Primary.Hi, cm.FrameSize)
	node := tview.NewTreeNode(label).SetColor(tcell.ColorAqua).SetReference(cm)
	for _, child := range cm.Primary.Children {
		node.AddChild(buildRangeNode(child))
	}
	return node
}

func buildRangeNode(r debuginfo.Range) *tview.TreeNode {
	switch v := r.(type) {
	case *debuginfo.CallRange:
		label := fmt.Sprintf("call [%d, %d) line %d", v.Lo, v.Hi, v.Line)
		if v.Method != nil {
			label = fmt.Sprintf("call %s [%d, %d) line %d", v.Method.Name, v.Lo, v.Hi, v.Line)
		}
		node := tview.NewTreeNode(label).SetColor(tcell.ColorFuchsia).SetReference(v)
		for _, c := range v.Children {
			node.AddChild(buildRangeNode(c))
		}
		return node
	case *debuginfo.LeafRange:
		label := fmt.Sprintf("leaf [%d, %d) line %d (%d locals)", v.Lo, v.Hi, v.Line, len(v.Locals))
		return tview.NewTreeNode(label).SetColor(tcell.ColorWhite).SetReference(v)
	default:
		return tview.NewTreeNode("?")
	}
}

// NewApp wraps a tree built from classes in a tview.Application: a single
// TreeView filling the screen, 'q' or Ctrl-C quitting.
func NewApp(classes []*debuginfo.ClassEntry) *tview.Application {
	root := BuildTree(classes)
	root.SetExpanded(true)

	view := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)

	view.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	app := tview.NewApplication().SetRoot(view, true)
	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app
}
