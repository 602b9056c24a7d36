package table

import (
	"fmt"
	"io"
	"strings"
)

// DumpTree writes a preorder diagnostic dump of the tree rooted at
// page 0 to w: each node as "leaf (size K)" or "internal (size K)",
// indented by nesting level, with internal-node children recursed
// between successive keys so the keys print interleaved with their
// subtrees.
func (t *Tree) DumpTree(w io.Writer) error {
	return t.dumpNode(w, 0, 0)
}

func indent(w io.Writer, level int) {
	fmt.Fprint(w, strings.Repeat("  ", level))
}

func (t *Tree) dumpNode(w io.Writer, pageNum uint32, level int) error {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	if IsLeafPage(p) {
		leaf := Leaf(p)
		indent(w, level)
		fmt.Fprintf(w, "- leaf (size %d)\n", leaf.NumCells())
		for i := uint32(0); i < leaf.NumCells(); i++ {
			indent(w, level+1)
			fmt.Fprintf(w, "- %d\n", leaf.CellKey(i))
		}
		return nil
	}

	in := Internal(p)
	indent(w, level)
	fmt.Fprintf(w, "- internal (size %d)\n", in.NumKeys())
	for i := uint32(0); i < in.NumKeys(); i++ {
		if err := t.dumpNode(w, in.ChildPage(i), level+1); err != nil {
			return err
		}
		indent(w, level+1)
		fmt.Fprintf(w, "- key %d\n", in.Key(i))
	}
	return t.dumpNode(w, in.RightChild(), level+1)
}
