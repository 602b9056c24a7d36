// Package table implements the B+tree storage engine: node layout,
// search, ordered insertion with leaf and internal splits, and the
// cursor used for point lookups and ordered scans. Every node is
// interpreted directly from its page buffer (see node.go); there is
// no shadow in-memory node representation.
package table

import (
	"fmt"
	"sort"

	"btreedb/pager"
)

// Tree is a B+tree over a single pager. Page 0 is always the root;
// this identity is preserved across root splits (see createNewRoot).
type Tree struct {
	pager *pager.Pager
}

// Open binds a Tree to pg, initializing page 0 as an empty leaf root
// if the file is brand new.
func Open(pg *pager.Pager) (*Tree, error) {
	t := &Tree{pager: pg}
	if pg.NumPages() == 0 {
		p0, err := pg.GetPage(0)
		if err != nil {
			return nil, fmt.Errorf("table: init root: %w", err)
		}
		InitLeaf(p0, true)
	}
	return t, nil
}

// Find descends from the root and returns a cursor at key's position:
// on the cell holding key if present, otherwise at the insertion
// index. EndOfTable is left false; callers that want scan semantics
// use ScanStart.
func (t *Tree) Find(key uint32) (*Cursor, error) {
	return t.findFrom(0, key)
}

func (t *Tree) findFrom(pageNum uint32, key uint32) (*Cursor, error) {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	if IsLeafPage(p) {
		leaf := Leaf(p)
		idx := leafFindIndex(leaf, key)
		return &Cursor{tree: t, PageNum: pageNum, CellNum: idx}, nil
	}
	in := Internal(p)
	idx := internalFindChildIndex(in, key)
	return t.findFrom(in.Child(idx), key)
}

// leafFindIndex returns the smallest index i with CellKey(i) >= target.
func leafFindIndex(leaf LeafView, target uint32) uint32 {
	n := leaf.NumCells()
	idx := sort.Search(int(n), func(i int) bool {
		return leaf.CellKey(uint32(i)) >= target
	})
	return uint32(idx)
}

// internalFindChildIndex returns the smallest index i with Key(i) >=
// target, or NumKeys() if every key is smaller (meaning: follow
// RightChild). Equality steers left, matching the left-leaning
// separator convention in §4.2.1.
func internalFindChildIndex(in InternalView, target uint32) uint32 {
	n := in.NumKeys()
	idx := sort.Search(int(n), func(i int) bool {
		return in.Key(uint32(i)) >= target
	})
	return uint32(idx)
}

// ScanStart returns a cursor positioned at the leftmost key, with
// EndOfTable set if the tree is empty.
func (t *Tree) ScanStart() (*Cursor, error) {
	c, err := t.Find(0)
	if err != nil {
		return nil, err
	}
	p, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	c.EndOfTable = Leaf(p).NumCells() == 0
	return c, nil
}

// Insert adds row into the tree, splitting nodes as needed. It
// returns ErrDuplicateKey without mutating anything if row.ID already
// exists.
func (t *Tree) Insert(row Row) error {
	c, err := t.Find(row.ID)
	if err != nil {
		return err
	}
	p, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	leaf := Leaf(p)
	if c.CellNum < leaf.NumCells() && leaf.CellKey(c.CellNum) == row.ID {
		return ErrDuplicateKey
	}
	return t.leafInsert(c.PageNum, c.CellNum, row.ID, row)
}

// leafInsert places (key, row) at cellNum within the leaf at
// pageNum, shifting existing cells right, or splits the leaf first if
// it is already full.
func (t *Tree) leafInsert(pageNum, cellNum uint32, key uint32, row Row) error {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	leaf := Leaf(p)
	if leaf.NumCells() >= LeafMaxCells {
		return t.splitLeafAndInsert(pageNum, cellNum, key, row)
	}
	n := leaf.NumCells()
	for i := n; i > cellNum; i-- {
		leaf.moveCell(i, i-1)
	}
	leaf.writeCell(cellNum, key, row)
	leaf.SetNumCells(n + 1)
	return nil
}

// setNodeParent writes parent into p's header regardless of node
// type. Used to eagerly fix up parent pointers on every structural
// change (§9 "Parent back-pointers").
func setNodeParent(p *pager.Page, parent uint32) {
	if IsLeafPage(p) {
		Leaf(p).SetParentPage(parent)
	} else {
		Internal(p).SetParentPage(parent)
	}
}

// maxKeyInSubtree returns the largest key reachable under pageNum by
// following right-hand children down to a leaf.
func (t *Tree) maxKeyInSubtree(pageNum uint32) (uint32, error) {
	p, err := t.pager.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	if IsLeafPage(p) {
		leaf := Leaf(p)
		if leaf.NumCells() == 0 {
			return 0, nil
		}
		return leaf.MaxKey(), nil
	}
	in := Internal(p)
	return t.maxKeyInSubtree(in.RightChild())
}

// updateInternalKey finds the child slot whose separator equals
// oldKey and overwrites it with newKey. If oldKey isn't present as an
// explicit separator (it was the implicit max held by RightChild),
// there is nothing to update — the parent's own separator for this
// node will be refreshed by its caller instead.
func updateInternalKey(parent InternalView, oldKey, newKey uint32) {
	idx := internalFindChildIndex(parent, oldKey)
	if idx < parent.NumKeys() && parent.Key(idx) == oldKey {
		parent.SetKey(idx, newKey)
	}
}

// internalInsert registers newChildPageNum as a new child of the
// internal node at parentPageNum, splitting the parent first if it is
// already at capacity.
func (t *Tree) internalInsert(parentPageNum, newChildPageNum uint32) error {
	k, err := t.maxKeyInSubtree(newChildPageNum)
	if err != nil {
		return err
	}

	newChildPage, err := t.pager.GetPage(newChildPageNum)
	if err != nil {
		return err
	}
	setNodeParent(newChildPage, parentPageNum)

	parentPage, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := Internal(parentPage)

	if parent.NumKeys() == InternalNodeMaxCells {
		return t.splitInternalAndInsert(parentPageNum, newChildPageNum, k)
	}

	numKeys := parent.NumKeys()
	rightChildPage := parent.RightChild()
	rightChildMax, err := t.maxKeyInSubtree(rightChildPage)
	if err != nil {
		return err
	}

	if k > rightChildMax {
		parent.writeCell(numKeys, rightChildPage, rightChildMax)
		parent.SetRightChild(newChildPageNum)
	} else {
		idx := internalFindChildIndex(parent, k)
		for i := numKeys; i > idx; i-- {
			parent.moveCell(i, i-1)
		}
		parent.writeCell(idx, newChildPageNum, k)
	}
	parent.SetNumKeys(numKeys + 1)
	return nil
}
