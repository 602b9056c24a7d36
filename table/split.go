package table

import "slices"

// splitLeafAndInsert redistributes the LeafMaxCells existing cells
// plus the new (key, row) across the full leaf and a freshly
// allocated sibling, per the virtual-position rule in §4.2.4: the
// left node gets the extra cell when the total is odd.
func (t *Tree) splitLeafAndInsert(oldPageNum, cellNum uint32, key uint32, row Row) error {
	oldPage, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	old := Leaf(oldPage)
	wasRoot := old.IsRoot()
	oldParent := old.ParentPage()
	oldMaxBeforeSplit := old.MaxKey()

	// Snapshot the existing cells before old's buffer is partially
	// overwritten by the redistribution below.
	type snap struct {
		key uint32
		val [RowSize]byte
	}
	existing := make([]snap, LeafMaxCells)
	for i := uint32(0); i < LeafMaxCells; i++ {
		existing[i].key = old.CellKey(i)
		copy(existing[i].val[:], old.CellValue(i))
	}

	newPageNum, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newLeaf := InitLeaf(newPage, false)
	newLeaf.SetNextLeaf(old.NextLeaf())
	newLeaf.SetParentPage(oldParent)
	old.SetNextLeaf(newPageNum)

	const total = LeafMaxCells + 1
	const leftSplit = (total + 1) / 2
	const rightSplit = total - leftSplit

	for i := total - 1; i >= 0; i-- {
		ii := uint32(i)

		var rowKey uint32
		var rowBytes []byte
		switch {
		case ii == cellNum:
			var buf [RowSize]byte
			row.Encode(buf[:])
			rowKey, rowBytes = key, buf[:]
		case ii > cellNum:
			rowKey, rowBytes = existing[ii-1].key, existing[ii-1].val[:]
		default:
			rowKey, rowBytes = existing[ii].key, existing[ii].val[:]
		}

		if ii >= leftSplit {
			dstIdx := ii - leftSplit
			newLeaf.SetCellKey(dstIdx, rowKey)
			copy(newLeaf.CellValue(dstIdx), rowBytes)
		} else {
			old.SetCellKey(ii, rowKey)
			copy(old.CellValue(ii), rowBytes)
		}
	}

	old.SetNumCells(leftSplit)
	newLeaf.SetNumCells(rightSplit)

	if wasRoot {
		_, err := t.createNewRoot(oldPageNum, newPageNum)
		return err
	}

	parentPage, err := t.pager.GetPage(oldParent)
	if err != nil {
		return err
	}
	parent := Internal(parentPage)
	updateInternalKey(parent, oldMaxBeforeSplit, old.MaxKey())
	return t.internalInsert(oldParent, newPageNum)
}

// entry is a (child page, separator key) pair used while redistributing
// an internal node's children during a split.
type entry struct {
	child uint32
	key   uint32
}

// splitInternalAndInsert redistributes oldPageNum's existing children
// plus newChildPageNum across the full node and a freshly allocated
// sibling, symmetric to splitLeafAndInsert: gather every child with
// its subtree-max key (including the implicit RightChild), sort by
// key, give the left half to old, promote the median child's key as
// the new separator, and give the rest (plus the implicit rightmost)
// to the sibling.
func (t *Tree) splitInternalAndInsert(oldPageNum, newChildPageNum uint32, newChildKey uint32) error {
	oldPage, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	old := Internal(oldPage)
	wasRoot := old.IsRoot()
	oldParent := old.ParentPage()
	numKeys := old.NumKeys()

	oldRightChild := old.RightChild()
	oldRightChildMax, err := t.maxKeyInSubtree(oldRightChild)
	if err != nil {
		return err
	}
	// When the new child came from splitting old's right child, it now
	// holds the subtree's previous maximum.
	oldMaxBeforeSplit := oldRightChildMax
	if newChildKey > oldMaxBeforeSplit {
		oldMaxBeforeSplit = newChildKey
	}

	all := make([]entry, 0, numKeys+2)
	for i := uint32(0); i < numKeys; i++ {
		all = append(all, entry{old.ChildPage(i), old.Key(i)})
	}
	all = append(all, entry{oldRightChild, oldRightChildMax})
	all = append(all, entry{newChildPageNum, newChildKey})
	slices.SortFunc(all, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		default:
			return 0
		}
	})

	keysTotal := uint32(len(all) - 1) // InternalNodeMaxCells + 1
	leftSplit := (keysTotal + 1) / 2

	leftEntries := all[:leftSplit]
	promoted := all[leftSplit]
	rightEntries := all[leftSplit+1 : len(all)-1]
	rightRightChild := all[len(all)-1].child

	newPageNum, err := t.pager.AllocatePage()
	if err != nil {
		return err
	}
	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newNode := InitInternal(newPage, false)
	newNode.SetParentPage(oldParent)
	for i, e := range rightEntries {
		newNode.writeCell(uint32(i), e.child, e.key)
	}
	newNode.SetNumKeys(uint32(len(rightEntries)))
	newNode.SetRightChild(rightRightChild)

	for i, e := range leftEntries {
		old.writeCell(uint32(i), e.child, e.key)
	}
	old.SetNumKeys(uint32(len(leftEntries)))
	old.SetRightChild(promoted.child)

	if err := t.reparentChildren(newPageNum, rightEntries, rightRightChild); err != nil {
		return err
	}

	if wasRoot {
		// old's contents (the left half just written above) are about
		// to be relocated onto a fresh page by createNewRoot, so the
		// left entries' children must be reparented to THAT page, not
		// to oldPageNum (which becomes the new internal root).
		lPageNum, err := t.createNewRoot(oldPageNum, newPageNum)
		if err != nil {
			return err
		}
		return t.reparentChildren(lPageNum, leftEntries, promoted.child)
	}

	if err := t.reparentChildren(oldPageNum, leftEntries, promoted.child); err != nil {
		return err
	}

	parentPage, err := t.pager.GetPage(oldParent)
	if err != nil {
		return err
	}
	parent := Internal(parentPage)
	updateInternalKey(parent, oldMaxBeforeSplit, promoted.key)
	return t.internalInsert(oldParent, newPageNum)
}

// reparentChildren rewrites parent_page to owner on every child in
// entries plus rightChild, closing the staleness hazard noted in §9.
func (t *Tree) reparentChildren(owner uint32, entries []entry, rightChild uint32) error {
	for _, e := range entries {
		p, err := t.pager.GetPage(e.child)
		if err != nil {
			return err
		}
		setNodeParent(p, owner)
	}
	p, err := t.pager.GetPage(rightChild)
	if err != nil {
		return err
	}
	setNodeParent(p, owner)
	return nil
}

// createNewRoot is triggered when the root (page 0) has just split.
// It allocates a fresh page L, copies the current root buffer
// verbatim into L, clears L's is_root flag, then re-initializes page
// 0 in place as an internal node with L and newPageNum as its two
// children. This preserves "page 0 is the root" across splits without
// rewriting any of L's or newPageNum's descendants. It returns L's
// page number so the caller can reparent L's own children, whose
// parent pointers still point at the old root page.
func (t *Tree) createNewRoot(oldRootPageNum, newPageNum uint32) (uint32, error) {
	oldRootPage, err := t.pager.GetPage(oldRootPageNum)
	if err != nil {
		return 0, err
	}

	lPageNum, err := t.pager.AllocatePage()
	if err != nil {
		return 0, err
	}
	lPage, err := t.pager.GetPage(lPageNum)
	if err != nil {
		return 0, err
	}
	lPage.Data = oldRootPage.Data
	setNodeParent(lPage, oldRootPageNum)
	if IsLeafPage(lPage) {
		Leaf(lPage).SetIsRoot(false)
	} else {
		Internal(lPage).SetIsRoot(false)
	}

	lMaxKey, err := t.maxKeyInSubtree(lPageNum)
	if err != nil {
		return 0, err
	}

	newPage, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return 0, err
	}
	setNodeParent(newPage, oldRootPageNum)

	root := InitInternal(oldRootPage, true)
	root.SetNumKeys(1)
	root.SetChildPage(0, lPageNum)
	root.SetKey(0, lMaxKey)
	root.SetRightChild(newPageNum)
	return lPageNum, nil
}
