package table

// Cursor is a short-lived position within the tree: a leaf page and
// cell index, plus an end-of-table flag. It is always produced by a
// tree operation (Find, ScanStart) and holds no ownership over pages.
// A cursor does not survive structural tree changes — after an
// Insert that triggers a split, any cursor returned by a prior Find
// must not be reused.
type Cursor struct {
	tree       *Tree
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Value returns the RowSize-byte slice holding the cursor's row
// inside its leaf page. The caller may read or write through it.
func (c *Cursor) Value() ([]byte, error) {
	p, err := c.tree.pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	return Leaf(p).CellValue(c.CellNum), nil
}

// Row decodes the cursor's current row.
func (c *Cursor) Row() (Row, error) {
	v, err := c.Value()
	if err != nil {
		return Row{}, err
	}
	return DecodeRow(v), nil
}

// Advance moves the cursor to the next key in ascending order,
// following the leaf sibling chain when the current leaf is
// exhausted. It is a no-op once EndOfTable is set.
func (c *Cursor) Advance() error {
	if c.EndOfTable {
		return nil
	}
	p, err := c.tree.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	leaf := Leaf(p)
	c.CellNum++
	if c.CellNum < leaf.NumCells() {
		return nil
	}
	next := leaf.NextLeaf()
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	c.PageNum = next
	c.CellNum = 0
	nextPage, err := c.tree.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	if Leaf(nextPage).NumCells() == 0 {
		c.EndOfTable = true
	}
	return nil
}
