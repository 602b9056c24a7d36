package table

import (
	"encoding/binary"

	"btreedb/pager"
)

// LeafView is a typed accessor over a page buffer interpreted as a
// leaf node. It holds no state of its own beyond the page reference;
// every read and write goes straight to page.Data, which remains the
// sole authoritative representation of the node.
type LeafView struct {
	page *pager.Page
}

func Leaf(p *pager.Page) LeafView { return LeafView{page: p} }

// InitLeaf zeroes the page and writes an empty leaf header.
func InitLeaf(p *pager.Page, isRoot bool) LeafView {
	p.Data = [pager.PageSize]byte{}
	v := LeafView{page: p}
	v.page.Data[nodeTypeOffset] = nodeTypeLeaf
	v.SetIsRoot(isRoot)
	v.SetParentPage(0)
	v.SetNumCells(0)
	v.SetNextLeaf(0)
	return v
}

func (v LeafView) IsRoot() bool { return v.page.Data[isRootOffset] != 0 }
func (v LeafView) SetIsRoot(b bool) {
	if b {
		v.page.Data[isRootOffset] = 1
	} else {
		v.page.Data[isRootOffset] = 0
	}
}

func (v LeafView) ParentPage() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[parentPointerOffset : parentPointerOffset+4])
}
func (v LeafView) SetParentPage(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[parentPointerOffset:parentPointerOffset+4], n)
}

func (v LeafView) NumCells() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[leafNumCellsOffset : leafNumCellsOffset+4])
}
func (v LeafView) SetNumCells(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[leafNumCellsOffset:leafNumCellsOffset+4], n)
}

func (v LeafView) NextLeaf() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[leafNextLeafOffset : leafNextLeafOffset+4])
}
func (v LeafView) SetNextLeaf(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[leafNextLeafOffset:leafNextLeafOffset+4], n)
}

func (v LeafView) cellOffset(i uint32) int {
	return leafHeaderSize + int(i)*leafCellSize
}

func (v LeafView) CellKey(i uint32) uint32 {
	off := v.cellOffset(i)
	return binary.LittleEndian.Uint32(v.page.Data[off : off+4])
}
func (v LeafView) SetCellKey(i uint32, key uint32) {
	off := v.cellOffset(i)
	binary.LittleEndian.PutUint32(v.page.Data[off:off+4], key)
}

// CellValue returns the RowSize-byte slice holding cell i's row.
func (v LeafView) CellValue(i uint32) []byte {
	off := v.cellOffset(i) + leafKeySize
	return v.page.Data[off : off+RowSize]
}

func (v LeafView) Row(i uint32) Row { return DecodeRow(v.CellValue(i)) }

// MaxKey returns the key of the last cell.
func (v LeafView) MaxKey() uint32 { return v.CellKey(v.NumCells() - 1) }

// moveCell copies cell src to cell dst within the same leaf.
func (v LeafView) moveCell(dst, src uint32) {
	copy(v.page.Data[v.cellOffset(dst):v.cellOffset(dst)+leafCellSize],
		v.page.Data[v.cellOffset(src):v.cellOffset(src)+leafCellSize])
}

// writeCell writes key/row into cell i.
func (v LeafView) writeCell(i uint32, key uint32, row Row) {
	v.SetCellKey(i, key)
	row.Encode(v.CellValue(i))
}

// InternalView is a typed accessor over a page buffer interpreted as
// an internal node.
type InternalView struct {
	page *pager.Page
}

func Internal(p *pager.Page) InternalView { return InternalView{page: p} }

// InitInternal zeroes the page and writes an empty internal header.
func InitInternal(p *pager.Page, isRoot bool) InternalView {
	p.Data = [pager.PageSize]byte{}
	v := InternalView{page: p}
	v.page.Data[nodeTypeOffset] = nodeTypeInternal
	v.SetIsRoot(isRoot)
	v.SetParentPage(0)
	v.SetNumKeys(0)
	v.SetRightChild(0)
	return v
}

func (v InternalView) IsRoot() bool { return v.page.Data[isRootOffset] != 0 }
func (v InternalView) SetIsRoot(b bool) {
	if b {
		v.page.Data[isRootOffset] = 1
	} else {
		v.page.Data[isRootOffset] = 0
	}
}

func (v InternalView) ParentPage() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[parentPointerOffset : parentPointerOffset+4])
}
func (v InternalView) SetParentPage(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[parentPointerOffset:parentPointerOffset+4], n)
}

func (v InternalView) NumKeys() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[internalNumKeysOffset : internalNumKeysOffset+4])
}
func (v InternalView) SetNumKeys(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[internalNumKeysOffset:internalNumKeysOffset+4], n)
}

func (v InternalView) RightChild() uint32 {
	return binary.LittleEndian.Uint32(v.page.Data[internalRightChildOffset : internalRightChildOffset+4])
}
func (v InternalView) SetRightChild(n uint32) {
	binary.LittleEndian.PutUint32(v.page.Data[internalRightChildOffset:internalRightChildOffset+4], n)
}

func (v InternalView) cellOffset(i uint32) int {
	return internalHeaderSize + int(i)*internalCellSize
}

func (v InternalView) ChildPage(i uint32) uint32 {
	off := v.cellOffset(i)
	return binary.LittleEndian.Uint32(v.page.Data[off : off+4])
}
func (v InternalView) SetChildPage(i uint32, child uint32) {
	off := v.cellOffset(i)
	binary.LittleEndian.PutUint32(v.page.Data[off:off+4], child)
}

func (v InternalView) Key(i uint32) uint32 {
	off := v.cellOffset(i) + 4
	return binary.LittleEndian.Uint32(v.page.Data[off : off+4])
}
func (v InternalView) SetKey(i uint32, key uint32) {
	off := v.cellOffset(i) + 4
	binary.LittleEndian.PutUint32(v.page.Data[off:off+4], key)
}

// Child returns the page number of child i, where i may equal
// NumKeys() to mean the right child.
func (v InternalView) Child(i uint32) uint32 {
	if i == v.NumKeys() {
		return v.RightChild()
	}
	return v.ChildPage(i)
}

func (v InternalView) moveCell(dst, src uint32) {
	copy(v.page.Data[v.cellOffset(dst):v.cellOffset(dst)+internalCellSize],
		v.page.Data[v.cellOffset(src):v.cellOffset(src)+internalCellSize])
}

func (v InternalView) writeCell(i uint32, child uint32, key uint32) {
	v.SetChildPage(i, child)
	v.SetKey(i, key)
}

// NodeType reports whether the page at p is a leaf or internal node.
func NodeType(p *pager.Page) byte { return p.Data[nodeTypeOffset] }

func IsLeafPage(p *pager.Page) bool { return NodeType(p) == nodeTypeLeaf }
