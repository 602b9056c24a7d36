package table

import "btreedb/pager"

// Common node header: node_type(1) + is_root(1) + parent_page(4).
const (
	nodeTypeOffset      = 0
	nodeTypeSize        = 1
	isRootOffset        = nodeTypeOffset + nodeTypeSize
	isRootSize          = 1
	parentPointerOffset = isRootOffset + isRootSize
	parentPointerSize   = 4

	commonNodeHeaderSize = nodeTypeSize + isRootSize + parentPointerSize
)

// Leaf header adds num_cells(4) + next_leaf(4).
const (
	leafNumCellsOffset = commonNodeHeaderSize
	leafNumCellsSize   = 4
	leafNextLeafOffset = leafNumCellsOffset + leafNumCellsSize
	leafNextLeafSize   = 4

	leafHeaderSize = commonNodeHeaderSize + leafNumCellsSize + leafNextLeafSize

	leafKeySize  = 4
	leafCellSize = leafKeySize + RowSize

	leafSpaceForCells = pager.PageSize - leafHeaderSize
	// LeafMaxCells is the number of (key, row) cells that fit in a
	// single leaf page.
	LeafMaxCells = leafSpaceForCells / leafCellSize
)

// CommonNodeHeaderSize, LeafNodeHeaderSize, LeafNodeCellSize, and
// LeafNodeSpaceForCells are exported for the .constants meta-command.
const (
	CommonNodeHeaderSize  = commonNodeHeaderSize
	LeafNodeHeaderSize    = leafHeaderSize
	LeafNodeCellSize      = leafCellSize
	LeafNodeSpaceForCells = leafSpaceForCells
)

// Internal header adds num_keys(4) + right_child(4).
const (
	internalNumKeysOffset    = commonNodeHeaderSize
	internalNumKeysSize      = 4
	internalRightChildOffset = internalNumKeysOffset + internalNumKeysSize
	internalRightChildSize   = 4

	internalHeaderSize = commonNodeHeaderSize + internalNumKeysSize + internalRightChildSize

	internalKeySize  = 4
	internalCellSize = 4 + internalKeySize // child_page(4) + key(4)

	// InternalNodeMaxCells caps num_keys per internal node, kept small
	// deliberately so internal splits are exercised at small scale.
	InternalNodeMaxCells = 3
)

const (
	nodeTypeInternal byte = 0
	nodeTypeLeaf     byte = 1
)
