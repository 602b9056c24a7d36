package main

import (
	"fmt"
	"os"

	"btreedb/table"
)

type metaCommandResult int

const (
	metaCommandSuccess metaCommandResult = iota
	metaCommandUnrecognized
)

// doMetaCommand handles a leading-dot command. .exit closes the
// database and terminates the process with exit code 0.
func doMetaCommand(db *database, line string) metaCommandResult {
	switch line {
	case ".exit":
		if err := db.Close(); err != nil {
			fmt.Println("Error closing database:", err)
			os.Exit(1)
		}
		os.Exit(0)
	case ".btree":
		fmt.Println("Tree:")
		if err := db.tree.DumpTree(os.Stdout); err != nil {
			fmt.Println("Error dumping tree:", err)
		}
		return metaCommandSuccess
	case ".constants":
		printConstants()
		return metaCommandSuccess
	}
	return metaCommandUnrecognized
}

func printConstants() {
	fmt.Println("Constants:")
	fmt.Printf("ROW_SIZE: %d\n", table.RowSize)
	fmt.Printf("COMMON_NODE_HEADER_SIZE: %d\n", table.CommonNodeHeaderSize)
	fmt.Printf("LEAF_NODE_HEADER_SIZE: %d\n", table.LeafNodeHeaderSize)
	fmt.Printf("LEAF_NODE_CELL_SIZE: %d\n", table.LeafNodeCellSize)
	fmt.Printf("LEAF_NODE_SPACE_FOR_CELLS: %d\n", table.LeafNodeSpaceForCells)
	fmt.Printf("LEAF_NODE_MAX_CELLS: %d\n", table.LeafMaxCells)
	fmt.Printf("INTERNAL_NODE_MAX_CELLS: %d\n", table.InternalNodeMaxCells)
}
