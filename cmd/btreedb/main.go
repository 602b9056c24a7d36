// Command btreedb is the interactive REPL for the embedded B+tree
// database. It is the external adapter described by the core: it
// parses input into statements and drives open/close/insert/scan on
// the core, but holds none of the storage logic itself.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"btreedb/pager"
	"btreedb/table"
)

type database struct {
	pager *pager.Pager
	tree  *table.Tree
}

func openDatabase(path string) (*database, error) {
	pg, err := pager.Open(path)
	if err != nil {
		return nil, err
	}
	t, err := table.Open(pg)
	if err != nil {
		return nil, err
	}
	return &database{pager: pg, tree: t}, nil
}

func (db *database) Close() error {
	return db.pager.Close()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Must supply a database filename.")
		os.Exit(1)
	}

	db, err := openDatabase(os.Args[1])
	if err != nil {
		fmt.Println("Unable to open database:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		line, err := readInput(reader)
		if err != nil {
			fmt.Println("Error reading input:", err)
			os.Exit(1)
		}
		if line == "" {
			continue
		}

		if line[0] == '.' {
			if doMetaCommand(db, line) == metaCommandUnrecognized {
				fmt.Printf("Unrecognized command %q.\n", line)
			}
			continue
		}

		stmt, err := prepareStatement(line)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		executeStatement(db, stmt)
	}
}

func executeStatement(db *database, stmt statement) {
	switch stmt.typ {
	case statementInsert:
		if err := db.tree.Insert(stmt.row); err != nil {
			if errors.Is(err, table.ErrDuplicateKey) {
				fmt.Println("Error: Duplicate Key.")
				return
			}
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Executed.")
	case statementSelect:
		if err := executeSelect(db); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Executed.")
	}
}

func executeSelect(db *database) error {
	c, err := db.tree.ScanStart()
	if err != nil {
		return err
	}
	for !c.EndOfTable {
		row, err := c.Row()
		if err != nil {
			return err
		}
		fmt.Printf("(%d, %s, %s)\n", row.ID, row.Username, row.Email)
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}
