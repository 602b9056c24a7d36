package table

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"btreedb/pager"
)

func openTree(t *testing.T, path string) (*pager.Pager, *Tree) {
	t.Helper()
	pg, err := pager.Open(path)
	if err != nil {
		t.Fatalf("pager.Open: %v", err)
	}
	tr, err := Open(pg)
	if err != nil {
		t.Fatalf("table.Open: %v", err)
	}
	return pg, tr
}

func rowFor(id uint32) Row {
	return Row{ID: id, Username: "user", Email: "user@example.com"}
}

func scanAll(t *testing.T, tr *Tree) []uint32 {
	t.Helper()
	c, err := tr.ScanStart()
	if err != nil {
		t.Fatalf("ScanStart: %v", err)
	}
	var ids []uint32
	for !c.EndOfTable {
		row, err := c.Row()
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		ids = append(ids, row.ID)
		if err := c.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	return ids
}

// S1 — basic round trip, including reopen.
func TestBasicRoundTripAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1.db")
	pg, tr := openTree(t, path)

	if err := tr.Insert(rowFor(1)); err != nil {
		t.Fatalf("Insert(1): %v", err)
	}
	if err := tr.Insert(rowFor(2)); err != nil {
		t.Fatalf("Insert(2): %v", err)
	}
	if got, want := scanAll(t, tr), []uint32{1, 2}; !equalIDs(got, want) {
		t.Fatalf("scan before close: got %v, want %v", got, want)
	}
	if err := pg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pg2, tr2 := openTree(t, path)
	defer pg2.Close()
	if got, want := scanAll(t, tr2), []uint32{1, 2}; !equalIDs(got, want) {
		t.Fatalf("scan after reopen: got %v, want %v", got, want)
	}
}

// S2 — duplicate insert is rejected and leaves the tree unchanged.
func TestDuplicateKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s2.db")
	pg, tr := openTree(t, path)
	defer pg.Close()

	a := Row{ID: 1, Username: "a", Email: "a@x"}
	b := Row{ID: 1, Username: "b", Email: "b@x"}

	if err := tr.Insert(a); err != nil {
		t.Fatalf("Insert(a): %v", err)
	}
	if err := tr.Insert(b); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	c, err := tr.Find(1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	row, err := c.Row()
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row != a {
		t.Errorf("expected original row preserved, got %+v", row)
	}
}

// S3 — out-of-order inserts still scan in ascending order.
func TestOutOfOrderInsertScansAscending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3.db")
	pg, tr := openTree(t, path)
	defer pg.Close()

	for _, id := range []uint32{3, 1, 2} {
		if err := tr.Insert(rowFor(id)); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}
	if got, want := scanAll(t, tr), []uint32{1, 2, 3}; !equalIDs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// S4 — the LeafMaxCells+1-th insert produces a three-node tree: an
// internal root of size 1 with two leaves split roughly in half.
func TestFirstLeafSplitProducesInternalRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s4.db")
	pg, tr := openTree(t, path)
	defer pg.Close()

	for id := uint32(1); id <= LeafMaxCells+1; id++ {
		if err := tr.Insert(rowFor(id)); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	var buf bytes.Buffer
	if err := tr.DumpTree(&buf); err != nil {
		t.Fatalf("DumpTree: %v", err)
	}
	dump := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("internal (size 1)")) {
		t.Errorf("expected internal root of size 1, got:\n%s", dump)
	}

	ids := scanAll(t, tr)
	if len(ids) != int(LeafMaxCells+1) {
		t.Fatalf("expected %d rows, got %d", LeafMaxCells+1, len(ids))
	}
	for i, id := range ids {
		if id != uint32(i+1) {
			t.Fatalf("scan not sorted: %v", ids)
		}
	}
}

// S5 — reverse insertion still scans ascending regardless of tree
// shape.
func TestReverseInsertionThenScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s5.db")
	pg, tr := openTree(t, path)
	defer pg.Close()

	for id := int(LeafMaxCells + 1); id >= 1; id-- {
		if err := tr.Insert(rowFor(uint32(id))); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}
	ids := scanAll(t, tr)
	for i, id := range ids {
		if id != uint32(i+1) {
			t.Fatalf("scan not sorted ascending: %v", ids)
		}
	}
}

// S6 — persistence across close: further inserts after reopen still
// scan correctly.
func TestPersistenceAcrossCloseThenInsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s6.db")
	pg, tr := openTree(t, path)

	for _, id := range []uint32{1, 2, 3} {
		if err := tr.Insert(rowFor(id)); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}
	if err := pg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pg2, tr2 := openTree(t, path)
	defer pg2.Close()
	if err := tr2.Insert(rowFor(4)); err != nil {
		t.Fatalf("Insert(4): %v", err)
	}
	if got, want := scanAll(t, tr2), []uint32{1, 2, 3, 4}; !equalIDs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// Large sequential insert drives multiple leaf splits and at least
// one internal-node split (the case the original source left
// unimplemented), checking the tree stays correctly ordered and
// persists across reopen.
func TestManyInsertsDriveInternalSplit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.db")
	pg, tr := openTree(t, path)

	const n = 200
	for id := uint32(1); id <= n; id++ {
		if err := tr.Insert(rowFor(id)); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	ids := scanAll(t, tr)
	if len(ids) != n {
		t.Fatalf("expected %d rows, got %d", n, len(ids))
	}
	for i, id := range ids {
		if id != uint32(i+1) {
			t.Fatalf("scan not sorted at index %d: %v", i, ids)
		}
	}

	if err := pg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	pg2, tr2 := openTree(t, path)
	defer pg2.Close()
	if got := scanAll(t, tr2); !equalIDs(got, ids) {
		t.Fatalf("mismatch after reopen: got %v, want %v", got, ids)
	}

	// Every inserted key must still be found by direct lookup.
	for id := uint32(1); id <= n; id++ {
		c, err := tr2.Find(id)
		if err != nil {
			t.Fatalf("Find(%d): %v", id, err)
		}
		row, err := c.Row()
		if err != nil {
			t.Fatalf("Row(%d): %v", id, err)
		}
		if row.ID != id {
			t.Fatalf("Find(%d) landed on row %d", id, row.ID)
		}
	}
}

func TestEmptyDatabaseScanIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	pg, tr := openTree(t, path)
	defer pg.Close()

	if ids := scanAll(t, tr); len(ids) != 0 {
		t.Errorf("expected no rows, got %v", ids)
	}

	var buf bytes.Buffer
	if err := tr.DumpTree(&buf); err != nil {
		t.Fatalf("DumpTree: %v", err)
	}
	if buf.String() != "- leaf (size 0)\n" {
		t.Errorf("unexpected empty dump: %q", buf.String())
	}
}

func equalIDs(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
