package fs

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func entryNames(entries []DirEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.String()
	}
	return names
}

func TestMkdirAll(t *testing.T) {
	t.Run("CreatesParents", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a/b/c"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		entries, err := m.List("/a/b")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 1 || entries[0].String() != "c/" {
			t.Errorf("Expected [c/], got %v", entryNames(entries))
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a/b"); err != nil {
			t.Fatalf("First MkdirAll failed: %v", err)
		}
		if err := m.MkdirAll("/a/b"); err != nil {
			t.Fatalf("Second MkdirAll failed: %v", err)
		}
		entries, err := m.List("/a")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected a single b/, got %v", entryNames(entries))
		}
	})

	t.Run("RootIsNoop", func(t *testing.T) {
		m := New(Limits{})
		for _, p := range []string{"/", "", "//"} {
			if err := m.MkdirAll(p); err != nil {
				t.Errorf("MkdirAll(%q) should be a no-op success, got %v", p, err)
			}
		}
	})

	t.Run("FileInPath", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.MkdirAll("/f/sub"); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("Expected ErrNotADirectory, got %v", err)
		}
		if err := m.MkdirAll("/f"); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("Expected ErrNotADirectory for leaf file, got %v", err)
		}
	})

	t.Run("ReadOnlyParent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/locked"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.SetAttr("/locked", AttrReadOnly); err != nil {
			t.Fatalf("SetAttr failed: %v", err)
		}
		if err := m.MkdirAll("/locked/sub"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly, got %v", err)
		}
	})

	t.Run("TouchesTraversedDirectories", func(t *testing.T) {
		m, clk := newClockedFS(t)
		if err := m.MkdirAll("/a/b"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		aBefore, err := m.Stat("/a")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		bBefore, err := m.Stat("/a/b")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}

		clk.advance(time.Second)
		if err := m.MkdirAll("/a/b/c"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}

		// The single pass touches accessed on every directory it walks
		// through, and modified only where a child was created.
		aAfter, err := m.Stat("/a")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if !aAfter.Accessed.After(aBefore.Accessed) {
			t.Error("Traversal should touch accessed on /a")
		}
		if !aAfter.Modified.Equal(aBefore.Modified) {
			t.Error("Traversal alone must not advance modified on /a")
		}
		bAfter, err := m.Stat("/a/b")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if !bAfter.Modified.After(bBefore.Modified) {
			t.Error("Creating c should advance modified on /a/b")
		}
	})

	t.Run("RelativeWithDots", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Chdir("/a"); err != nil {
			t.Fatalf("Chdir failed: %v", err)
		}
		if err := m.MkdirAll("./sub/../sub2"); err != nil {
			t.Fatalf("MkdirAll with dots failed: %v", err)
		}
		if _, err := m.Stat("/a/sub"); err != nil {
			t.Errorf("Expected /a/sub to exist: %v", err)
		}
		if _, err := m.Stat("/a/sub2"); err != nil {
			t.Errorf("Expected /a/sub2 to exist: %v", err)
		}
	})
}

func TestCreate(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/a/f.txt"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		info, err := m.Stat("/a/f.txt")
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Kind != KindFile || info.Size != 0 {
			t.Errorf("Expected empty file, got kind=%v size=%d", info.Kind, info.Size)
		}
	})

	t.Run("NoOverwrite", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Create("/f"); !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists for file, got %v", err)
		}
		if err := m.MkdirAll("/d"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/d"); !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists for directory, got %v", err)
		}
	})

	t.Run("InvalidNames", func(t *testing.T) {
		m := New(Limits{})
		for _, p := range []string{"/.", "/..", "/a/."} {
			if err := m.Create(p); !errors.Is(err, ErrInvalidName) && !errors.Is(err, ErrNotFound) {
				t.Errorf("Create(%q): expected invalid name or not found, got %v", p, err)
			}
		}
	})

	t.Run("MissingParent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/nope/f"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ReadOnlyParent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/locked"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.SetAttr("/locked", AttrReadOnly); err != nil {
			t.Fatalf("SetAttr failed: %v", err)
		}
		if err := m.Create("/locked/f"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly, got %v", err)
		}
	})

	t.Run("FanOutBound", func(t *testing.T) {
		m := New(Limits{MaxChildren: 3})
		for i := 0; i < 3; i++ {
			if err := m.Create(fmt.Sprintf("/f%d", i)); err != nil {
				t.Fatalf("Create %d failed: %v", i, err)
			}
		}
		if err := m.Create("/f3"); !errors.Is(err, ErrCapacity) {
			t.Errorf("Expected ErrCapacity, got %v", err)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Remove("/f"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, err := m.Stat("/f"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after remove, got %v", err)
		}
	})

	t.Run("DirectoryNotRemoved", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/d"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Remove("/d"); !errors.Is(err, ErrNotAFile) {
			t.Errorf("Expected ErrNotAFile, got %v", err)
		}
		if _, err := m.Stat("/d"); err != nil {
			t.Errorf("Directory should survive: %v", err)
		}
	})

	t.Run("ReadOnlyTarget", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.SetAttr("/f", AttrReadOnly); err != nil {
			t.Fatalf("SetAttr failed: %v", err)
		}
		if err := m.Remove("/f"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly, got %v", err)
		}
		// Clearing the attribute unlocks removal.
		if err := m.SetAttr("/f", AttrNone); err != nil {
			t.Fatalf("SetAttr failed: %v", err)
		}
		if err := m.Remove("/f"); err != nil {
			t.Errorf("Remove after clearing read-only failed: %v", err)
		}
	})

	t.Run("SwapWithLast", func(t *testing.T) {
		m := New(Limits{})
		for _, n := range []string{"a", "b", "c"} {
			if err := m.Create("/" + n); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}
		if err := m.Remove("/a"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		entries, err := m.List("/")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		got := entryNames(entries)
		if len(got) != 2 || got[0] != "c" || got[1] != "b" {
			t.Errorf("Expected swap-with-last order [c b], got %v", got)
		}
	})
}

func TestRemoveDir(t *testing.T) {
	t.Run("MustBeEmpty", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/d/sub"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.RemoveDir("/d"); !errors.Is(err, ErrNotEmpty) {
			t.Errorf("Expected ErrNotEmpty, got %v", err)
		}
		if err := m.RemoveDir("/d/sub"); err != nil {
			t.Fatalf("RemoveDir of empty dir failed: %v", err)
		}
		// Once the last child is gone removal succeeds unconditionally.
		if err := m.RemoveDir("/d"); err != nil {
			t.Errorf("RemoveDir after emptying failed: %v", err)
		}
	})

	t.Run("RootNeverRemoved", func(t *testing.T) {
		m := New(Limits{})
		if err := m.RemoveDir("/"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("FileTarget", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.RemoveDir("/f"); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("Expected ErrNotADirectory, got %v", err)
		}
	})

	t.Run("CwdFallsBackToParent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a/b"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Chdir("/a/b"); err != nil {
			t.Fatalf("Chdir failed: %v", err)
		}
		if err := m.RemoveDir("/a/b"); err != nil {
			t.Fatalf("RemoveDir failed: %v", err)
		}
		if got := m.Getwd(); got != "/a" {
			t.Errorf("Expected cwd /a after removing it, got %q", got)
		}
	})
}

func TestRename(t *testing.T) {
	t.Run("SameParent", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/old"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Rename("/old", "/new"); err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if _, err := m.Stat("/old"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Old name should be gone, got %v", err)
		}
		if _, err := m.Stat("/new"); err != nil {
			t.Errorf("New name should exist: %v", err)
		}
	})

	t.Run("CrossParentMove", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/src"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.MkdirAll("/dst"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/src/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := m.WriteAt("/src/f", 0, []byte("payload")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := m.Rename("/src/f", "/dst/g"); err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		data, err := m.ReadAt("/dst/g", 0, 16)
		if err != nil {
			t.Fatalf("Read after move failed: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("Expected content to move, got %q", data)
		}
	})

	t.Run("DestinationCollision", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/d"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/x"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Create("/d/x"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Rename("/x", "/d/x"); !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists, got %v", err)
		}
		// The source must remain attached to its original parent.
		if _, err := m.Stat("/x"); err != nil {
			t.Errorf("Source should still exist after failed rename: %v", err)
		}
	})

	t.Run("CapacityRollback", func(t *testing.T) {
		m := New(Limits{MaxChildren: 2})
		if err := m.MkdirAll("/d"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/d/a"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Create("/d/b"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Create("/x"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.Rename("/x", "/d/c"); !errors.Is(err, ErrCapacity) {
			t.Fatalf("Expected ErrCapacity, got %v", err)
		}
		if _, err := m.Stat("/x"); err != nil {
			t.Errorf("Source should be rolled back to its parent: %v", err)
		}
	})

	t.Run("RootNotRenamed", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Rename("/", "/r"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("NoMoveIntoOwnSubtree", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/d/sub"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Rename("/d", "/d/sub/d2"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("ReadOnlyGates", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := m.SetAttr("/f", AttrReadOnly); err != nil {
			t.Fatalf("SetAttr failed: %v", err)
		}
		if err := m.Rename("/f", "/g"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Run("Markers", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/d"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		entries, err := m.List("/")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		got := entryNames(entries)
		if len(got) != 2 || got[0] != "d/" || got[1] != "f" {
			t.Errorf("Expected [d/ f], got %v", got)
		}
	})

	t.Run("DefaultsToCwd", func(t *testing.T) {
		m := New(Limits{})
		if err := m.MkdirAll("/a/inner"); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := m.Chdir("/a"); err != nil {
			t.Fatalf("Chdir failed: %v", err)
		}
		entries, err := m.List("")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Name != "inner" {
			t.Errorf("Expected [inner/], got %v", entryNames(entries))
		}
	})

	t.Run("NotADirectory", func(t *testing.T) {
		m := New(Limits{})
		if err := m.Create("/f"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := m.List("/f"); !errors.Is(err, ErrNotADirectory) {
			t.Errorf("Expected ErrNotADirectory, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		m := New(Limits{})
		if _, err := m.List("/nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
