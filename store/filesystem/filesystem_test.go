package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/screencast/store"
	"github.com/gogpu/screencast/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		return s
	})
}

func TestLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := s.Create(context.Background(), "svg", []byte("<svg/>"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, rec.ID+".svg")); err != nil {
		t.Errorf("recording file: %v", err)
	}

	// Foreign files are not listed.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	os.Mkdir(filepath.Join(dir, store.NewID()+".d"), 0o755)
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("List = %+v", list)
	}
}

func TestBadExtension(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{"../svg", "tar.gz", `a\b`} {
		if _, err := s.Create(context.Background(), ext, nil); err == nil {
			t.Errorf("Create with extension %q succeeded", ext)
		}
	}
}
