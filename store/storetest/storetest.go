// Package storetest checks store.Store implementations against the
// behavior every store shares.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/screencast/store"
)

// Run tests the store returned by open. Every call of open must return an
// empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("CreateGet", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		data := []byte("<svg>recording</svg>")

		rec, err := s.Create(ctx, ".SVG", data)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if len(rec.ID) != 26 {
			t.Errorf("Create returned id %q, want a ULID", rec.ID)
		}
		if rec.Extension != "svg" || rec.Size != int64(len(data)) {
			t.Errorf("Create = %+v", rec)
		}
		if d := time.Since(rec.CreatedAt); d < 0 || d > time.Hour {
			t.Errorf("CreatedAt = %v", rec.CreatedAt)
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got.Data, data) {
			t.Errorf("Get data = %q, want %q", got.Data, data)
		}
		if got.ID != rec.ID || got.Extension != "svg" || got.Size != rec.Size || !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("Get = %+v, want %+v", got, rec)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		rec, err := s.Create(ctx, "msgpack", nil)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got.Data) != 0 || got.Size != 0 {
			t.Errorf("Get = %+v", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("new store lists %d recordings", len(list))
		}

		var ids []string
		for i, ext := range []string{"svg", "msgpack", "svg"} {
			rec, err := s.Create(ctx, ext, bytes.Repeat([]byte("x"), i+1))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			ids = append(ids, rec.ID)
		}
		list, err = s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != len(ids) {
			t.Fatalf("List returned %d recordings, want %d", len(list), len(ids))
		}
		for i, rec := range list {
			if rec.ID != ids[i] {
				t.Errorf("List[%d].ID = %s, want %s", i, rec.ID, ids[i])
			}
			if rec.Size != int64(i+1) {
				t.Errorf("List[%d].Size = %d, want %d", i, rec.Size, i+1)
			}
			if rec.Data != nil {
				t.Errorf("List[%d] carries data", i)
			}
		}
		if list[1].Extension != "msgpack" {
			t.Errorf("List[1].Extension = %q", list[1].Extension)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		rec, err := s.Create(ctx, "svg", []byte("a"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := s.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get after Delete = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second Delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		for _, id := range []string{store.NewID(), "../../etc/passwd", ""} {
			_, err := s.Get(ctx, id)
			if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrInvalidID) {
				t.Errorf("Get(%q) = %v, want ErrNotFound or ErrInvalidID", id, err)
			}
		}
	})
}
