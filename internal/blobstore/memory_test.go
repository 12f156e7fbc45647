package blobstore

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestMemoryPutGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	meta := map[string]string{"albumId": "1", "filename": "a.jpg"}
	if err := store.Put(ctx, "albums/1/a.jpg", []byte("payload"), "image/jpeg", meta); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, info, err := store.Get(ctx, "albums/1/a.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}
	if info.ContentType != "image/jpeg" || info.Size != 7 {
		t.Errorf("info = %+v", info)
	}
	if got := store.Metadata("albums/1/a.jpg"); got["filename"] != "a.jpg" {
		t.Errorf("metadata = %v", got)
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	store := NewMemory()
	_, _, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("x"), "image/jpeg", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Has("k") {
		t.Error("object still present after delete")
	}
	// Absent object: still success.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v, want nil", err)
	}
}

func TestMemoryFaultInjection(t *testing.T) {
	store := NewMemory()
	boom := errors.New("injected")
	store.FailPut = func(key string) error {
		if key == "bad" {
			return boom
		}
		return nil
	}

	ctx := context.Background()
	if err := store.Put(ctx, "good", []byte("x"), "image/jpeg", nil); err != nil {
		t.Fatalf("Put good: %v", err)
	}
	if err := store.Put(ctx, "bad", []byte("x"), "image/jpeg", nil); !errors.Is(err, boom) {
		t.Errorf("Put bad: got %v, want injected error", err)
	}
	if store.Has("bad") {
		t.Error("failed Put must not store the object")
	}
}

func TestMemoryRespectsContext(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "k", []byte("x"), "image/jpeg", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put on canceled ctx: %v", err)
	}
}
