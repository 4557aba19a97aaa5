package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/pkg/config"
)

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	archive, err := New(ctx, &config.StorageConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	body := []byte(`{"kind":"decision"}`)
	if err := archive.Put(ctx, "minutes/m1/a.json", body, "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_ = archive.Put(ctx, "minutes/m2/b.json", []byte("{}"), "application/json")
	body[0] = 'X'

	got, err := archive.Get(ctx, "minutes/m1/a.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"kind":"decision"}` {
		t.Errorf("Get() = %s, stored body must not alias the caller's slice", got)
	}

	keys, _ := archive.List(ctx, "minutes/m1/")
	if len(keys) != 1 || keys[0] != "minutes/m1/a.json" {
		t.Errorf("List() = %v, want [minutes/m1/a.json]", keys)
	}

	if _, err := archive.Get(ctx, "missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if url, _ := archive.URL(ctx, "minutes/m2/b.json", 0); url != "memory://minutes/m2/b.json" {
		t.Errorf("URL() = %q", url)
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New(context.Background(), &config.StorageConfig{Type: "s3"}); err == nil {
		t.Error("New(s3) error = nil, want error")
	}
}
