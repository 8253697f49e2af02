package models

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/store"
)

const libraryYAML = `name: Library
classes:
- name: Book
  operations:
  - name: lend
    returnType: Boolean
enumerations:
- name: Genre
  literals: [fiction]
`

func TestImportExportRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	in := filepath.Join(dir, "library.yaml")
	if err := os.WriteFile(in, []byte(libraryYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := &app.Service{Persistence: store.NewMemory()}
	var out bytes.Buffer

	imp := Import{App: svc, Path: in, Name: "Lib", Out: &out}
	if err := imp.Do(ctx); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), `imported "Lib"`) {
		t.Fatalf("unexpected output %q", out.String())
	}

	list := List{App: svc, Out: &out}
	if err := list.Do(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "Lib") {
		t.Fatalf("list missing model: %q", out.String())
	}

	exported := filepath.Join(dir, "out.json")
	exp := Export{App: svc, Model: "Lib", Path: exported, Out: &out}
	if err := exp.Do(ctx); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"name": "Book"`) {
		t.Fatalf("export is not JSON: %s", data)
	}

	rm := Remove{App: svc, Model: "Lib", Out: &out}
	if err := rm.Do(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := rm.Do(ctx); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestImportRequiresPath(t *testing.T) {
	imp := Import{App: &app.Service{Persistence: store.NewMemory()}}
	if err := imp.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
