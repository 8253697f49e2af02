package validate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestValidateAcceptsModel(t *testing.T) {
	var out bytes.Buffer
	v := Validate{Path: write(t, "name: Library\nclasses:\n- name: Book\n"), Sections: true, Out: &out}
	if err := v.Do(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out.String(), `model "Library" is valid`) {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(out.String(), "Classes") {
		t.Fatalf("expected section counts in %q", out.String())
	}
}

func TestValidateRejectsDuplicateClass(t *testing.T) {
	v := Validate{Path: write(t, "name: Library\nclasses:\n- name: Book\n- name: Book\n"), Out: &bytes.Buffer{}}
	if err := v.Do(context.Background()); err == nil {
		t.Fatal("expected duplicate class to fail")
	}
}
