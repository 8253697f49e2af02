package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
)

func init() {
	color.NoColor = true
}

func TestSectionsListsKeys(t *testing.T) {
	m := &model.Model{
		Name:    "Library",
		Classes: []model.Class{{Name: "Book", Operations: []model.Operation{{Name: "lend"}}}},
	}
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Sections(section.Index(m), true)

	out := buf.String()
	for _, want := range []string{"Classes - 1 item", "class:Book", "op:Book:0", "Enumerations - 0 items", " none"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestModelsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Models(&model.Model{Name: "Library", Classes: []model.Class{{Name: "Book"}}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "Library") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestNodeShowsWarningAndNotes(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Node(&app.Rendered{
		Key:     node.ClassKey("Book"),
		Text:    "name: Book\n",
		Warning: "notation service timed out",
		Notes:   "name: [",
	})

	out := buf.String()
	for _, want := range []string{"class:Book", "name: Book", "warning: notation service timed out", "Notes", "name: ["} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
