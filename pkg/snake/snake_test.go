package snake

import (
	"testing"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/section"
)

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"yes": true, "Y": true, "1": true, "no": false, "F": false} {
		got, err := ParseBool(in)
		if err != nil {
			t.Fatalf("ParseBool(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseBool(%q) = %t, want %t", in, got, want)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatal("expected error for maybe")
	}
}

func TestMatchesIgnoresCaseAndSpaces(t *testing.T) {
	if !matches("Pre/Post Conditions", "post cond") {
		t.Fatal("expected match")
	}
	if matches("Classes", "enum") {
		t.Fatal("unexpected match")
	}
}

func TestPickWithNothing(t *testing.T) {
	if _, err := PickModel(IO{}, nil); err != ErrNothingToPick {
		t.Fatalf("expected ErrNothingToPick, got %v", err)
	}
	if _, err := PickNode(IO{}, section.Index(&model.Model{})); err != ErrNothingToPick {
		t.Fatalf("expected ErrNothingToPick, got %v", err)
	}
}
