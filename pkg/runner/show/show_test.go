package show

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
	"tableflip.dev/modelnav/pkg/store"
)

func newApp() *app.Service {
	return &app.Service{Persistence: store.NewMemory(&model.Model{
		Name:    "Library",
		Classes: []model.Class{{Name: "Book", QueryOperations: []model.Operation{{Name: "pages", ReturnType: "Integer"}}}},
	})}
}

func TestShowJSON(t *testing.T) {
	var out bytes.Buffer
	s := Show{
		App:   newApp(),
		Edit:  app.EditOptions{Converter: yamlnotation.New()},
		Model: "Library",
		Key:   node.QueryOperationKey("Book", 0),
		JSON:  true,
		Out:   &out,
	}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got["kind"] != "query operation" {
		t.Fatalf("unexpected kind %v", got["kind"])
	}
	if !strings.Contains(got["text"].(string), "# context: Book") {
		t.Fatalf("unexpected text %q", got["text"])
	}
}

func TestShowRequiresKeyWithoutInteractive(t *testing.T) {
	s := Show{App: newApp(), Edit: app.EditOptions{Converter: yamlnotation.New()}, Model: "Library"}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestShowRejectsMalformedKey(t *testing.T) {
	s := Show{App: newApp(), Edit: app.EditOptions{Converter: yamlnotation.New()}, Model: "Library", Key: "nope"}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
