package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
	"tableflip.dev/modelnav/pkg/store"
)

func library() *model.Model {
	return &model.Model{
		Name: "Library",
		Classes: []model.Class{{
			Name:       "Book",
			Operations: []model.Operation{{Name: "lend", ReturnType: "Boolean"}},
		}},
		Constraints: []model.Constraint{
			{Type: model.Invariant, Context: "Book", Expression: "pages > 0"},
		},
		Enumerations: []model.Enumeration{{Name: "Genre", Literals: []string{"fiction", "poetry"}}},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	a := &app.Service{Persistence: store.NewMemory(library())}
	return NewService(a, app.EditOptions{Converter: yamlnotation.New()})
}

func TestServiceListModels(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one model, got %d", len(got))
	}
	if got[0].Name != "Library" || got[0].Classes != 1 || got[0].Enumerations != 1 {
		t.Fatalf("unexpected summary: %+v", got[0])
	}
}

func TestServiceListSections(t *testing.T) {
	svc := newTestService(t)

	sections, err := svc.ListSections(context.Background(), "Library", true)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	counts := map[string]int{}
	keys := map[string]bool{}
	for _, s := range sections {
		counts[s.ID] = s.Count
		for _, it := range s.Items {
			keys[it.Key] = true
		}
	}
	if counts["classes"] != 1 || counts["operations"] != 1 || counts["invariants"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if !keys["op:Book:0"] || !keys["class:Book"] {
		t.Fatalf("missing keys: %v", keys)
	}

	bare, err := svc.ListSections(context.Background(), "Library", false)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	for _, s := range bare {
		if len(s.Items) != 0 {
			t.Fatalf("section %s should not list items", s.ID)
		}
	}
}

func TestServiceGetNode(t *testing.T) {
	svc := newTestService(t)

	dto, err := svc.GetNode(context.Background(), "Library", "op:Book:0")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if !strings.Contains(dto.Text, "# context: Book") {
		t.Fatalf("expected owning class header, got %q", dto.Text)
	}
	if dto.Kind != "operation" {
		t.Fatalf("unexpected kind %q", dto.Kind)
	}
}

func TestServiceGetNodeRejectsBadKeys(t *testing.T) {
	svc := newTestService(t)

	for _, key := range []string{"", "bogus", "class:Missing"} {
		if _, err := svc.GetNode(context.Background(), "Library", key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestServiceUpdateNode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.UpdateNode(ctx, "Library", "enum:Genre", "name: Genre\nliterals:\n- fiction\n- drama\n")
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if res.AsNotes {
		t.Fatalf("expected structured update, got notes: %s", res.Warning)
	}
	m, err := svc.Model(ctx, "Library")
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if got := m.Enumerations[0].Literals; len(got) != 2 || got[1] != "drama" {
		t.Fatalf("literals not updated: %v", got)
	}

	res, err = svc.UpdateNode(ctx, "Library", "enum:Genre", "literals: [")
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if !res.AsNotes {
		t.Fatal("expected unparseable text to be kept as notes")
	}
}

func TestToolCallThroughServer(t *testing.T) {
	a := &app.Service{Persistence: store.NewMemory(library())}
	srv := Runner{App: a, Edit: app.EditOptions{Converter: yamlnotation.New()}}.newServer()

	req := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_node","arguments":{"model":"Library","key":"class:Book"}}}`
	resp := srv.HandleMessage(context.Background(), json.RawMessage(req))

	out, ok := resp.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected a result response, got %T", resp)
	}
	result, ok := out.Result.(mcp.CallToolResult)
	if !ok {
		t.Fatalf("unexpected result type %T", out.Result)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", result.Content[0])
	}
	var dto map[string]any
	if err := json.Unmarshal([]byte(text.Text), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto["key"] != "class:Book" || !strings.Contains(dto["text"].(string), "name: Book") {
		t.Fatalf("unexpected node: %v", dto)
	}
}

func listToolNames(t *testing.T, r Runner) string {
	t.Helper()
	req := `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`
	resp := r.newServer().HandleMessage(context.Background(), json.RawMessage(req))
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestReadOnlyServerHidesUpdate(t *testing.T) {
	a := &app.Service{Persistence: store.NewMemory(library())}
	r := Runner{App: a, Edit: app.EditOptions{Converter: yamlnotation.New()}}

	if got := listToolNames(t, r); !strings.Contains(got, `"update_node"`) {
		t.Fatalf("writable server should list update_node: %s", got)
	}
	r.ReadOnly = true
	got := listToolNames(t, r)
	if strings.Contains(got, `"update_node"`) {
		t.Fatalf("read-only server lists update_node: %s", got)
	}
	if !strings.Contains(got, `"get_node"`) {
		t.Fatalf("read-only server should still list get_node: %s", got)
	}
}

func TestHTTPOptionsEndpointPath(t *testing.T) {
	for in, want := range map[string]string{"": "/mcp", " ": "/mcp", "agents": "/agents", "/x/y": "/x/y"} {
		if got := (HTTPOptions{Path: in}).EndpointPath(); got != want {
			t.Fatalf("EndpointPath(%q) = %q, want %q", in, got, want)
		}
	}
	if (HTTPOptions{CertFile: "c"}).TLS() {
		t.Fatal("TLS needs both cert and key")
	}
}
