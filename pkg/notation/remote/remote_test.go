package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(NewHandler(yamlnotation.New()))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	payloads := []node.Payload{
		node.ClassPayload{Class: model.Class{Name: "Book", Attributes: []model.Attribute{{Name: "title", Type: "String"}}}},
		node.AssociationPayload{Association: model.Association{Name: "shelves", Kind: model.KindAggregation}},
		node.ConstraintPayload{Constraint: model.Constraint{Type: model.Precondition, Context: "Book::lend", Expression: "true"}},
		node.EnumerationPayload{Enumeration: model.Enumeration{Name: "Genre", Literals: []string{"fiction"}}},
		node.OperationPayload{Class: "Book", Operation: model.Operation{Name: "lend", ReturnType: "Boolean"}},
		node.QueryOperationPayload{Class: "Book", Operation: model.Operation{Name: "pages", ReturnType: "Integer"}},
	}
	for _, p := range payloads {
		text, err := notation.Serialize(ctx, c, p)
		if err != nil {
			t.Fatalf("serialize %s: %v", p.Kind(), err)
		}
		got, err := notation.Deserialize(ctx, c, p, text)
		if err != nil {
			t.Fatalf("deserialize %s: %v", p.Kind(), err)
		}
		if !reflect.DeepEqual(got, p) {
			t.Fatalf("round trip %s: got %#v, want %#v", p.Kind(), got, p)
		}
	}
}

func TestClientReportsServiceError(t *testing.T) {
	c := newServer(t)

	_, err := c.DeserializeOperation(context.Background(), "Book", "# context: Shelf\nname: lend\n")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *notation.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConversionError, got %T", err)
	}
	if ce.Kind != node.KindOperation || ce.Op != notation.OpDeserialize {
		t.Fatalf("unexpected error %v", ce)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	if _, err := c.SerializeClass(context.Background(), model.Class{Name: "Book"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestHandlerUnknownTag(t *testing.T) {
	c := newServer(t)
	var out serializeResponse
	err := c.post(context.Background(), node.KindModel, notation.OpSerialize, serializeRequest{Entity: []byte("{}")}, &out)
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
