package remote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
)

type handler struct {
	conv notation.Converter
}

// NewHandler serves conv over the protocol Client speaks.
func NewHandler(conv notation.Converter) http.Handler {
	h := &handler{conv: conv}
	r := chi.NewRouter()
	r.Post("/{tag}/serialize", h.handleSerialize)
	r.Post("/{tag}/deserialize", h.handleDeserialize)
	return r
}

func (h *handler) payloadFor(r *http.Request, class string) (node.Payload, bool) {
	switch node.KindOf(node.Key(chi.URLParam(r, "tag") + node.Separator)) {
	case node.KindClass:
		return node.ClassPayload{}, true
	case node.KindAssociation:
		return node.AssociationPayload{}, true
	case node.KindInvariant, node.KindCondition:
		return node.ConstraintPayload{}, true
	case node.KindEnumeration:
		return node.EnumerationPayload{}, true
	case node.KindOperation:
		return node.OperationPayload{Class: class}, true
	case node.KindQueryOperation:
		return node.QueryOperationPayload{Class: class}, true
	}
	return nil, false
}

func (h *handler) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req serializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	like, ok := h.payloadFor(r, req.Class)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown kind"))
		return
	}
	p, err := decodeEntity(like, req.Entity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text, err := notation.Serialize(r.Context(), h.conv, p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, serializeResponse{Text: text})
}

func (h *handler) handleDeserialize(w http.ResponseWriter, r *http.Request) {
	var req deserializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	like, ok := h.payloadFor(r, req.Class)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown kind"))
		return
	}
	p, err := notation.Deserialize(r.Context(), h.conv, like, req.Text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	raw, err := json.Marshal(entityOf(p))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, deserializeResponse{Entity: raw})
}

func decodeEntity(like node.Payload, raw json.RawMessage) (node.Payload, error) {
	switch v := like.(type) {
	case node.ClassPayload:
		err := json.Unmarshal(raw, &v.Class)
		return v, err
	case node.AssociationPayload:
		err := json.Unmarshal(raw, &v.Association)
		return v, err
	case node.ConstraintPayload:
		err := json.Unmarshal(raw, &v.Constraint)
		return v, err
	case node.EnumerationPayload:
		err := json.Unmarshal(raw, &v.Enumeration)
		return v, err
	case node.OperationPayload:
		err := json.Unmarshal(raw, &v.Operation)
		return v, err
	case node.QueryOperationPayload:
		err := json.Unmarshal(raw, &v.Operation)
		return v, err
	}
	return nil, errors.New("unsupported payload")
}

func entityOf(p node.Payload) any {
	switch v := p.(type) {
	case node.ClassPayload:
		return v.Class
	case node.AssociationPayload:
		return v.Association
	case node.ConstraintPayload:
		return v.Constraint
	case node.EnumerationPayload:
		return v.Enumeration
	case node.OperationPayload:
		return v.Operation
	case node.QueryOperationPayload:
		return v.Operation
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError strips the conversion wrapper; the client adds its own.
func writeError(w http.ResponseWriter, status int, err error) {
	var ce *notation.ConversionError
	if errors.As(err, &ce) {
		err = ce.Err
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
