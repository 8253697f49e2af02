// Package remote reaches a notation service over HTTP. Client implements
// notation.Converter by posting JSON to the service; Handler serves any
// notation.Converter with the same protocol.
//
// Every call is a POST to {base}/{tag}/serialize or {base}/{tag}/deserialize
// where tag is the node kind tag (class, assoc, inv, enum, op, qop).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
)

type serializeRequest struct {
	Class  string          `json:"class,omitempty"`
	Entity json.RawMessage `json:"entity"`
}

type serializeResponse struct {
	Text string `json:"text"`
}

type deserializeRequest struct {
	Class string `json:"class,omitempty"`
	Text  string `json:"text"`
}

type deserializeResponse struct {
	Entity json.RawMessage `json:"entity"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client is a notation.Converter backed by a remote service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ notation.Converter = (*Client)(nil)

// NewClient returns a client for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(ctx context.Context, kind node.Kind, op notation.Direction, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return notation.Wrap(kind, op, err)
	}
	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, kind.Tag(), op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return notation.Wrap(kind, op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return notation.Wrap(kind, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return notation.Wrap(kind, op, err)
	}
	if resp.StatusCode/100 != 2 {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return notation.Wrap(kind, op, errors.New(e.Error))
		}
		return notation.Wrap(kind, op, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data))))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return notation.Wrap(kind, op, err)
	}
	return nil
}

func (c *Client) serialize(ctx context.Context, kind node.Kind, class string, entity any) (string, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return "", notation.Wrap(kind, notation.OpSerialize, err)
	}
	var resp serializeResponse
	if err := c.post(ctx, kind, notation.OpSerialize, serializeRequest{Class: class, Entity: raw}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) deserialize(ctx context.Context, kind node.Kind, class, text string, out any) error {
	var resp deserializeResponse
	if err := c.post(ctx, kind, notation.OpDeserialize, deserializeRequest{Class: class, Text: text}, &resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Entity, out); err != nil {
		return notation.Wrap(kind, notation.OpDeserialize, err)
	}
	return nil
}

func (c *Client) SerializeClass(ctx context.Context, v model.Class) (string, error) {
	return c.serialize(ctx, node.KindClass, "", v)
}

func (c *Client) DeserializeClass(ctx context.Context, text string) (model.Class, error) {
	var v model.Class
	err := c.deserialize(ctx, node.KindClass, "", text, &v)
	return v, err
}

func (c *Client) SerializeAssociation(ctx context.Context, v model.Association) (string, error) {
	return c.serialize(ctx, node.KindAssociation, "", v)
}

func (c *Client) DeserializeAssociation(ctx context.Context, text string) (model.Association, error) {
	var v model.Association
	err := c.deserialize(ctx, node.KindAssociation, "", text, &v)
	return v, err
}

// Constraints of both subtypes share the invariant endpoint.
func (c *Client) SerializeConstraint(ctx context.Context, v model.Constraint) (string, error) {
	return c.serialize(ctx, node.KindInvariant, "", v)
}

func (c *Client) DeserializeConstraint(ctx context.Context, text string) (model.Constraint, error) {
	var v model.Constraint
	err := c.deserialize(ctx, node.KindInvariant, "", text, &v)
	return v, err
}

func (c *Client) SerializeEnumeration(ctx context.Context, v model.Enumeration) (string, error) {
	return c.serialize(ctx, node.KindEnumeration, "", v)
}

func (c *Client) DeserializeEnumeration(ctx context.Context, text string) (model.Enumeration, error) {
	var v model.Enumeration
	err := c.deserialize(ctx, node.KindEnumeration, "", text, &v)
	return v, err
}

func (c *Client) SerializeOperation(ctx context.Context, class string, v model.Operation) (string, error) {
	return c.serialize(ctx, node.KindOperation, class, v)
}

func (c *Client) DeserializeOperation(ctx context.Context, class string, text string) (model.Operation, error) {
	var v model.Operation
	err := c.deserialize(ctx, node.KindOperation, class, text, &v)
	return v, err
}

func (c *Client) SerializeQueryOperation(ctx context.Context, class string, v model.Operation) (string, error) {
	return c.serialize(ctx, node.KindQueryOperation, class, v)
}

func (c *Client) DeserializeQueryOperation(ctx context.Context, class string, text string) (model.Operation, error) {
	var v model.Operation
	err := c.deserialize(ctx, node.KindQueryOperation, class, text, &v)
	return v, err
}
