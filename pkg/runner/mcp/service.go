// Package mcp provides the Model Context Protocol server integration for modelnav.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
)

// Service coordinates the model operations shared by the MCP tools and
// resources.
type Service struct {
	App  *app.Service
	Edit app.EditOptions
}

// ModelSummary describes a stored model and basic aggregate metadata.
type ModelSummary struct {
	Name         string `json:"name"`
	Classes      int    `json:"classes"`
	Associations int    `json:"associations"`
	Constraints  int    `json:"constraints"`
	Enumerations int    `json:"enumerations"`
	Notes        int    `json:"notes,omitempty"`
}

// SectionDTO is a transport-friendly projection of a section.
type SectionDTO struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Count int       `json:"count"`
	Items []ItemDTO `json:"items,omitempty"`
}

// ItemDTO is one addressable node in a section.
type ItemDTO struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// NodeDTO is a node with its notation text.
type NodeDTO struct {
	Model   string       `json:"model"`
	Key     string       `json:"key"`
	Kind    string       `json:"kind"`
	Text    string       `json:"text"`
	Warning string       `json:"warning,omitempty"`
	Notes   string       `json:"notes,omitempty"`
	Entity  node.Payload `json:"entity"`
}

// UpdateDTO reports the outcome of update_node.
type UpdateDTO struct {
	Model   string       `json:"model"`
	Key     string       `json:"key"`
	AsNotes bool         `json:"storedAsNotes"`
	Warning string       `json:"warning,omitempty"`
	Entity  node.Payload `json:"entity"`
}

var errNoApp = errors.New("model service is not configured")

// NewService builds a service wrapper around the model service.
func NewService(a *app.Service, opts app.EditOptions) *Service {
	return &Service{App: a, Edit: opts}
}

// ListModels returns summaries for every stored model.
func (s *Service) ListModels(ctx context.Context) ([]ModelSummary, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	names, err := s.App.Models(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelSummary, 0, len(names))
	for _, name := range names {
		m, err := s.App.Model(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(m))
	}
	return out, nil
}

// Model returns a stored model.
func (s *Service) Model(ctx context.Context, name string) (*model.Model, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("model is required")
	}
	return s.App.Model(ctx, name)
}

// ListSections indexes a model. With items set, every section lists its nodes.
func (s *Service) ListSections(ctx context.Context, name string, items bool) ([]SectionDTO, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("model is required")
	}
	sections, err := s.App.Sections(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]SectionDTO, 0, len(sections))
	for _, sec := range sections {
		dto := SectionDTO{ID: string(sec.ID), Title: sec.Title, Count: sec.Count()}
		if items {
			dto.Items = toItems(sec.Items())
		}
		out = append(out, dto)
	}
	return out, nil
}

// GetNode returns the notation text of a node.
func (s *Service) GetNode(ctx context.Context, name, key string) (*NodeDTO, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	if s.App == nil {
		return nil, errNoApp
	}
	r, err := s.App.Render(ctx, name, k, s.Edit)
	if err != nil {
		return nil, err
	}
	return &NodeDTO{
		Model:   name,
		Key:     r.Key.String(),
		Kind:    r.Key.Kind().String(),
		Text:    r.Text,
		Warning: r.Warning,
		Notes:   r.Notes,
		Entity:  r.Payload,
	}, nil
}

// UpdateNode replaces the notation text of a node and stores the result.
func (s *Service) UpdateNode(ctx context.Context, name, key, text string) (*UpdateDTO, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	if s.App == nil {
		return nil, errNoApp
	}
	res, err := s.App.Edit(ctx, name, k, text, s.Edit)
	if err != nil {
		return nil, err
	}
	return &UpdateDTO{
		Model:   name,
		Key:     res.Key.String(),
		AsNotes: res.AsNotes,
		Warning: res.Warning,
		Entity:  res.Payload,
	}, nil
}

func parseKey(raw string) (node.Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("key is required")
	}
	k := node.Key(raw)
	if _, err := node.Parse(k); err != nil {
		return "", err
	}
	return k, nil
}

func summarize(m *model.Model) ModelSummary {
	return ModelSummary{
		Name:         m.Name,
		Classes:      len(m.Classes),
		Associations: len(m.Associations),
		Constraints:  len(m.Constraints),
		Enumerations: len(m.Enumerations),
		Notes:        len(m.Unparsed),
	}
}

func toItems(items []section.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ItemDTO{Key: it.Key.String(), Kind: it.Key.Kind().String(), Label: it.Label})
	}
	return out
}
