package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
	"tableflip.dev/modelnav/pkg/store"
	"tableflip.dev/modelnav/pkg/tree"
)

// Service provides high-level operations on stored models. It wraps
// persistence so the TUI, the CLI and the MCP server share one behaviour.
type Service struct {
	Persistence store.Persistence
}

var (
	// ErrNotFound is returned when a model or node does not exist.
	ErrNotFound = errors.New("app: not found")
	// ErrKindMismatch is returned when a payload does not fit its key.
	ErrKindMismatch = errors.New("app: payload does not match key")

	errNoPersistence = errors.New("app: no persistence configured")
)

// Models returns the stored model names, sorted.
func (s *Service) Models(ctx context.Context) ([]string, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Models(ctx), nil
}

// Model loads a model snapshot by name.
func (s *Service) Model(ctx context.Context, name string) (*model.Model, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.Persistence.Get(name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: model %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	// A model replaced on disk may have lost entities that had notes.
	section.PruneNotes(m)
	return m, nil
}

// Import reads a model file and stores it. A non-empty name overrides the
// name in the file.
func (s *Service) Import(ctx context.Context, path, name string) (*model.Model, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		m.Name = name
	}
	section.PruneNotes(m)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Persistence.Put(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Export writes the named model to path.
func (s *Service) Export(ctx context.Context, name, path string) error {
	m, err := s.Model(ctx, name)
	if err != nil {
		return err
	}
	return model.Save(path, m)
}

// Remove deletes a stored model.
func (s *Service) Remove(ctx context.Context, name string) error {
	if _, err := s.Model(ctx, name); err != nil {
		return err
	}
	return s.Persistence.Delete(name)
}

// Sections indexes the named model.
func (s *Service) Sections(ctx context.Context, name string) ([]section.Section, error) {
	m, err := s.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	return section.Index(m), nil
}

// Node resolves key in the named model.
func (s *Service) Node(ctx context.Context, name string, key node.Key) (node.Payload, error) {
	m, err := s.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	p, ok := section.Lookup(m, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, key, name)
	}
	return p, nil
}

// Apply commits an edited payload to the named model and stores the result.
func (s *Service) Apply(ctx context.Context, name string, key node.Key, payload node.Payload) (*model.Model, error) {
	m, err := s.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	out, err := Commit(m, key, payload)
	if err != nil {
		return nil, err
	}
	if err := s.Persistence.Put(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// TreeState returns the saved tree view state of a model, or a fresh state.
func (s *Service) TreeState(name string) (*tree.State, error) {
	st := tree.NewState()
	if s.Persistence == nil {
		return st, errNoPersistence
	}
	v, err := s.Persistence.View(name)
	if err != nil {
		return st, err
	}
	st.RootClosed = v.RootClosed
	st.Restore(v.Open)
	return st, nil
}

// SaveTreeState persists the open flags of a tree view.
func (s *Service) SaveTreeState(name string, st *tree.State) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.PutView(name, store.ViewState{
		RootClosed: st.RootClosed,
		Open:       st.OpenSections(),
	})
}
