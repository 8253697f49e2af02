package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tableflip.dev/modelnav/pkg/model"
)

// Memory is an in-process Persistence. Snapshots are cloned on the way in
// and out, so callers never share a model with the store.
type Memory struct {
	mu       sync.Mutex
	models   map[string]*model.Model
	views    map[string]ViewState
	watchers []chan Event
}

var _ Persistence = (*Memory)(nil)

// NewMemory returns an empty store seeded with models.
func NewMemory(models ...*model.Model) *Memory {
	m := &Memory{models: map[string]*model.Model{}, views: map[string]ViewState{}}
	for _, mm := range models {
		m.models[mm.Name] = mm.Clone()
	}
	return m
}

func (m *Memory) Models(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.models))
	for name := range m.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Memory) Get(name string) (*model.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mm, ok := m.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return mm.Clone(), nil
}

func (m *Memory) Put(mm *model.Model) error {
	if mm == nil || strings.TrimSpace(mm.Name) == "" {
		return errors.New("store: model name required")
	}
	m.mu.Lock()
	m.models[mm.Name] = mm.Clone()
	m.mu.Unlock()
	m.notify(Event{Type: EventModelChanged, Model: mm.Name})
	return nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	if _, ok := m.models[name]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(m.models, name)
	delete(m.views, name)
	m.mu.Unlock()
	m.notify(Event{Type: EventModelChanged, Model: name})
	return nil
}

func (m *Memory) View(name string) (ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[name], nil
}

func (m *Memory) PutView(name string, v ViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[name] = ViewState{RootClosed: v.RootClosed, Open: append(v.Open[:0:0], v.Open...)}
	return nil
}

// Watch reports every Put and Delete until ctx is done.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *Memory) notify(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watchers {
		select {
		case w <- ev:
		default:
		}
	}
}
