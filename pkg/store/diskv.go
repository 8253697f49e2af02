package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/section"
)

// ErrNotFound is returned for a model name with no snapshot.
var ErrNotFound = errors.New("store: model not found")

// ViewState is the persisted open/closed state of a model's tree.
type ViewState struct {
	RootClosed bool         `json:"rootClosed,omitempty"`
	Open       []section.ID `json:"open,omitempty"`
}

// Persistence stores model snapshots and their tree view state by model name.
type Persistence interface {
	Models(ctx context.Context) []string
	Get(name string) (*model.Model, error)
	Put(m *model.Model) error
	Delete(name string) error
	View(name string) (ViewState, error)
	PutView(name string, v ViewState) error
	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	bucketModels = "models"
	bucketViews  = "views"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Models(ctx context.Context) []string {
	names := make([]string, 0)
	for key := range p.d.KeysPrefix(bucketModels+"-", ctx.Done()) {
		pk := keyToPathTransform(key)
		name, err := fromName(pk.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s: %v\n", key, err)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *persistence) Get(name string) (*model.Model, error) {
	key := toKey(bucketModels, name)
	if !p.d.Has(key) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	m, err := model.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", name, err)
	}
	return m, nil
}

func (p *persistence) Put(m *model.Model) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return errors.New("store: model name required")
	}
	data, err := model.Marshal(m)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(bucketModels, m.Name), data)
}

func (p *persistence) Delete(name string) error {
	key := toKey(bucketModels, name)
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := p.d.Erase(key); err != nil {
		return err
	}
	if vk := toKey(bucketViews, name); p.d.Has(vk) {
		return p.d.Erase(vk)
	}
	return nil
}

// View returns the zero ViewState when none was saved.
func (p *persistence) View(name string) (ViewState, error) {
	key := toKey(bucketViews, name)
	if !p.d.Has(key) {
		return ViewState{}, nil
	}
	data, err := p.d.Read(key)
	if err != nil {
		return ViewState{}, err
	}
	var v ViewState
	if err := json.Unmarshal(data, &v); err != nil {
		return ViewState{}, fmt.Errorf("store: view %q: %w", name, err)
	}
	return v, nil
}

func (p *persistence) PutView(name string, v ViewState) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(bucketViews, name), data)
}

// Keys look like `bucket-encodedName` and land at bucket/encodedName.
func keyToPathTransform(s string) *diskv.PathKey {
	bucket, file, _ := strings.Cut(s, "-")
	return &diskv.PathKey{
		Path:     []string{bucket},
		FileName: file,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(bucket, name string) string {
	return fmt.Sprintf("%s-%s", bucket, toName(name))
}

// Names are encoded so any model name is a safe file name.
func toName(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromName(s string) (string, error) {
	name, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(name), nil
}
