package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/notation/remote"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
	"tableflip.dev/modelnav/pkg/section"
	"tableflip.dev/modelnav/pkg/store"
)

// env is what most commands need: config, the model service and the
// converter settings.
type env struct {
	cfg  store.Config
	app  *app.Service
	edit app.EditOptions
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	conv, err := converterFor(cfg)
	if err != nil {
		return nil, err
	}
	var l log.Logger = log.Discard{}
	if do.Debug {
		l = log.Root
	}
	return &env{
		cfg: cfg,
		app: &app.Service{Persistence: p},
		edit: app.EditOptions{
			Converter: conv,
			Timeout:   cfg.EditorTimeout(),
			Logger:    l,
		},
	}, nil
}

func converterFor(cfg store.Config) (notation.Converter, error) {
	switch cfg.Notation() {
	case "", store.NotationYAML:
		return yamlnotation.New(), nil
	case store.NotationRemote:
		return remote.NewClient(cfg.RemoteURL(), cfg.RemoteTimeout()), nil
	}
	return nil, fmt.Errorf("unknown notation %q", cfg.Notation())
}

func modelCompletions(toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var out []string
	for _, name := range p.Models(context.Background()) {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, strconv.Quote(name))
		}
	}
	return out
}

func keyCompletions(model, toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	m, err := p.Get(model)
	if err != nil {
		return nil
	}
	var out []string
	for _, k := range section.Keys(m) {
		if strings.HasPrefix(k.String(), toComplete) {
			out = append(out, k.String())
		}
	}
	return out
}

func parseKey(raw string) (node.Key, error) {
	k := node.Key(strings.TrimSpace(raw))
	if _, err := node.Parse(k); err != nil {
		return "", err
	}
	return k, nil
}
