package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/printers"
	"tableflip.dev/modelnav/pkg/snake"
)

// Show prints one node of a model as notation text.
type Show struct {
	App   *app.Service
	Edit  app.EditOptions
	Model string
	Key   node.Key
	// Interactive picks the model and key with prompts when they are unset.
	Interactive bool
	Prompt      snake.IO
	JSON        bool
	Out         io.Writer
}

type nodeJSON struct {
	Key     string       `json:"key"`
	Kind    string       `json:"kind"`
	Text    string       `json:"text"`
	Warning string       `json:"warning,omitempty"`
	Notes   string       `json:"notes,omitempty"`
	Entity  node.Payload `json:"entity"`
}

func (s *Show) Do(ctx context.Context) error {
	if s.App == nil {
		return errors.New("can not show, no model service")
	}
	if err := s.resolve(ctx); err != nil {
		return err
	}

	r, err := s.App.Render(ctx, s.Model, s.Key, s.Edit)
	if err != nil {
		return err
	}

	if s.JSON {
		b, err := json.MarshalIndent(nodeJSON{
			Key:     r.Key.String(),
			Kind:    r.Key.Kind().String(),
			Text:    r.Text,
			Warning: r.Warning,
			Notes:   r.Notes,
			Entity:  r.Payload,
		}, "", "  ")
		if err != nil {
			return err
		}
		w := s.Out
		if w == nil {
			w = color.Output
		}
		_, _ = fmt.Fprintln(w, string(b))
		return nil
	}

	pp := printers.PrettyPrint{Out: s.Out}
	pp.Node(r)
	return nil
}

func (s *Show) resolve(ctx context.Context) error {
	if strings.TrimSpace(s.Model) == "" {
		if !s.Interactive {
			return errors.New("model name is required")
		}
		names, err := s.App.Models(ctx)
		if err != nil {
			return err
		}
		if s.Model, err = snake.PickModel(s.Prompt, names); err != nil {
			return err
		}
	}
	if s.Key == "" {
		if !s.Interactive {
			return errors.New("node key is required")
		}
		sections, err := s.App.Sections(ctx, s.Model)
		if err != nil {
			return err
		}
		if s.Key, err = snake.PickNode(s.Prompt, sections); err != nil {
			return err
		}
	}
	_, err := node.Parse(s.Key)
	return err
}
