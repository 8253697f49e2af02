package set

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/node"
)

// Set replaces the notation text of one node and stores the result.
type Set struct {
	App   *app.Service
	Edit  app.EditOptions
	Model string
	Key   node.Key
	// File holds the new text; "-" or empty reads In.
	File string
	In   io.Reader
	Out  io.Writer
}

func (s *Set) Do(ctx context.Context) error {
	if s.App == nil {
		return errors.New("can not set, no model service")
	}
	if s.Model == "" {
		return errors.New("model name is required")
	}
	if _, err := node.Parse(s.Key); err != nil {
		return err
	}
	text, err := s.read()
	if err != nil {
		return err
	}

	res, err := s.App.Edit(ctx, s.Model, s.Key, text, s.Edit)
	if err != nil {
		return err
	}

	out := s.Out
	if out == nil {
		out = color.Output
	}
	if res.AsNotes {
		_, _ = color.New(color.FgYellow).Fprintf(out, "%s kept as notes: %s\n", res.Key, res.Warning)
		return nil
	}
	_, _ = fmt.Fprintf(out, "updated %s in %q\n", res.Key, s.Model)
	return nil
}

func (s *Set) read() (string, error) {
	if s.File != "" && s.File != "-" {
		b, err := os.ReadFile(s.File)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	in := s.In
	if in == nil {
		in = os.Stdin
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
