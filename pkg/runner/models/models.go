// Package models contains runners for stored model management commands.
package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/printers"
)

// List configures `modelnav models`.
type List struct {
	App *app.Service
	Out io.Writer
}

// Do prints every stored model with its element counts.
func (l *List) Do(ctx context.Context) error {
	if l.App == nil {
		return errors.New("can not list, no model service")
	}
	names, err := l.App.Models(ctx)
	if err != nil {
		return err
	}
	all := make([]*model.Model, 0, len(names))
	for _, name := range names {
		m, err := l.App.Model(ctx, name)
		if err != nil {
			return err
		}
		all = append(all, m)
	}
	pp := printers.PrettyPrint{Out: l.Out}
	pp.Models(all...)
	return nil
}

// Import configures `modelnav import`.
type Import struct {
	App  *app.Service
	Path string
	// Name overrides the model name found in the file.
	Name string
	Out  io.Writer
}

// Do reads, validates and stores a model file.
func (i *Import) Do(ctx context.Context) error {
	if strings.TrimSpace(i.Path) == "" {
		return errors.New("model file is required")
	}
	if i.App == nil {
		return errors.New("can not import, no model service")
	}
	m, err := i.App.Import(ctx, i.Path, i.Name)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(i.Out), "imported %q from %s\n", m.Name, i.Path)
	return nil
}

// Export configures `modelnav export`.
type Export struct {
	App   *app.Service
	Model string
	Path  string
	Out   io.Writer
}

// Do writes a stored model to a file.
func (e *Export) Do(ctx context.Context) error {
	if strings.TrimSpace(e.Model) == "" {
		return errors.New("model name is required")
	}
	if strings.TrimSpace(e.Path) == "" {
		return errors.New("output file is required")
	}
	if e.App == nil {
		return errors.New("can not export, no model service")
	}
	if err := e.App.Export(ctx, e.Model, e.Path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(e.Out), "exported %q to %s\n", e.Model, e.Path)
	return nil
}

// Remove configures `modelnav remove`.
type Remove struct {
	App   *app.Service
	Model string
	Out   io.Writer
}

// Do deletes a stored model and its saved view state.
func (r *Remove) Do(ctx context.Context) error {
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model name is required")
	}
	if r.App == nil {
		return errors.New("can not remove, no model service")
	}
	if err := r.App.Remove(ctx, r.Model); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(r.Out), "removed %q\n", r.Model)
	return nil
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
