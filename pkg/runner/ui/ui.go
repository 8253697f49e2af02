package ui

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/notation"
	tui "tableflip.dev/modelnav/pkg/tui/app"
)

// UI opens the interactive model browser.
type UI struct {
	App       *app.Service
	Converter notation.Converter
	Timeout   time.Duration
	// Model opens directly; empty starts with the model picker.
	Model string
}

func (d *UI) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("can not open ui, no model service")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tui.Run(d.App, d.Model, tui.Options{
		Converter: d.Converter,
		Timeout:   d.Timeout,
	})
}
