package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/store"
)

type Info struct {
	Config store.Config
	App    *app.Service
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("MODELNAV_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "MODELNAV_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "MODELNAV_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.notation:", n.Config.Notation())
	if n.Config.Notation() == store.NotationRemote {
		_, _ = fmt.Fprintf(out, "Config.remote: %s (timeout %s)\n", n.Config.RemoteURL(), n.Config.RemoteTimeout())
	}
	if d := n.Config.EditorTimeout(); d > 0 {
		_, _ = fmt.Fprintln(out, "Config.editor.timeout:", d)
	}

	if n.App == nil {
		return fmt.Errorf("no model service configured")
	}
	names, err := n.App.Models(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "Models:")
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %s\n", name)
	}
	if len(names) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no models")
	}
	return nil
}
