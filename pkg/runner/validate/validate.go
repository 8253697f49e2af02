package validate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/printers"
	"tableflip.dev/modelnav/pkg/section"
)

// Validate checks a model file without storing it.
type Validate struct {
	Path string
	// Sections prints the section counts of a valid model.
	Sections bool
	Out      io.Writer
}

func (v *Validate) Do(ctx context.Context) error {
	if v.Path == "" {
		return errors.New("model file is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := model.Load(v.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Path, err)
	}

	out := v.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "%s: model %q is valid\n", v.Path, m.Name)
	if v.Sections {
		pp := printers.PrettyPrint{Out: out}
		pp.Sections(section.Index(m), false)
	}
	return nil
}
