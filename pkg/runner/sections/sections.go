package sections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/printers"
	"tableflip.dev/modelnav/pkg/section"
)

type Sections struct {
	App   *app.Service
	Model string
	// Items lists the nodes of every section, not only the counts.
	Items bool
	JSON  bool
	Out   io.Writer
}

type sectionJSON struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Count int        `json:"count"`
	Items []itemJSON `json:"items,omitempty"`
}

type itemJSON struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (s *Sections) Do(ctx context.Context) error {
	if strings.TrimSpace(s.Model) == "" {
		return errors.New("model name is required")
	}
	if s.App == nil {
		return errors.New("can not list sections, no model service")
	}
	all, err := s.App.Sections(ctx, s.Model)
	if err != nil {
		return err
	}

	if s.JSON {
		return s.printJSON(all)
	}
	pp := printers.PrettyPrint{Out: s.Out}
	pp.Sections(all, s.Items)
	return nil
}

func (s *Sections) printJSON(all []section.Section) error {
	out := make([]sectionJSON, 0, len(all))
	for _, sec := range all {
		j := sectionJSON{ID: string(sec.ID), Title: sec.Title, Count: sec.Count()}
		if s.Items {
			for _, it := range sec.Items() {
				j.Items = append(j.Items, itemJSON{Key: it.Key.String(), Label: it.Label})
			}
		}
		out = append(out, j)
	}
	b, err := json.MarshalIndent(out, "", "  ")
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
