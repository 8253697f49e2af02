package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/modelnav/pkg/app"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/section"
)

// PrettyPrint writes human readable listings. Out defaults to color.Output.
type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

// Models lists stored models with their element counts.
func (pp *PrettyPrint) Models(models ...*model.Model) {
	if len(models) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Model"), bold("Classes"), bold("Associations"), bold("Constraints"), bold("Enumerations"), bold("Notes"))
	for _, m := range models {
		tbl.AddRow(m.Name, len(m.Classes), len(m.Associations), len(m.Constraints), len(m.Enumerations), len(m.Unparsed))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Sections prints every section with its count and, when items is set, one
// row per node with its key.
func (pp *PrettyPrint) Sections(sections []section.Section, items bool) {
	key := color.New(color.FgHiYellow, color.Faint).SprintFunc()
	for _, s := range sections {
		pp.TitleWithCount(s.Title, s.Count())
		if !items {
			continue
		}
		list := s.Items()
		if len(list) == 0 {
			pp.none()
			continue
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, it := range list {
			tbl.AddRow(key(it.Key.String()), it.Label)
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}

// Node prints the notation text of one node, followed by any warning and
// kept notes.
func (pp *PrettyPrint) Node(r *app.Rendered) {
	pp.Title(r.Key.String())
	_, _ = fmt.Fprintln(pp.out(), strings.TrimRight(r.Text, "\n"))
	if r.Warning != "" {
		pp.Warning(r.Warning)
	}
	if r.Notes != "" {
		pp.NewLine()
		_, _ = color.New(color.Bold).Fprintln(pp.out(), "Notes")
		_, _ = color.New(color.Italic).Fprintln(pp.out(), strings.TrimRight(r.Notes, "\n"))
	}
}

func (pp *PrettyPrint) Warning(msg string) {
	_, _ = color.New(color.FgYellow).Fprintf(pp.out(), "warning: %s\n", msg)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}
