// Package snake holds the interactive prompts used by the -i flags.
package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/section"
)

// ErrNothingToPick is returned when a prompt would have no items.
var ErrNothingToPick = errors.New("nothing to pick from")

// IO is the terminal a prompt runs on. Nil fields use the process stdio.
type IO struct {
	In  io.Reader
	Out io.Writer
}

func (t IO) stdin() io.ReadCloser {
	if t.In == nil {
		return nil
	}
	return io.NopCloser(t.In)
}

func (t IO) stdout() io.WriteCloser {
	if t.Out == nil {
		return nil
	}
	return nopWriteCloser{t.Out}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// PickModel asks for one of names.
func PickModel(t IO, names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNothingToPick
	}
	prompt := promptui.Select{
		HideHelp: true,
		Label:    "Models",
		Items:    names,
		Size:     10,
		Searcher: func(input string, index int) bool {
			return matches(names[index], input)
		},
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	_, name, err := prompt.Run()
	return name, err
}

// PickNode asks for a section with items, then for one of its nodes.
func PickNode(t IO, sections []section.Section) (node.Key, error) {
	var nonEmpty []section.Section
	for _, s := range sections {
		if s.Count() > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return "", ErrNothingToPick
	}

	type choice struct {
		Title string
		Count int
	}
	choices := make([]choice, 0, len(nonEmpty))
	for _, s := range nonEmpty {
		choices = append(choices, choice{Title: s.Title, Count: s.Count()})
	}
	sp := promptui.Select{
		HideHelp: true,
		Label:    "Sections",
		Items:    choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Title | bold }} {{ .Count | faint }}",
			Inactive: "   {{ .Title }} {{ .Count | faint }}",
			Selected: "{{ .Title | bold }}",
		},
		Size:   10,
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	i, _, err := sp.Run()
	if err != nil {
		return "", err
	}

	items := nonEmpty[i].Items()
	ip := promptui.Select{
		HideHelp: true,
		Label:    nonEmpty[i].Title,
		Items:    items,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Label | bold }} {{ .Key | cyan }}",
			Inactive: "   {{ .Label }} {{ .Key | faint }}",
			Selected: "{{ .Key | bold }}",
		},
		Size: 10,
		Searcher: func(input string, index int) bool {
			return matches(items[index].Label, input) || matches(items[index].Key.String(), input)
		},
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	j, _, err := ip.Run()
	if err != nil {
		return "", err
	}
	return items[j].Key, nil
}

func matches(s, input string) bool {
	s = strings.Replace(strings.ToLower(s), " ", "", -1)
	input = strings.Replace(strings.ToLower(input), " ", "", -1)
	return strings.Contains(s, input)
}
