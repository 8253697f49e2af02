package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/modelnav/pkg/editor"
	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/model"
	"tableflip.dev/modelnav/pkg/node"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/section"
)

// EditOptions configure headless rendering and editing.
type EditOptions struct {
	Converter notation.Converter
	Timeout   time.Duration
	Logger    log.Logger
}

// Rendered is the notation text of one node.
type Rendered struct {
	Key     node.Key
	Payload node.Payload
	Text    string
	// Warning is set when the converter failed and Text is a fallback dump.
	Warning string
	// Notes holds unparsed text kept for the key, if any.
	Notes string
}

// Edited is the outcome of a headless edit.
type Edited struct {
	// Key addresses the entity after the save; a rename changes it.
	Key     node.Key
	Payload node.Payload
	// AsNotes is true when the text did not convert and was kept as notes.
	AsNotes bool
	Warning string
	Model   *model.Model
}

// Render drives an editor session through selection and returns the text
// shown for key.
func (s *Service) Render(ctx context.Context, name string, key node.Key, opts EditOptions) (*Rendered, error) {
	m, err := s.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	p, ok := section.Lookup(m, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, key, name)
	}
	sess := editor.New(opts.Converter, nil, sessionOptions(opts))
	sess.Update(sess.Select(key, p)())
	return &Rendered{
		Key:     key,
		Payload: sess.Payload(),
		Text:    sess.Text(),
		Warning: sess.ErrorMessage(),
		Notes:   m.Unparsed[key.String()],
	}, nil
}

// Edit replaces the notation text of key and commits the result to the
// named model. Text that does not convert is stored as notes on the key.
func (s *Service) Edit(ctx context.Context, name string, key node.Key, text string, opts EditOptions) (*Edited, error) {
	m, err := s.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	p, ok := section.Lookup(m, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, key, name)
	}

	var (
		out      *Edited
		applyErr error
	)
	emit := editor.NewEmitter(func(k node.Key, payload node.Payload) {
		_, notes := payload.(node.NotesPayload)
		mm, err := s.Apply(ctx, name, k, payload)
		if err != nil {
			applyErr = err
			return
		}
		out = &Edited{Key: Rekey(k, payload), Payload: payload, AsNotes: notes, Model: mm}
	})

	sess := editor.New(opts.Converter, emit, sessionOptions(opts))
	sess.Update(sess.Select(key, p)())
	if err := sess.BeginEdit(); err != nil {
		return nil, err
	}
	if err := sess.SetDraft(text); err != nil {
		return nil, err
	}
	save, err := sess.Save()
	if err != nil {
		return nil, err
	}
	sess.Update(save())
	if applyErr != nil {
		return nil, applyErr
	}
	if out == nil {
		return nil, fmt.Errorf("edit of %s produced no update", key)
	}
	out.Warning = sess.ErrorMessage()
	return out, nil
}

func sessionOptions(opts EditOptions) editor.Options {
	l := opts.Logger
	if l == nil {
		l = log.Discard{}
	}
	return editor.Options{Timeout: opts.Timeout, Logger: l}
}
