package workspace

import (
	"context"

	"github.com/vimtodo/core/internal/application/autosave"
	"github.com/vimtodo/core/internal/domain/entities"
)

// OpenSession starts editing a note. If another note was being edited its
// draft is flushed first, as leaving the editor would.
func (w *Workspace) OpenSession(ctx context.Context, id string) (autosave.State, error) {
	if _, err := w.begin(); err != nil {
		return autosave.State{}, err
	}
	note, err := w.Note(id)
	if err != nil {
		return autosave.State{}, err
	}

	if active := w.editor.State().NoteID; active != "" && active != id {
		if err := w.editor.LoseFocus(ctx); err != nil {
			w.log.Warnw("Flush on note switch failed", "note_id", active, "error", err)
		}
	}
	if w.editor.State().NoteID != id {
		w.editor.Open(id, note.Content)
	}
	return w.editor.State(), nil
}

// EditDraft replaces the draft of the note being edited.
func (w *Workspace) EditDraft(id, content string) (autosave.State, error) {
	if err := w.requireSession(id); err != nil {
		return autosave.State{}, err
	}
	if err := w.editor.Edit(content); err != nil {
		return autosave.State{}, err
	}
	return w.editor.State(), nil
}

// FlushSession writes the draft now if it has unsaved changes.
func (w *Workspace) FlushSession(ctx context.Context, id string) (autosave.State, error) {
	if err := w.requireSession(id); err != nil {
		return autosave.State{}, err
	}
	err := w.editor.LoseFocus(ctx)
	return w.editor.State(), err
}

// EndSession flushes and closes the editing session.
func (w *Workspace) EndSession(ctx context.Context, id string) error {
	if err := w.requireSession(id); err != nil {
		return err
	}
	return w.editor.End(ctx)
}

// SessionState reports the editing session.
func (w *Workspace) SessionState() autosave.State {
	return w.editor.State()
}

func (w *Workspace) requireSession(id string) error {
	if w.editor.State().NoteID != id {
		return entities.ErrNoActiveSession
	}
	return nil
}

// persistDraft is the autosave write path. It reconciles by note id, so a
// write that lands after the editor moved on still updates the right note.
func (w *Workspace) persistDraft(ctx context.Context, noteID, content string) error {
	_, err := w.UpdateNote(ctx, noteID, content)
	return err
}
