package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/vimtodo/core/internal/domain/entities"
)

// AddNote creates a note.
func (w *Workspace) AddNote(ctx context.Context, title, content string, images []string) (*entities.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, entities.ErrEmptyTitle
	}
	if images == nil {
		images = []string{}
	}

	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	note, err := w.store.Notes.Create(ctx, s.owner, title, content, images)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	w.commit(s, func() {
		w.notes = append([]entities.Note{*note}, w.notes...)
	})
	w.log.Infow("Note created", "note_id", note.ID, "title", note.Title)
	return note, nil
}

// UpdateNote replaces a note's content.
func (w *Workspace) UpdateNote(ctx context.Context, id, content string) (*entities.Note, error) {
	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	note, err := w.store.Notes.UpdateContent(ctx, s.owner, id, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	w.commit(s, func() { w.replaceNoteLocked(*note) })
	return note, nil
}

// AddImageToNote appends an image URL or data URI to a note.
func (w *Workspace) AddImageToNote(ctx context.Context, id, image string) (*entities.Note, error) {
	return w.updateImages(ctx, id, func(n *entities.Note) ([]string, error) {
		return n.WithImage(image)
	})
}

// RemoveImageFromNote drops the image at index, keeping the others in order.
func (w *Workspace) RemoveImageFromNote(ctx context.Context, id string, index int) (*entities.Note, error) {
	return w.updateImages(ctx, id, func(n *entities.Note) ([]string, error) {
		return n.WithoutImage(index)
	})
}

func (w *Workspace) updateImages(ctx context.Context, id string, change func(*entities.Note) ([]string, error)) (*entities.Note, error) {
	s, err := w.begin()
	if err != nil {
		return nil, err
	}

	current, err := w.Note(id)
	if err != nil {
		return nil, err
	}
	images, err := change(&current)
	if err != nil {
		return nil, err
	}

	note, err := w.store.Notes.UpdateImages(ctx, s.owner, id, images)
	if err != nil {
		return nil, fmt.Errorf("failed to update note images: %w", err)
	}
	w.commit(s, func() { w.replaceNoteLocked(*note) })
	return note, nil
}

// DeleteNote removes a note, closing its editing session if one is open.
func (w *Workspace) DeleteNote(ctx context.Context, id string) error {
	s, err := w.begin()
	if err != nil {
		return err
	}

	if err := w.store.Notes.Delete(ctx, s.owner, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	w.commit(s, func() {
		if i := indexOf(w.notes, id, noteID); i >= 0 {
			w.notes = append(w.notes[:i:i], w.notes[i+1:]...)
		}
	})

	if w.editor.State().NoteID == id {
		w.editor.Open("", "")
	}
	w.log.Infow("Note deleted", "note_id", id)
	return nil
}

func (w *Workspace) replaceNoteLocked(note entities.Note) {
	if i := indexOf(w.notes, note.ID, noteID); i >= 0 {
		w.notes[i] = note
	}
}

func noteID(n entities.Note) string { return n.ID }
