package sprite

import (
	"errors"
	"fmt"
)

// CanUndo reports whether Undo would revert something.
func (s *Sprite) CanUndo() bool { return s.journal.CanUndo() }

// CanRedo reports whether Redo would re-apply something.
func (s *Sprite) CanRedo() bool { return s.journal.CanRedo() }

// Undo reverts the last recorded group. It returns false with a nil error
// when there is nothing to undo. On success the change hook runs and
// "Undid <label>" goes to the status sink.
func (s *Sprite) Undo() (bool, error) {
	label := s.journal.UndoLabel()
	ok, err := s.journal.Undo(s.target())
	if !ok || err != nil {
		return ok, err
	}
	s.status(msgUndid, label)
	s.notify()
	return true, nil
}

// Redo re-applies the last undone group. It returns false with a nil error
// when there is nothing to redo.
func (s *Sprite) Redo() (bool, error) {
	label := s.journal.RedoLabel()
	ok, err := s.journal.Redo(s.target())
	if !ok || err != nil {
		return ok, err
	}
	s.status(msgRedid, label)
	s.notify()
	return true, nil
}

// Transaction records every mutation fn makes as one undo group labeled
// label. If fn fails, its mutations are rolled back and the error is
// returned.
//
// Inside an already open group fn joins that group, and on failure the
// rollback is left to whoever opened it. With the journal disabled fn
// runs unrecorded.
//
// Example:
//
//	s.Lock()
//	defer s.Unlock()
//	err := s.Transaction("Move Cel", func() error {
//	    return s.SetCelPosition(cel, 10, 20)
//	})
func (s *Sprite) Transaction(label string, fn func() error) error {
	if !s.journal.Open(label) {
		return fn()
	}
	if err := fn(); err != nil {
		if rerr := s.journal.Rollback(s.target()); rerr != nil {
			return errors.Join(err, fmt.Errorf("sprite: rollback %q: %w", label, rerr))
		}
		return err
	}
	s.journal.Close()
	s.notify()
	return nil
}
