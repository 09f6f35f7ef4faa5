package undo

import (
	"errors"
	"fmt"
	"log/slog"
)

// DefaultLimit is the default ceiling for recorded payload bytes.
const DefaultLimit int64 = 8 << 20

var (
	// ErrRecording is returned by Undo and Redo while a group is open.
	ErrRecording = errors.New("undo: group is open")

	// ErrNotRecording is returned by Rollback when no group is open.
	ErrNotRecording = errors.New("undo: no open group")
)

// ApplyError reports an undoer that its Target refused to apply.
//
// When Corrupt is false the target was restored to the state it had before
// the group started and the journal is unchanged. When Corrupt is true the
// restore itself failed and the journal has been cleared.
type ApplyError struct {
	Kind    Kind
	Err     error
	Corrupt bool
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("undo: apply %s: %v", e.Kind, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Journal is an ordered log of undo groups with a cursor.
//
// Groups before the cursor can be undone, groups at or after it can be
// redone. At most one group is open for recording at a time, and undo/redo
// are only possible while no group is open.
type Journal struct {
	groups []*Group
	cursor int
	open   *Group

	disabled bool
	limit    int64
	size     int64

	serial uint64 // last serial handed out
	saved  uint64 // serial of the group at the cursor when MarkSaved ran

	logger  *slog.Logger
	metrics *Metrics
}

// New creates an empty, enabled journal.
func New(opts ...Option) *Journal {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Journal{
		limit:   o.limit,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// SetLogger replaces the journal's logger. A nil logger disables logging.
func (j *Journal) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	j.logger = l
}

// Enable turns recording back on after Disable.
func (j *Journal) Enable() { j.disabled = false }

// Disable makes Open fail until Enable is called. An open group is not
// affected.
func (j *Journal) Disable() { j.disabled = true }

// IsEnabled reports whether the journal accepts new groups.
func (j *Journal) IsEnabled() bool { return !j.disabled }

// IsRecording reports whether a group is open.
func (j *Journal) IsRecording() bool { return j.open != nil }

// Open begins a new group. It returns false, and does nothing, when a group
// is already open or the journal is disabled. Nesting is not supported.
func (j *Journal) Open(label string) bool {
	if j.open != nil || j.disabled {
		return false
	}
	j.open = &Group{label: label}
	return true
}

// Append adds u to the open group. It returns false when no group is open.
func (j *Journal) Append(u Undoer) bool {
	if j.open == nil {
		return false
	}
	j.open.append(u)
	return true
}

// Close finalizes the open group. Empty groups are dropped. Otherwise every
// redoable group is discarded, the group becomes the newest undoable one
// and the oldest groups are evicted while the journal exceeds its limit.
func (j *Journal) Close() {
	g := j.open
	if g == nil {
		return
	}
	j.open = nil
	if len(g.undoers) == 0 {
		return
	}

	j.truncate()
	g.prev = j.position()
	j.serial++
	g.serial = j.serial
	j.groups = append(j.groups, g)
	j.cursor = len(j.groups)
	j.size += g.size

	j.logger.Debug("undo: group closed",
		slog.String("label", g.label),
		slog.Int("undoers", len(g.undoers)),
		slog.Int64("bytes", g.size))
	j.metrics.observe(opRecord, j.size)

	j.evict()
}

// truncate drops every group after the cursor.
func (j *Journal) truncate() {
	for _, g := range j.groups[j.cursor:] {
		j.size -= g.size
	}
	clear(j.groups[j.cursor:])
	j.groups = j.groups[:j.cursor]
}

// evict removes the oldest undoable groups while the journal is over its
// limit. The newest group always survives.
func (j *Journal) evict() {
	if j.limit <= 0 {
		return
	}
	n := 0
	for j.size > j.limit && j.cursor-n > 1 {
		j.size -= j.groups[n].size
		n++
	}
	if n == 0 {
		return
	}
	clear(j.groups[:n])
	j.groups = j.groups[n:]
	j.cursor -= n

	j.logger.Info("undo: evicted groups",
		slog.Int("groups", n),
		slog.Int64("bytes", j.size),
		slog.Int64("limit", j.limit))
	for range n {
		j.metrics.observe(opEvict, j.size)
	}
}

// Rollback reverts the open group against t and discards it.
func (j *Journal) Rollback(t Target) error {
	g := j.open
	if g == nil {
		return ErrNotRecording
	}
	j.open = nil
	if _, err := g.applyBackward(t); err != nil {
		j.fail(err)
		return err
	}
	j.logger.Debug("undo: group rolled back", slog.String("label", g.label))
	return nil
}

// CanUndo reports whether Undo would do something.
func (j *Journal) CanUndo() bool { return j.open == nil && j.cursor > 0 }

// CanRedo reports whether Redo would do something.
func (j *Journal) CanRedo() bool { return j.open == nil && j.cursor < len(j.groups) }

// UndoLabel returns the label of the group Undo would revert, or "".
func (j *Journal) UndoLabel() string {
	if j.cursor == 0 {
		return ""
	}
	return j.groups[j.cursor-1].label
}

// RedoLabel returns the label of the group Redo would re-apply, or "".
func (j *Journal) RedoLabel() string {
	if j.cursor >= len(j.groups) {
		return ""
	}
	return j.groups[j.cursor].label
}

// Undo reverts the newest undoable group against t. It returns false with a
// nil error when there is nothing to undo.
func (j *Journal) Undo(t Target) (bool, error) {
	if j.open != nil {
		return false, ErrRecording
	}
	if j.cursor == 0 {
		return false, nil
	}
	g := j.groups[j.cursor-1]
	inverses, err := g.applyBackward(t)
	if err != nil {
		j.fail(err)
		return false, err
	}
	j.size += g.replace(inverses)
	j.cursor--

	j.logger.Debug("undo: undone", slog.String("label", g.label))
	j.metrics.observe(opUndo, j.size)
	return true, nil
}

// Redo re-applies the oldest redoable group against t. It returns false
// with a nil error when there is nothing to redo.
func (j *Journal) Redo(t Target) (bool, error) {
	if j.open != nil {
		return false, ErrRecording
	}
	if j.cursor >= len(j.groups) {
		return false, nil
	}
	g := j.groups[j.cursor]
	inverses, err := g.applyForward(t)
	if err != nil {
		j.fail(err)
		return false, err
	}
	j.size += g.replace(inverses)
	j.cursor++

	j.logger.Debug("undo: redone", slog.String("label", g.label))
	j.metrics.observe(opRedo, j.size)
	return true, nil
}

// fail logs an application error and clears the journal when the target
// could not be restored.
func (j *Journal) fail(err error) {
	var ae *ApplyError
	if errors.As(err, &ae) && ae.Corrupt {
		j.logger.Error("undo: journal cleared after failed restore", slog.String("err", err.Error()))
		j.Clear()
		return
	}
	j.logger.Warn("undo: apply failed", slog.String("err", err.Error()))
}

// Clear drops every group, including an open one.
func (j *Journal) Clear() {
	clear(j.groups)
	j.groups = j.groups[:0]
	j.cursor = 0
	j.open = nil
	j.size = 0
	j.saved = ^uint64(0)
	j.metrics.observe(opClear, 0)
}

// Len returns the number of closed groups (undoable and redoable).
func (j *Journal) Len() int { return len(j.groups) }

// Cursor returns the number of undoable groups.
func (j *Journal) Cursor() int { return j.cursor }

// Size returns the total payload size of all closed groups in bytes.
func (j *Journal) Size() int64 { return j.size }

// Limit returns the configured size ceiling in bytes (0 means unlimited).
func (j *Journal) Limit() int64 { return j.limit }

// position identifies the document state by the serial of the newest
// undoable group, or 0 for the state before any recorded group.
func (j *Journal) position() uint64 {
	if j.cursor == 0 {
		if len(j.groups) == 0 {
			return 0
		}
		return j.groups[0].prev
	}
	return j.groups[j.cursor-1].serial
}

// MarkSaved records the current state as the saved one.
func (j *Journal) MarkSaved() { j.saved = j.position() }

// IsModified reports whether the document moved away from the state
// recorded by MarkSaved. A fresh journal is unmodified.
func (j *Journal) IsModified() bool { return j.position() != j.saved }
