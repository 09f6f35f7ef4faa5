package undo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// setValue restores doc[key] to value.
type setValue struct {
	key   string
	value int
	bytes int64
}

func (setValue) Kind() Kind    { return KindSetInt }
func (u setValue) Size() int64 { return u.bytes }

// brokenUndoer always fails to apply.
type brokenUndoer struct{}

func (brokenUndoer) Kind() Kind  { return KindAddCel }
func (brokenUndoer) Size() int64 { return 1 }

// doc is a minimal Target: a map of integers.
type doc struct {
	values map[string]int
	log    []string
}

func newDoc() *doc { return &doc{values: map[string]int{}} }

func (d *doc) Apply(u Undoer) (Undoer, error) {
	switch u := u.(type) {
	case setValue:
		old := d.values[u.key]
		d.values[u.key] = u.value
		d.log = append(d.log, u.key)
		return setValue{key: u.key, value: old, bytes: u.bytes}, nil
	default:
		return nil, errors.New("unsupported")
	}
}

// set mutates the doc and records the inverse in j.
func (d *doc) set(j *Journal, key string, v int) {
	j.Append(setValue{key: key, value: d.values[key], bytes: 10})
	d.values[key] = v
}

func record(j *Journal, d *doc, label string, kv ...any) {
	j.Open(label)
	for i := 0; i < len(kv); i += 2 {
		d.set(j, kv[i].(string), kv[i+1].(int))
	}
	j.Close()
}

func TestKind_String(t *testing.T) {
	if KindRemoveCel.String() != "RemoveCel" {
		t.Errorf("String() = %q", KindRemoveCel.String())
	}
	if Kind(200).String() != "Unknown" {
		t.Errorf("String() = %q, want Unknown", Kind(200).String())
	}
}

func TestJournal_OpenTwiceFails(t *testing.T) {
	j := New()
	if !j.Open("a") {
		t.Fatal("first Open() = false")
	}
	if j.Open("b") {
		t.Error("nested Open() = true, want false")
	}
	if !j.IsRecording() {
		t.Error("IsRecording() = false")
	}
	j.Close()
	if j.IsRecording() {
		t.Error("IsRecording() = true after Close")
	}
}

func TestJournal_AppendRequiresOpenGroup(t *testing.T) {
	j := New()
	if j.Append(setValue{key: "x"}) {
		t.Error("Append() outside a group = true")
	}
}

func TestJournal_DisabledRejectsOpen(t *testing.T) {
	j := New()
	j.Disable()
	if j.Open("x") {
		t.Error("Open() on disabled journal = true")
	}
	j.Enable()
	if !j.Open("x") {
		t.Error("Open() after Enable = false")
	}
}

func TestJournal_EmptyGroupDropped(t *testing.T) {
	j := New()
	j.Open("nothing")
	j.Close()
	if j.Len() != 0 || j.CanUndo() {
		t.Errorf("Len() = %d, CanUndo() = %v", j.Len(), j.CanUndo())
	}
}

// TestJournal_UndoOrder verifies a group's undoers are applied last to first
// on undo and first to last on redo.
func TestJournal_UndoOrder(t *testing.T) {
	j := New()
	d := newDoc()
	record(j, d, "edit", "a", 1, "b", 2, "c", 3)

	if ok, err := j.Undo(d); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if got := d.log; len(got) != 3 || got[0] != "c" || got[1] != "b" || got[2] != "a" {
		t.Errorf("undo order = %v, want [c b a]", got)
	}
	if d.values["a"] != 0 || d.values["b"] != 0 || d.values["c"] != 0 {
		t.Errorf("values after undo = %v", d.values)
	}

	d.log = nil
	if ok, err := j.Redo(d); !ok || err != nil {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	if got := d.log; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("redo order = %v, want [a b c]", got)
	}
	if d.values["a"] != 1 || d.values["b"] != 2 || d.values["c"] != 3 {
		t.Errorf("values after redo = %v", d.values)
	}
}

// TestJournal_SameFieldTwice verifies reverse application restores the
// oldest value when one group patches a field repeatedly.
func TestJournal_SameFieldTwice(t *testing.T) {
	j := New()
	d := newDoc()
	record(j, d, "twice", "a", 1, "a", 2)

	j.Undo(d)
	if d.values["a"] != 0 {
		t.Errorf("a = %d after undo, want 0", d.values["a"])
	}
	j.Redo(d)
	if d.values["a"] != 2 {
		t.Errorf("a = %d after redo, want 2", d.values["a"])
	}
}

func TestJournal_NothingToUndo(t *testing.T) {
	j := New()
	d := newDoc()
	if ok, err := j.Undo(d); ok || err != nil {
		t.Errorf("Undo() = %v, %v; want false, nil", ok, err)
	}
	if ok, err := j.Redo(d); ok || err != nil {
		t.Errorf("Redo() = %v, %v; want false, nil", ok, err)
	}
}

func TestJournal_UndoWhileRecording(t *testing.T) {
	j := New()
	d := newDoc()
	record(j, d, "a", "a", 1)
	j.Open("b")
	if _, err := j.Undo(d); !errors.Is(err, ErrRecording) {
		t.Errorf("Undo() error = %v, want ErrRecording", err)
	}
	if _, err := j.Redo(d); !errors.Is(err, ErrRecording) {
		t.Errorf("Redo() error = %v, want ErrRecording", err)
	}
}

// TestJournal_BranchDiscard verifies recording after undo drops redo history.
func TestJournal_BranchDiscard(t *testing.T) {
	j := New()
	d := newDoc()
	record(j, d, "one", "a", 1)
	record(j, d, "two", "a", 2)
	record(j, d, "three", "a", 3)

	j.Undo(d)
	j.Undo(d)
	if !j.CanRedo() || j.RedoLabel() != "two" {
		t.Fatalf("RedoLabel() = %q", j.RedoLabel())
	}

	record(j, d, "branch", "b", 7)
	if j.CanRedo() {
		t.Error("CanRedo() = true after new branch")
	}
	if ok, _ := j.Redo(d); ok {
		t.Error("Redo() applied a discarded group")
	}
	if j.Len() != 2 || j.UndoLabel() != "branch" {
		t.Errorf("Len() = %d, UndoLabel() = %q", j.Len(), j.UndoLabel())
	}
	if j.Size() != 20 {
		t.Errorf("Size() = %d, want 20", j.Size())
	}
}

func TestJournal_EvictsOldest(t *testing.T) {
	j := New(WithLimit(25))
	d := newDoc()
	record(j, d, "one", "a", 1)
	record(j, d, "two", "a", 2)
	record(j, d, "three", "a", 3)

	if j.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", j.Len())
	}
	if j.Size() > 25 {
		t.Errorf("Size() = %d over limit", j.Size())
	}
	j.Undo(d)
	j.Undo(d)
	if ok, _ := j.Undo(d); ok {
		t.Error("evicted group was undone")
	}
	if d.values["a"] != 1 {
		t.Errorf("a = %d, want 1", d.values["a"])
	}
}

// TestJournal_NewestGroupSurvivesEviction verifies a single group larger
// than the limit is kept.
func TestJournal_NewestGroupSurvivesEviction(t *testing.T) {
	j := New(WithLimit(5))
	d := newDoc()
	record(j, d, "big", "a", 1, "b", 2)
	if j.Len() != 1 || !j.CanUndo() {
		t.Errorf("Len() = %d, CanUndo() = %v", j.Len(), j.CanUndo())
	}
}

// TestJournal_FailedUndoRestores verifies a failing undoer leaves the
// target and the journal unchanged.
func TestJournal_FailedUndoRestores(t *testing.T) {
	j := New()
	d := newDoc()
	j.Open("mixed")
	j.Append(brokenUndoer{})
	d.set(j, "a", 5)
	j.Close()

	ok, err := j.Undo(d)
	var ae *ApplyError
	if ok || !errors.As(err, &ae) {
		t.Fatalf("Undo() = %v, %v; want ApplyError", ok, err)
	}
	if ae.Kind != KindAddCel || ae.Corrupt {
		t.Errorf("ApplyError = %+v", ae)
	}
	if d.values["a"] != 5 {
		t.Errorf("a = %d, want 5 (restored)", d.values["a"])
	}
	if !j.CanUndo() {
		t.Error("group was dropped after failed undo")
	}
}

func TestJournal_Rollback(t *testing.T) {
	j := New()
	d := newDoc()
	j.Open("tx")
	d.set(j, "a", 1)
	d.set(j, "b", 2)
	if err := j.Rollback(d); err != nil {
		t.Fatal(err)
	}
	if d.values["a"] != 0 || d.values["b"] != 0 {
		t.Errorf("values = %v", d.values)
	}
	if j.IsRecording() || j.Len() != 0 {
		t.Errorf("IsRecording() = %v, Len() = %d", j.IsRecording(), j.Len())
	}
	if err := j.Rollback(d); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Rollback() error = %v", err)
	}
}

func TestJournal_Modified(t *testing.T) {
	j := New()
	d := newDoc()
	if j.IsModified() {
		t.Fatal("fresh journal is modified")
	}
	record(j, d, "one", "a", 1)
	if !j.IsModified() {
		t.Fatal("IsModified() = false after recording")
	}
	j.MarkSaved()
	if j.IsModified() {
		t.Fatal("IsModified() = true after MarkSaved")
	}
	j.Undo(d)
	if !j.IsModified() {
		t.Error("IsModified() = false after undo")
	}
	j.Redo(d)
	if j.IsModified() {
		t.Error("IsModified() = true after redo back to saved state")
	}

	j.Undo(d)
	record(j, d, "branch", "b", 1)
	if !j.IsModified() {
		t.Error("IsModified() = false on a new branch")
	}
}

func TestJournal_ModifiedAcrossEviction(t *testing.T) {
	j := New(WithLimit(10))
	d := newDoc()
	record(j, d, "one", "a", 1)
	j.MarkSaved()
	record(j, d, "two", "a", 2)
	if j.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", j.Len())
	}
	j.Undo(d)
	if j.IsModified() {
		t.Error("state after undoing to the saved point is reported modified")
	}
}

func TestJournal_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	j := New(WithMetrics(m), WithLimit(15))
	d := newDoc()

	record(j, d, "one", "a", 1)
	record(j, d, "two", "a", 2)
	j.Undo(d)
	j.Redo(d)

	if got := testutil.ToFloat64(m.groups.WithLabelValues(opRecord)); got != 2 {
		t.Errorf("record = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.groups.WithLabelValues(opEvict)); got != 1 {
		t.Errorf("evict = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.groups.WithLabelValues(opUndo)); got != 1 {
		t.Errorf("undo = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bytes); got != 10 {
		t.Errorf("bytes = %v, want 10", got)
	}
}

func TestJournal_Logger(t *testing.T) {
	j := New(WithLogger(nil))
	if j.logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("journal without a logger should be silent")
	}

	var buf bytes.Buffer
	j.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	j.Open("Edit")
	j.Append(setValue{key: "a", value: 1, bytes: 1})
	j.Close()
	if !strings.Contains(buf.String(), "Edit") {
		t.Errorf("log output = %q, want the group label", buf.String())
	}

	j.SetLogger(nil)
	if j.logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should silence the journal")
	}
}
