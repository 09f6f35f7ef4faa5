package undo

// Group is an atomic batch of undoers representing one user-visible action.
//
// While a group sits on the undo side of the journal its undoers reverse the
// action; once undone they are replaced by their inverses, which redo the
// action.
type Group struct {
	label   string
	serial  uint64
	prev    uint64 // serial of the state the group was recorded on
	undoers []Undoer
	size    int64
}

// Label returns the label the group was opened with.
func (g *Group) Label() string { return g.label }

// Len returns the number of undoers in the group.
func (g *Group) Len() int { return len(g.undoers) }

// Size returns the memory held by the group's payloads in bytes.
func (g *Group) Size() int64 { return g.size }

// Undoers returns a copy of the group's undoers in recording order.
func (g *Group) Undoers() []Undoer {
	out := make([]Undoer, len(g.undoers))
	copy(out, g.undoers)
	return out
}

func (g *Group) append(u Undoer) {
	g.undoers = append(g.undoers, u)
	g.size += u.Size()
}

// replace swaps in a new payload and returns the size delta.
func (g *Group) replace(undoers []Undoer) int64 {
	old := g.size
	g.undoers = undoers
	g.size = 0
	for _, u := range undoers {
		g.size += u.Size()
	}
	return g.size - old
}

// applyBackward applies the undoers last to first. On success it returns
// the inverses in recording order. On failure every inverse produced so far
// is re-applied so the target is back where it started.
func (g *Group) applyBackward(t Target) ([]Undoer, error) {
	n := len(g.undoers)
	inverses := make([]Undoer, n)
	for i := n - 1; i >= 0; i-- {
		inv, err := t.Apply(g.undoers[i])
		if err != nil {
			return nil, revert(t, inverses[i+1:], false, &ApplyError{Kind: g.undoers[i].Kind(), Err: err})
		}
		inverses[i] = inv
	}
	return inverses, nil
}

// applyForward applies the undoers first to last, with the same failure
// handling as applyBackward.
func (g *Group) applyForward(t Target) ([]Undoer, error) {
	n := len(g.undoers)
	inverses := make([]Undoer, n)
	for i := 0; i < n; i++ {
		inv, err := t.Apply(g.undoers[i])
		if err != nil {
			return nil, revert(t, inverses[:i], true, &ApplyError{Kind: g.undoers[i].Kind(), Err: err})
		}
		inverses[i] = inv
	}
	return inverses, nil
}

// revert re-applies inverses produced by a partially applied group.
// forward tells which direction the partial pass was walking, so the
// inverses are replayed in the opposite direction.
func revert(t Target, inverses []Undoer, forward bool, cause *ApplyError) error {
	n := len(inverses)
	for k := 0; k < n; k++ {
		i := k
		if forward {
			i = n - 1 - k
		}
		if _, err := t.Apply(inverses[i]); err != nil {
			cause.Corrupt = true
			break
		}
	}
	return cause
}
