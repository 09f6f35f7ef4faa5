// Package undo provides the reversible-operation journal used by sprites.
//
// The journal records mutations as typed undoers grouped into atomic
// groups. Each undoer holds the minimum state required to invert one
// primitive mutation. Undoers are data only: applying them is delegated to a
// Target, which performs the inverse mutation and returns a fresh undoer
// describing how to reverse what it just did. This keeps the forward and
// backward paths on the same primitive operations.
//
// # Lifecycle
//
//	j := undo.New(undo.WithLimit(8 << 20))
//	if j.Open("New Frame") {
//	    j.Append(u1)
//	    j.Append(u2)
//	    j.Close()
//	}
//	j.Undo(target) // applies u2's then u1's inverse
//	j.Redo(target) // re-applies in recording order
//
// # Thread safety
//
// Journal is not safe for concurrent use. It is owned by a document whose
// lock serializes every group.
package undo

// Kind identifies the type of an undoer.
// Each kind corresponds to one primitive document mutation.
type Kind uint8

const (
	KindSetInt           Kind = iota // Patch an integer field
	KindAddImage                     // Image inserted into the stock
	KindRemoveImage                  // Image removed from the stock
	KindReplaceImage                 // Stock slot image swapped
	KindAddCel                       // Cel added to a layer
	KindRemoveCel                    // Cel removed from a layer
	KindSetFrames                    // Frame count changed
	KindSetFrameDuration             // Frame duration changed
	KindAddLayer                     // Layer inserted into the tree
	KindRemoveLayer                  // Layer removed from the tree
	KindMoveLayer                    // Layer reordered within its parent
	KindSetCurrentLayer              // Active layer changed
	KindSetPalette                   // Palette entry set or removed
	KindSetMask                      // Selection mask replaced
	KindAddMask                      // Mask added to the repository
	KindRemoveMask                   // Mask removed from the repository
	KindSetPath                      // Working path replaced
	KindAddPath                      // Path added to the repository
	KindRemovePath                   // Path removed from the repository

	kindCount
)

// kindNames maps Kind values to their string representation.
var kindNames = [...]string{
	KindSetInt:           "SetInt",
	KindAddImage:         "AddImage",
	KindRemoveImage:      "RemoveImage",
	KindReplaceImage:     "ReplaceImage",
	KindAddCel:           "AddCel",
	KindRemoveCel:        "RemoveCel",
	KindSetFrames:        "SetFrames",
	KindSetFrameDuration: "SetFrameDuration",
	KindAddLayer:         "AddLayer",
	KindRemoveLayer:      "RemoveLayer",
	KindMoveLayer:        "MoveLayer",
	KindSetCurrentLayer:  "SetCurrentLayer",
	KindSetPalette:       "SetPalette",
	KindSetMask:          "SetMask",
	KindAddMask:          "AddMask",
	KindRemoveMask:       "RemoveMask",
	KindSetPath:          "SetPath",
	KindAddPath:          "AddPath",
	KindRemovePath:       "RemovePath",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// Undoer is one reversible unit recorded in a group.
type Undoer interface {
	// Kind returns the mutation kind this undoer reverses.
	Kind() Kind

	// Size returns the approximate memory held by the payload in bytes.
	// Captured images dominate this value.
	Size() int64
}

// Target applies undoers against the document they were recorded on.
//
// Apply performs the mutation described by u and returns the undoer that
// reverses it, computed from the state found at apply time. If Apply
// returns an error the document must be left unchanged.
type Target interface {
	Apply(u Undoer) (Undoer, error)
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(u Undoer) (Undoer, error)

// Apply implements Target.
func (f TargetFunc) Apply(u Undoer) (Undoer, error) { return f(u) }
