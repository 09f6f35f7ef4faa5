package sprite

import "errors"

// Errors reported by sprite operations. Misuse errors leave the sprite
// unchanged; callers abort the current command and carry on.
var (
	// ErrOutOfMemory is returned when an image does not fit under the
	// sprite's memory ceiling.
	ErrOutOfMemory = errors.New("sprite: not enough memory")

	// ErrInvalidFrames is returned for a frame count below 1.
	ErrInvalidFrames = errors.New("sprite: frame count must be at least 1")

	// ErrFrameOutOfRange is returned for a frame outside [0, frames).
	ErrFrameOutOfRange = errors.New("sprite: frame out of range")

	// ErrCelExists is returned when adding a cel to an occupied frame.
	ErrCelExists = errors.New("sprite: layer already has a cel in that frame")

	// ErrCelHasLayer is returned when adding a cel that already belongs to
	// a layer.
	ErrCelHasLayer = errors.New("sprite: cel already belongs to a layer")

	// ErrNoCel is returned when no cel exists where one is expected.
	ErrNoCel = errors.New("sprite: no cel in that frame")

	// ErrNoImage is returned for a stock index that holds no image or for a
	// nil image.
	ErrNoImage = errors.New("sprite: no image at stock index")

	// ErrSlotInUse is returned when restoring an image into an occupied slot.
	ErrSlotInUse = errors.New("sprite: stock slot in use")

	// ErrImageInUse is returned when removing an image a cel still references.
	ErrImageInUse = errors.New("sprite: image referenced by a cel")

	// ErrLayerHasParent is returned when attaching a layer that already
	// belongs to a layer set.
	ErrLayerHasParent = errors.New("sprite: layer already has a parent")

	// ErrLayerCycle is returned when a layer set would contain itself.
	ErrLayerCycle = errors.New("sprite: layer set cannot contain itself")

	// ErrLayerNotFound is returned for a layer that is not in the tree.
	ErrLayerNotFound = errors.New("sprite: layer not found")

	// ErrNotImageLayer is returned when an image layer is required.
	ErrNotImageLayer = errors.New("sprite: not an image layer")

	// ErrBackgroundExists is returned when adding a second background layer.
	ErrBackgroundExists = errors.New("sprite: sprite already has a background layer")

	// ErrMaskNotFound is returned for a mask missing from the repository.
	ErrMaskNotFound = errors.New("sprite: mask not found")

	// ErrPathNotFound is returned for a path missing from the repository.
	ErrPathNotFound = errors.New("sprite: path not found")

	// ErrColorMode is returned for an image whose color mode differs from
	// the sprite's.
	ErrColorMode = errors.New("sprite: color mode mismatch")

	// ErrBasePalette is returned when removing the palette of frame 0.
	ErrBasePalette = errors.New("sprite: frame 0 palette cannot be removed")

	// ErrUnknownUndoer is returned when applying an undoer of a foreign type.
	ErrUnknownUndoer = errors.New("sprite: unknown undoer")
)

// errStop ends a tree traversal early.
var errStop = errors.New("sprite: stop")
