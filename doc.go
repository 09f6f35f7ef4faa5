// Package sprite provides the document model of a raster animation editor.
//
// # Overview
//
// A Sprite is a multi-layer, multi-frame image. Its layers form a tree: a
// LayerSet holds child layers, an ImageLayer holds cels, one per frame at
// most. A Cel places a stock image at an offset with an opacity. Images
// live in the sprite's Stock and are addressed by integer index, so several
// cels may share one image.
//
// # Quick Start
//
//	s, err := sprite.NewWithLayer(raster.ModeRGBA, 64, 64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Release()
//
//	s.Lock()
//	err = s.NewFrame() // duplicates frame 0 into frame 1
//	s.Unlock()
//
//	s.Lock()
//	s.Undo() // frame 1 is gone again
//	s.Unlock()
//
// # Undo
//
// Every mutating method records an undoer in the sprite's journal while a
// group is open. Transaction opens and closes a group around a function;
// InsertFrame, NewFrame and RemoveFrame open their own when none is open.
// Undo reverts a whole group, Redo re-applies it.
//
// # Concurrency
//
// A Sprite carries one document lock (Lock, LockContext, TryLock, Unlock).
// Nothing inside the sprite is synchronized otherwise: hold the lock for
// every mutation and for any read, such as Render, that must not observe a
// half-recorded group.
//
// # Sub-packages
//
//   - raster: pixel buffers, palettes, blending
//   - undo: the undo journal
package sprite
