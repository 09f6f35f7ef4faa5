// Package raster provides the pixel buffers that sprite cels reference.
//
// An Image stores pixels in one of three color modes. Colors travel as a
// packed Pixel value whose layout depends on the mode, so the same accessor
// works for indexed, grayscale and RGBA images.
package raster

// ColorMode represents the pixel storage layout of an Image.
type ColorMode uint8

const (
	// ModeRGBA is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	ModeRGBA ColorMode = iota

	// ModeGrayscale is 8-bit gray with 8-bit alpha (2 bytes per pixel).
	ModeGrayscale

	// ModeIndexed is an 8-bit palette index (1 byte per pixel).
	// Index 0 is the transparent mask color.
	ModeIndexed

	// modeCount is the number of modes (for internal use).
	modeCount
)

// modeInfo contains metadata about a color mode.
type modeInfo struct {
	name          string
	bytesPerPixel int
}

var modeInfoTable = [modeCount]modeInfo{
	ModeRGBA:      {name: "RGBA", bytesPerPixel: 4},
	ModeGrayscale: {name: "Grayscale", bytesPerPixel: 2},
	ModeIndexed:   {name: "Indexed", bytesPerPixel: 1},
}

// BytesPerPixel returns the number of bytes per pixel for this mode.
// Returns 0 for unknown modes.
func (m ColorMode) BytesPerPixel() int {
	if m >= modeCount {
		return 0
	}
	return modeInfoTable[m].bytesPerPixel
}

// IsValid returns true if the mode is a known color mode.
func (m ColorMode) IsValid() bool {
	return m < modeCount
}

// String returns a human-readable name for the mode.
func (m ColorMode) String() string {
	if m >= modeCount {
		return "Unknown"
	}
	return modeInfoTable[m].name
}

// RowBytes returns the number of bytes for one row of width pixels.
func (m ColorMode) RowBytes(width int) int {
	return width * m.BytesPerPixel()
}

// ImageBytes returns the total bytes needed for an image of the given size.
func (m ColorMode) ImageBytes(width, height int) int {
	return m.RowBytes(width) * height
}
