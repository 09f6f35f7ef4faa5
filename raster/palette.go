package raster

// PaletteSize is the number of entries in a Palette.
const PaletteSize = 256

// Palette maps indexed pixels to RGBA pixels.
type Palette struct {
	colors [PaletteSize]Pixel
}

// NewPalette creates a palette with every entry set to opaque black.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.colors {
		p.colors[i] = RGBA(0, 0, 0, 255)
	}
	return p
}

// NewGrayPalette creates a palette with a linear gray ramp.
func NewGrayPalette() *Palette {
	p := &Palette{}
	for i := range p.colors {
		v := uint8(i)
		p.colors[i] = RGBA(v, v, v, 255)
	}
	return p
}

// Color returns the RGBA pixel at index i.
func (p *Palette) Color(i uint8) Pixel {
	return p.colors[i]
}

// SetColor sets the RGBA pixel at index i.
func (p *Palette) SetColor(i uint8, c Pixel) {
	p.colors[i] = c
}

// Clone creates a copy of the palette.
func (p *Palette) Clone() *Palette {
	c := *p
	return &c
}

// CopyColors copies every entry of src into p.
func (p *Palette) CopyColors(src *Palette) {
	p.colors = src.colors
}

// Equal reports whether both palettes hold the same colors.
func (p *Palette) Equal(o *Palette) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.colors == o.colors
}

// Size returns the memory held by the palette in bytes.
func (p *Palette) Size() int {
	return PaletteSize * 4
}
