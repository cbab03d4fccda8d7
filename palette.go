package main

// Levels per channel in the fixed 8x8x4 palette.
const (
	redLevels   = 8
	greenLevels = 8
	blueLevels  = 4

	paletteSize = redLevels * greenLevels * blueLevels
)

// PaletteEntry is one colour register: its 8-bit RGB value and the same colour
// as sixel percentages (0..100).
type PaletteEntry struct {
	R, G, B    uint8
	PR, PG, PB int
}

// Palette is the fixed 256-colour table shared by the quantizer and the sixel
// encoder. Index layout is R<<5 | G<<2 | B. A Palette is never modified after
// NewPalette returns, so it may be read from any number of goroutines.
type Palette struct {
	entries [paletteSize]PaletteEntry
}

// NewPalette builds the 8x8x4 palette.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.entries {
		r := (i >> 5) & 0x07
		g := (i >> 2) & 0x07
		b := i & 0x03
		p.entries[i] = PaletteEntry{
			R:  levelValue(r, redLevels),
			G:  levelValue(g, greenLevels),
			B:  levelValue(b, blueLevels),
			PR: r * 100 / (redLevels - 1),
			PG: g * 100 / (greenLevels - 1),
			PB: b * 100 / (blueLevels - 1),
		}
	}
	return p
}

// Len returns the number of colour registers.
func (p *Palette) Len() int { return len(p.entries) }

// Entry returns colour register i.
func (p *Palette) Entry(i int) PaletteEntry { return p.entries[i] }

// Index maps an 8-bit colour to the nearest register by rounding each channel
// to its level count.
func (p *Palette) Index(r, g, b uint8) int {
	return quantizeLevel(r, redLevels)<<5 | quantizeLevel(g, greenLevels)<<2 | quantizeLevel(b, blueLevels)
}

// quantizeLevel returns round(v*(levels-1)/255).
func quantizeLevel(v uint8, levels int) int {
	return (int(v)*(levels-1)*2 + 255) / 510
}

// levelValue returns the 8-bit value of a level, round(level*255/(levels-1)).
func levelValue(level, levels int) uint8 {
	n := levels - 1
	return uint8((level*255*2 + n) / (2 * n))
}
