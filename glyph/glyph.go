// Package glyph enumerates the fixed set of candidate terminal characters
// used to approximate an 8x8 block of source pixels, along with their
// rectangular foreground footprints within that block.
package glyph

// Kind identifies which shape a Glyph's foreground mask takes.
type Kind int

const (
	KindFull Kind = iota
	KindSpace
	KindQuadrant
	KindHorizontalBar
	KindVerticalBar
)

// Glyph is one candidate character: its Unicode code point, its Kind, and
// (for bars and quadrants) the parameter selecting which rectangle of the
// 8x8 block is foreground.
type Glyph struct {
	Code     rune
	Kind     Kind
	Level    int // HorizontalBar/VerticalBar: 1..8
	Quadrant int // Quadrant: 0..3
}

// quadrantBottomRight is U+259E (▞, the diagonal quadrant pair), not the
// solid bottom-right block U+2597 (▗). The original tool's glyph table uses
// U+259E for quadrant index 3 despite labeling it "bottom-right solid"; this
// is preserved verbatim rather than "corrected" to U+2597, so that output
// matches the tool being reproduced. See the quadrant glyph table entry
// below and spec.md's Open Question on this exact discrepancy.
const quadrantBottomRight = 0x259E

// Set is the fixed, ordered glyph candidate list. Enumeration order is a
// correctness requirement: ties in the renderer's error minimization are
// broken by earliest occurrence in this slice.
var Set = buildSet()

func buildSet() []Glyph {
	g := make([]Glyph, 0, 22)

	g = append(g, Glyph{Code: 0x2588, Kind: KindFull})
	g = append(g, Glyph{Code: 0x0020, Kind: KindSpace})

	g = append(g, Glyph{Code: 0x2598, Kind: KindQuadrant, Quadrant: 0}) // top-left
	g = append(g, Glyph{Code: 0x259D, Kind: KindQuadrant, Quadrant: 1}) // top-right
	g = append(g, Glyph{Code: 0x2596, Kind: KindQuadrant, Quadrant: 2}) // bottom-left
	g = append(g, Glyph{Code: quadrantBottomRight, Kind: KindQuadrant, Quadrant: 3})

	// HorizontalBar levels 8..1, bottom-filled. Level 8 is the solid block,
	// reused rather than special-cased.
	hcodes := [8]rune{0x2588, 0x2587, 0x2586, 0x2585, 0x2584, 0x2583, 0x2582, 0x2581}
	for level := 8; level >= 1; level-- {
		g = append(g, Glyph{Code: hcodes[8-level], Kind: KindHorizontalBar, Level: level})
	}

	// VerticalBar levels 8..1, left-filled.
	vcodes := [8]rune{0x2588, 0x2589, 0x258A, 0x258B, 0x258C, 0x258D, 0x258E, 0x258F}
	for level := 8; level >= 1; level-- {
		g = append(g, Glyph{Code: vcodes[8-level], Kind: KindVerticalBar, Level: level})
	}

	return g
}

// Footprint describes a glyph's foreground rectangle within an 8x8 block
// whose top-left corner is at (x0, y0) in some larger coordinate space (an
// integral image's plane coordinates, typically).
type Footprint struct {
	X0, Y0, X1, Y1 int // half-open rectangle, [X0,X1) x [Y0,Y1)
	Count          int // (X1-X0)*(Y1-Y0), 0 for Space
}

// Foreground computes g's foreground footprint for the 8x8 block at
// (x0, y0)-(x0+8, y0+8).
func (g Glyph) Foreground(x0, y0 int) Footprint {
	const blockW, blockH = 8, 8
	x1, y1 := x0+blockW, y0+blockH

	switch g.Kind {
	case KindFull:
		return Footprint{x0, y0, x1, y1, blockW * blockH}
	case KindSpace:
		return Footprint{x0, y0, x0, y0, 0}
	case KindHorizontalBar:
		rows := g.Level // ceil(level*8/8) == level
		fy0 := y1 - rows
		return Footprint{x0, fy0, x1, y1, blockW * rows}
	case KindVerticalBar:
		cols := g.Level
		fx1 := x0 + cols
		return Footprint{x0, y0, fx1, y1, cols * blockH}
	case KindQuadrant:
		qx0 := x0
		if g.Quadrant%2 == 1 {
			qx0 = x0 + blockW/2
		}
		qy0 := y0
		if g.Quadrant >= 2 {
			qy0 = y0 + blockH/2
		}
		return Footprint{qx0, qy0, qx0 + blockW/2, qy0 + blockH/2, (blockW / 2) * (blockH / 2)}
	default:
		return Footprint{x0, y0, x0, y0, 0}
	}
}
