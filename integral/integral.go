// Package integral builds prefix-sum grids over the resampled RGB planes so
// the renderer can answer arbitrary rectangle sum/sum-of-squares queries in
// O(1).
package integral

import "github.com/zinbin/tlimg/resample"

// Plane selects one of the six prefix-sum grids a rectangle query can be run
// against.
type Plane int

const (
	R Plane = iota
	G
	B
	R2
	G2
	B2
)

// Images holds the six (W+1)x(H+1) prefix-sum grids over a resample.Planes:
// sum and sum-of-squares for each of R, G, B. Row 0 and column 0 are always
// zero.
type Images struct {
	Width, Height int // the underlying plane's dimensions, not the grid's

	sumR, sumG, sumB    []uint64
	sumR2, sumG2, sumB2 []uint64
}

// Build computes all six prefix-sum grids over p in a single sequential
// pass. The row dependency (S[y+1] is derived from S[y]) makes this phase
// inherently sequential; the renderer parallelizes instead, over its
// independent output stripes.
func Build(p resample.Planes) Images {
	w, h := p.Width, p.Height
	stride := w + 1
	im := Images{
		Width: w, Height: h,
		sumR: make([]uint64, stride*(h+1)), sumG: make([]uint64, stride*(h+1)), sumB: make([]uint64, stride*(h+1)),
		sumR2: make([]uint64, stride*(h+1)), sumG2: make([]uint64, stride*(h+1)), sumB2: make([]uint64, stride*(h+1)),
	}
	if w <= 0 || h <= 0 {
		return im
	}

	for y := 0; y < h; y++ {
		var rowR, rowG, rowB, rowR2, rowG2, rowB2 uint64
		rowBase := y * w
		up := y * stride
		cur := (y + 1) * stride
		for x := 0; x < w; x++ {
			r := uint64(p.R[rowBase+x])
			g := uint64(p.G[rowBase+x])
			b := uint64(p.B[rowBase+x])
			rowR += r
			rowG += g
			rowB += b
			rowR2 += r * r
			rowG2 += g * g
			rowB2 += b * b

			i := cur + x + 1
			iUp := up + x + 1
			im.sumR[i] = im.sumR[iUp] + rowR
			im.sumG[i] = im.sumG[iUp] + rowG
			im.sumB[i] = im.sumB[iUp] + rowB
			im.sumR2[i] = im.sumR2[iUp] + rowR2
			im.sumG2[i] = im.sumG2[iUp] + rowG2
			im.sumB2[i] = im.sumB2[iUp] + rowB2
		}
	}
	return im
}

// Rect returns the sum over the underlying plane's rectangle [x0,x1)x[y0,y1)
// for the given Plane, in constant time.
func (im Images) Rect(pl Plane, x0, y0, x1, y1 int) uint64 {
	stride := im.Width + 1
	grid := im.grid(pl)
	a := grid[y0*stride+x0]
	b := grid[y0*stride+x1]
	c := grid[y1*stride+x0]
	d := grid[y1*stride+x1]
	return d + a - b - c
}

func (im Images) grid(pl Plane) []uint64 {
	switch pl {
	case R:
		return im.sumR
	case G:
		return im.sumG
	case B:
		return im.sumB
	case R2:
		return im.sumR2
	case G2:
		return im.sumG2
	default:
		return im.sumB2
	}
}
