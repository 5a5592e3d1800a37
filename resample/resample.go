// Package resample area-averages an arbitrary RGB image down (or up) to an
// intermediate high-resolution plane, using exact rectangular-box averaging
// with per-column run precomputation and tiled parallel execution.
package resample

import (
	"context"
	"sync"

	"github.com/zinbin/tlimg/asset"
	"github.com/zinbin/tlimg/parallel"
)

// Planes is the resampled image in Structure-of-Arrays layout: one flat
// byte plane per channel, row-major, Width*Height entries each.
type Planes struct {
	Width, Height int
	R, G, B       []uint8
}

// Options tunes the resampler's tiling. The zero value selects the
// documented defaults.
type Options struct {
	// TileHeight is the number of source/output rows grouped into one
	// parallel unit of work. Defaults to 64.
	TileHeight int
}

func (o Options) tileHeight() int {
	if o.TileHeight > 0 {
		return o.TileHeight
	}
	return 64
}

// Progress reports a stage's completion fraction in [0, 1].
type Progress func(fraction float64)

func (p Progress) report(f float64) {
	if p != nil {
		p(f)
	}
}

// run is a maximal range of output columns sharing the same
// source-sample length, letting the inner accumulate loop fold the length
// into a constant instead of re-loading it per column.
type run struct {
	start, end, length int
}

// Resample area-averages raw into a Planes of the given output size. Fails
// silently: when outW or outH is non-positive it returns a Planes with no
// pixel data. When raw is invalid or has a non-positive dimension it does
// not return a zero-sized Planes; it returns zero-filled planes of the
// requested outW x outH size.
func Resample(ctx context.Context, raw asset.RawImage, outW, outH int, opts Options, progress Progress) Planes {
	out := Planes{Width: outW, Height: outH}
	if outW <= 0 || outH <= 0 {
		return out
	}
	out.R = make([]uint8, outW*outH)
	out.G = make([]uint8, outW*outH)
	out.B = make([]uint8, outW*outH)
	if !raw.Valid || raw.Width <= 0 || raw.Height <= 0 {
		return out
	}

	tile := opts.tileHeight()

	x0s, x1s := columnMapping(outW, raw.Width)
	runs := buildRuns(x0s, x1s)
	y0s, y1s := columnMapping(outH, raw.Height)

	progress.report(0.05)

	pr, pg, pb := planarize(ctx, raw, tile)
	progress.report(0.2)

	hr, hg, hb := horizontalAccumulate(ctx, pr, pg, pb, raw.Width, raw.Height, outW, x0s, runs, tile)
	progress.report(0.3)

	verticalAccumulate(ctx, out, hr, hg, hb, outW, outH, x0s, x1s, y0s, y1s, tile, progress)

	return out
}

// columnMapping computes, for each of n output positions, the half-open
// [lo, hi) range of source positions it covers (floor/ceil box mapping).
func columnMapping(n, srcN int) (lo, hi []int) {
	lo = make([]int, n)
	hi = make([]int, n)
	for i := 0; i < n; i++ {
		l := i * srcN / n
		h := ceilDiv((i+1)*srcN, n)
		lo[i] = clamp(l, 0, srcN)
		hi[i] = clamp(h, 0, srcN)
	}
	return lo, hi
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buildRuns partitions [0, len(x0s)) into maximal runs of equal
// (x1-x0) length.
func buildRuns(x0s, x1s []int) []run {
	n := len(x0s)
	if n == 0 {
		return nil
	}
	var runs []run
	curLen := x1s[0] - x0s[0]
	start := 0
	for bx := 1; bx <= n; bx++ {
		length := -1
		if bx < n {
			length = x1s[bx] - x0s[bx]
		}
		if length != curLen {
			runs = append(runs, run{start: start, end: bx, length: curLen})
			start = bx
			curLen = length
		}
	}
	return runs
}

// planarize splits raw's interleaved RGB into three byte planes, in
// parallel row tiles.
func planarize(ctx context.Context, raw asset.RawImage, tile int) (pr, pg, pb []uint8) {
	w, h, ch := raw.Width, raw.Height, raw.Channels
	pr = make([]uint8, w*h)
	pg = make([]uint8, w*h)
	pb = make([]uint8, w*h)

	parallel.Tiles(ctx, h, tile, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			srcRow := raw.Pix[y*w*ch:]
			dstOff := y * w
			for x := 0; x < w; x++ {
				s := srcRow[x*ch : x*ch+3 : x*ch+3]
				pr[dstOff+x] = s[0]
				pg[dstOff+x] = s[1]
				pb[dstOff+x] = s[2]
			}
		}
		return nil
	})
	return pr, pg, pb
}

// horizontalAccumulate computes, for every source row and output column,
// the box sum of that column's run over the planarized source row. Shared
// across every output row sampling the same source row, so the cost is
// independent of output row multiplicity.
func horizontalAccumulate(ctx context.Context, pr, pg, pb []uint8, srcW, srcH, outW int, x0s []int, runs []run, tile int) (hr, hg, hb []uint32) {
	hr = make([]uint32, srcH*outW)
	hg = make([]uint32, srcH*outW)
	hb = make([]uint32, srcH*outW)

	parallel.Tiles(ctx, srcH, tile, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			rowR := pr[y*srcW : (y+1)*srcW]
			rowG := pg[y*srcW : (y+1)*srcW]
			rowB := pb[y*srcW : (y+1)*srcW]
			dstR := hr[y*outW : (y+1)*outW]
			dstG := hg[y*outW : (y+1)*outW]
			dstB := hb[y*outW : (y+1)*outW]

			for _, r := range runs {
				length := r.length
				bx := r.start
				for ; bx+1 < r.end; bx += 2 {
					x0a, x0b := x0s[bx], x0s[bx+1]
					sR0, sR1 := sumPair(rowR, x0a, x0b, length)
					sG0, sG1 := sumPair(rowG, x0a, x0b, length)
					sB0, sB1 := sumPair(rowB, x0a, x0b, length)
					dstR[bx], dstR[bx+1] = sR0, sR1
					dstG[bx], dstG[bx+1] = sG0, sG1
					dstB[bx], dstB[bx+1] = sB0, sB1
				}
				if bx < r.end {
					x0 := x0s[bx]
					dstR[bx] = sumRun(rowR, x0, length)
					dstG[bx] = sumRun(rowG, x0, length)
					dstB[bx] = sumRun(rowB, x0, length)
				}
			}
		}
		return nil
	})
	return hr, hg, hb
}

func sumRun(row []uint8, x0, length int) uint32 {
	var s uint32
	for i := 0; i < length; i++ {
		s += uint32(row[x0+i])
	}
	return s
}

func sumPair(row []uint8, x0a, x0b, length int) (uint32, uint32) {
	return sumRun(row, x0a, length), sumRun(row, x0b, length)
}

// verticalAccumulate sums each output cell's column of horizontal sums over
// its source row range and normalizes by pixel count, writing into out.
func verticalAccumulate(ctx context.Context, out Planes, hr, hg, hb []uint32, outW, outH int, x0s, x1s, y0s, y1s []int, tile int, progress Progress) {
	numChunks := (outH + tile - 1) / tile
	var mu sync.Mutex
	completed := 0
	parallel.Tiles(ctx, outH, tile, func(ctx context.Context, by0, by1 int) error {
		for by := by0; by < by1; by++ {
			y0, y1 := y0s[by], y1s[by]
			rowOut := by * outW
			for bx := 0; bx < outW; bx++ {
				count := (x1s[bx] - x0s[bx]) * (y1 - y0)
				if count <= 0 {
					count = 1
				}
				var rsum, gsum, bsum uint64
				for sy := y0; sy < y1; sy++ {
					idx := sy*outW + bx
					rsum += uint64(hr[idx])
					gsum += uint64(hg[idx])
					bsum += uint64(hb[idx])
				}
				out.R[rowOut+bx] = uint8(rsum / uint64(count))
				out.G[rowOut+bx] = uint8(gsum / uint64(count))
				out.B[rowOut+bx] = uint8(bsum / uint64(count))
			}
		}
		mu.Lock()
		completed++
		progress.report(0.3 + 0.7*float64(completed)/float64(numChunks))
		mu.Unlock()
		return nil
	})
}
