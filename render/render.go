// Package render selects, for every 8x8 sub-block of a resampled image, the
// (glyph, foreground, background) triple that minimizes mean-squared color
// error, using integral images for O(1) rectangle statistics.
package render

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/zinbin/tlimg/asset"
	"github.com/zinbin/tlimg/glyph"
	"github.com/zinbin/tlimg/integral"
	"github.com/zinbin/tlimg/parallel"
	"github.com/zinbin/tlimg/resample"
)

const blockSize = 8

// Options tunes the high-quality renderer.
type Options struct {
	// PruneThreshold discards glyph candidates whose foreground/background
	// channel-sum difference falls below this value. Defaults to 24.
	PruneThreshold int
}

func (o Options) pruneThreshold() int {
	if o.PruneThreshold != 0 {
		return o.PruneThreshold
	}
	return 24
}

// Progress reports a stage's completion fraction in [0, 1].
type Progress func(fraction float64)

func (p Progress) report(f float64) {
	if p != nil {
		p(f)
	}
}

// High renders every cell of an outW x outH asset by picking, via integral
// images over planes, the glyph/fg/bg triple with minimum SSE against the
// corresponding 8x8 sub-block of planes.
func High(ctx context.Context, planes resample.Planes, outW, outH int, opts Options, progress Progress) asset.ImageAsset {
	out := asset.New(outW, outH)
	if outW <= 0 || outH <= 0 {
		return out
	}

	im := integral.Build(planes)
	progress.report(0.15)

	threshold := int64(opts.pruneThreshold())
	threads := runtime.NumCPU()
	if threads < 1 {
		threads = 1
	}

	var mu sync.Mutex
	completedRows := 0
	parallel.Stripes(ctx, outH, threads, func(ctx context.Context, by0, by1 int) error {
		for by := by0; by < by1; by++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			for bx := 0; bx < outW; bx++ {
				out.Set(bx, by, bestCell(im, bx, by, threshold))
			}
			mu.Lock()
			completedRows++
			progress.report(0.15 + 0.85*float64(completedRows)/float64(outH))
			mu.Unlock()
		}
		return nil
	})

	return out
}

func bestCell(im integral.Images, bx, by int, pruneThreshold int64) asset.Cell {
	x0c, y0c := bx*blockSize, by*blockSize
	x1c, y1c := x0c+blockSize, y0c+blockSize

	totalR := im.Rect(integral.R, x0c, y0c, x1c, y1c)
	totalG := im.Rect(integral.G, x0c, y0c, x1c, y1c)
	totalB := im.Rect(integral.B, x0c, y0c, x1c, y1c)
	totalR2 := im.Rect(integral.R2, x0c, y0c, x1c, y1c)
	totalG2 := im.Rect(integral.G2, x0c, y0c, x1c, y1c)
	totalB2 := im.Rect(integral.B2, x0c, y0c, x1c, y1c)

	const tot = uint64(blockSize * blockSize)

	bestErr := math.MaxFloat64
	best := glyph.Set[1] // Space, used only if the loop below finds nothing eligible
	var bestFG, bestBG asset.RGB

	for _, g := range glyph.Set {
		fp := g.Foreground(x0c, y0c)
		fgCnt := uint64(fp.Count)
		bgCnt := tot - fgCnt

		var fgR, fgG, fgB uint64
		if fgCnt > 0 {
			fgR = im.Rect(integral.R, fp.X0, fp.Y0, fp.X1, fp.Y1)
			fgG = im.Rect(integral.G, fp.X0, fp.Y0, fp.X1, fp.Y1)
			fgB = im.Rect(integral.B, fp.X0, fp.Y0, fp.X1, fp.Y1)
		}

		var fr, fgc, fb, br, bgc, bb int64
		if fgCnt > 0 {
			fr, fgc, fb = int64(fgR/fgCnt), int64(fgG/fgCnt), int64(fgB/fgCnt)
		}
		if bgCnt > 0 {
			br = int64((totalR - fgR) / bgCnt)
			bgc = int64((totalG - fgG) / bgCnt)
			bb = int64((totalB - fgB) / bgCnt)
		}

		colorDiff := abs64(fr-br) + abs64(fgc-bgc) + abs64(fb-bb)
		if colorDiff < pruneThreshold {
			continue
		}

		err := residual(totalR2, fgR, totalR, fgCnt, bgCnt) +
			residual(totalG2, fgG, totalG, fgCnt, bgCnt) +
			residual(totalB2, fgB, totalB, fgCnt, bgCnt)

		if err < bestErr {
			bestErr = err
			best = g
			bestFG = asset.RGB{R: uint8(fr), G: uint8(fgc), B: uint8(fb)}
			bestBG = asset.RGB{R: uint8(br), G: uint8(bgc), B: uint8(bb)}
		}
	}

	return asset.Cell{Char: string(best.Code), FG: bestFG, BG: bestBG}
}

// residual computes the minimum achievable sum-of-squared error for one
// channel when the cell's "total" pixels are split into a foreground
// partition (sum fg, count fgCnt) and background partition
// (sum total-fg, count bgCnt), each replaced by its own mean.
func residual(total2, fg, total uint64, fgCnt, bgCnt uint64) float64 {
	var termFG, termBG float64
	if fgCnt > 0 {
		termFG = float64(fg) * float64(fg) / float64(fgCnt)
	}
	if bgCnt > 0 {
		bgSum := float64(total) - float64(fg)
		termBG = bgSum * bgSum / float64(bgCnt)
	}
	return float64(total2) - termFG - termBG
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
