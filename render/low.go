package render

import (
	"context"
	"runtime"
	"sync"

	"github.com/zinbin/tlimg/asset"
	"github.com/zinbin/tlimg/parallel"
	"github.com/zinbin/tlimg/resample"
)

// Low renders every cell as a single space whose background is the plain
// arithmetic mean of its 8x8 source block, computed directly from planes
// rather than via integral images (the constant factor here is already
// low, per spec).
func Low(ctx context.Context, planes resample.Planes, outW, outH int, progress Progress) asset.ImageAsset {
	out := asset.New(outW, outH)
	if outW <= 0 || outH <= 0 {
		return out
	}

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
				out.Set(bx, by, meanCell(planes, bx, by))
			}
			mu.Lock()
			completedRows++
			progress.report(float64(completedRows) / float64(outH))
			mu.Unlock()
		}
		return nil
	})

	return out
}

func meanCell(planes resample.Planes, bx, by int) asset.Cell {
	x0, y0 := bx*blockSize, by*blockSize
	var rsum, gsum, bsum uint64
	count := 0
	for dy := 0; dy < blockSize; dy++ {
		rowOff := (y0 + dy) * planes.Width
		for dx := 0; dx < blockSize; dx++ {
			idx := rowOff + x0 + dx
			rsum += uint64(planes.R[idx])
			gsum += uint64(planes.G[idx])
			bsum += uint64(planes.B[idx])
			count++
		}
	}
	var bg asset.RGB
	if count > 0 {
		bg = asset.RGB{
			R: uint8(rsum / uint64(count)),
			G: uint8(gsum / uint64(count)),
			B: uint8(bsum / uint64(count)),
		}
	}
	return asset.Cell{Char: " ", FG: asset.RGB{}, BG: bg}
}
