package tlimg

import (
	"context"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zinbin/tlimg/asset"
)

func uniformRaw(w, h int, r, g, b uint8) asset.RawImage {
	return rawFromFunc(w, h, func(int, int) (byte, byte, byte) { return r, g, b })
}

func rawFromFunc(w, h int, color func(x, y int) (byte, byte, byte)) asset.RawImage {
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := color(x, y)
			i := (y*w + x) * 3
			pix[i], pix[i+1], pix[i+2] = r, g, b
		}
	}
	return asset.RawImage{Width: w, Height: h, Channels: 3, Pix: pix, Valid: true}
}

func TestConvertInvalidRawYieldsZeroAsset(t *testing.T) {
	out := Convert(context.Background(), asset.RawImage{}, Options{})
	if out.Width != 0 || out.Height != 0 {
		t.Errorf("Convert(invalid raw) = %+v, want zero-sized", out)
	}
}

func TestConvertNonPositiveTargetYieldsZeroAsset(t *testing.T) {
	raw := uniformRaw(16, 16, 1, 1, 1)
	out := Convert(context.Background(), raw, Options{TargetWidth: -1, TargetHeight: 10})
	if out.Width != 0 || out.Height != 0 {
		t.Errorf("Convert(targetW=-1) = %+v, want zero-sized", out)
	}
}

func TestConvertDefaultsAndSize(t *testing.T) {
	raw := uniformRaw(32, 32, 5, 5, 5)
	out := Convert(context.Background(), raw, Options{})
	if out.Width != 120 || out.Height != 80 {
		t.Errorf("Convert with zero-value Options sized %dx%d, want default 120x80", out.Width, out.Height)
	}
}

func TestConvertLowQualityProducesBlankGlyphs(t *testing.T) {
	raw := uniformRaw(16, 16, 30, 60, 90)
	out := Convert(context.Background(), raw, Options{TargetWidth: 4, TargetHeight: 4, Quality: Low})
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			if c := out.At(x, y); c.Char != " " {
				t.Fatalf("Low quality cell (%d,%d) char = %q, want blank space", x, y, c.Char)
			}
		}
	}
}

func TestConvertCancelledContextYieldsZeroAsset(t *testing.T) {
	raw := uniformRaw(64, 64, 1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Convert(ctx, raw, Options{TargetWidth: 8, TargetHeight: 8})
	if out.Width != 0 || out.Height != 0 {
		t.Errorf("Convert(cancelled ctx) = %+v, want zero-sized", out)
	}
}

func TestConvertProgressReachesTotalWork(t *testing.T) {
	raw := uniformRaw(16, 16, 7, 7, 7)
	var lastCompleted, lastTotal float64
	var sawResampling, sawRendering bool

	Convert(context.Background(), raw, Options{
		TargetWidth:  4,
		TargetHeight: 4,
		Quality:      Low,
		OnProgress: func(completed, total float64, stage string) {
			if completed > total+1e-6 {
				t.Errorf("progress %f exceeds total %f", completed, total)
			}
			lastCompleted, lastTotal = completed, total
			switch stage {
			case "Resampling":
				sawResampling = true
			case "Rendering":
				sawRendering = true
			}
		},
	})

	if !sawResampling || !sawRendering {
		t.Errorf("progress callback saw Resampling=%v Rendering=%v, want both true", sawResampling, sawRendering)
	}
	if lastCompleted < lastTotal-1e-6 {
		t.Errorf("final progress completed=%f, want ~= total=%f", lastCompleted, lastTotal)
	}
}

// S1: a uniform red source converts, at 1x1 High, to a single full-block
// cell colored by the source.
func TestScenarioS1UniformRedToFullBlock(t *testing.T) {
	raw := uniformRaw(16, 16, 255, 0, 0)
	out := Convert(context.Background(), raw, Options{TargetWidth: 1, TargetHeight: 1, Quality: High})

	c := out.At(0, 0)
	if c.Char != "█" {
		t.Errorf("Char = %q, want U+2588", c.Char)
	}
	if c.FG.R != 255 || c.FG.G != 0 || c.FG.B != 0 {
		t.Errorf("FG = %+v, want {255, 0, 0}", c.FG)
	}
	if c.BG.R != 0 || c.BG.G != 0 || c.BG.B != 0 {
		t.Errorf("BG = %+v, want {0, 0, 0}", c.BG)
	}
}

// S2: a 2x2-tile checkerboard of white/black converts, at 1x1 Low, to a
// blank cell whose background is the floor of the overall average.
func TestScenarioS2CheckerboardToMeanGray(t *testing.T) {
	raw := rawFromFunc(16, 16, func(x, y int) (byte, byte, byte) {
		if (x/8)%2 == (y/8)%2 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
	out := Convert(context.Background(), raw, Options{TargetWidth: 1, TargetHeight: 1, Quality: Low})

	c := out.At(0, 0)
	if c.Char != " " {
		t.Errorf("Char = %q, want blank space", c.Char)
	}
	if c.BG.R != 127 || c.BG.G != 127 || c.BG.B != 127 {
		t.Errorf("BG = %+v, want {127, 127, 127}", c.BG)
	}
}

// S3: a source split top (blue) / bottom (red) converts, at 1x1 High, to a
// bottom-filled horizontal bar colored by each half.
func TestScenarioS3HorizontalSplitPicksBottomBar(t *testing.T) {
	raw := rawFromFunc(16, 16, func(_, y int) (byte, byte, byte) {
		if y < 8 {
			return 0, 0, 255
		}
		return 255, 0, 0
	})
	out := Convert(context.Background(), raw, Options{TargetWidth: 1, TargetHeight: 1, Quality: High})

	c := out.At(0, 0)
	if c.Char != "▄" {
		t.Errorf("Char = %q, want U+2584", c.Char)
	}
	if c.FG.R != 255 || c.FG.G != 0 || c.FG.B != 0 {
		t.Errorf("FG = %+v, want {255, 0, 0}", c.FG)
	}
	if c.BG.R != 0 || c.BG.G != 0 || c.BG.B != 255 {
		t.Errorf("BG = %+v, want {0, 0, 255}", c.BG)
	}
}

// S4: a source split left (green) / right (black) converts, at 1x1 High, to
// a left-filled vertical bar colored by each half.
func TestScenarioS4VerticalSplitPicksLeftBar(t *testing.T) {
	raw := rawFromFunc(16, 8, func(x, _ int) (byte, byte, byte) {
		if x < 8 {
			return 0, 255, 0
		}
		return 0, 0, 0
	})
	out := Convert(context.Background(), raw, Options{TargetWidth: 1, TargetHeight: 1, Quality: High})

	c := out.At(0, 0)
	if c.Char != "▌" {
		t.Errorf("Char = %q, want U+258C", c.Char)
	}
	if c.FG.R != 0 || c.FG.G != 255 || c.FG.B != 0 {
		t.Errorf("FG = %+v, want {0, 255, 0}", c.FG)
	}
	if c.BG.R != 0 || c.BG.G != 0 || c.BG.B != 0 {
		t.Errorf("BG = %+v, want {0, 0, 0}", c.BG)
	}
}

// S5: a 24x24 source with a bright diagonal stripe through three of its 8x8
// blocks converts, at 3x3 High, to diagonal cells split by a bar (fg bright,
// bg black) and off-diagonal cells with fg equal to bg (solid black, picked
// up by the prune fallback rather than an explicit Full/Space choice).
func TestScenarioS5DiagonalBlocksSplitOffDiagonalSolid(t *testing.T) {
	raw := rawFromFunc(24, 24, func(x, y int) (byte, byte, byte) {
		bx, by := x/8, y/8
		if bx != by {
			return 0, 0, 0
		}
		if x%8 < 4 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
	out := Convert(context.Background(), raw, Options{TargetWidth: 3, TargetHeight: 3, Quality: High})

	for by := 0; by < 3; by++ {
		for bx := 0; bx < 3; bx++ {
			c := out.At(bx, by)
			if bx == by {
				if c.FG == c.BG {
					t.Errorf("diagonal cell (%d,%d) has fg == bg == %+v, want a split", bx, by, c.FG)
				}
				bright := c.FG
				if bright.R != 255 || bright.G != 255 || bright.B != 255 {
					bright = c.BG
				}
				if bright.R != 255 || bright.G != 255 || bright.B != 255 {
					t.Errorf("diagonal cell (%d,%d) = %+v, want one side at (255,255,255)", bx, by, c)
				}
			} else {
				if c.FG != c.BG {
					t.Errorf("off-diagonal cell (%d,%d) = %+v, want fg == bg", bx, by, c)
				}
			}
		}
	}
}

// P7: repeated conversions of the same input are byte-identical regardless
// of GOMAXPROCS.
func TestConvertDeterministicAcrossThreadCounts(t *testing.T) {
	raw := rawFromFunc(24, 24, func(x, y int) (byte, byte, byte) {
		return byte((x * 11) % 256), byte((y * 17) % 256), byte((x + y) % 256)
	})
	opts := Options{TargetWidth: 3, TargetHeight: 3, Quality: High}

	prev := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(prev)

	single := Convert(context.Background(), raw, opts)

	runtime.GOMAXPROCS(4)
	multi := Convert(context.Background(), raw, opts)

	if diff := cmp.Diff(single, multi); diff != "" {
		t.Errorf("Convert output differs across thread counts (-GOMAXPROCS=1 +GOMAXPROCS=4):\n%s", diff)
	}
}
