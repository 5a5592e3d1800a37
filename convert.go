// Package tlimg converts raster images into terminal "image assets": a grid
// of character cells, each carrying a single printable glyph plus a
// foreground and background color, that visually approximates the source
// image when rendered in an ANSI terminal.
//
// The heavy lifting — area-averaging resampling and glyph-matching
// rendering — lives in the resample, integral, glyph, and render
// subpackages; Convert is the driver that wires them together, weights
// their progress, and dispatches on quality.
package tlimg

import (
	"context"

	"github.com/zinbin/tlimg/asset"
	"github.com/zinbin/tlimg/render"
	"github.com/zinbin/tlimg/resample"
)

// Quality selects which renderer Convert uses.
type Quality int

const (
	// High selects the glyph-matching renderer (accurate, slower).
	High Quality = iota
	// Low selects the single-space/mean-color renderer (fast, coarse).
	Low
)

// ProgressFunc reports overall progress as (completed, total, stageName),
// where stageName is "Resampling" or "Rendering". Callers may ignore it.
type ProgressFunc func(completed, total float64, stage string)

// Options configures a single Convert call. The zero value is usable and
// matches the documented defaults.
type Options struct {
	TargetWidth  int // output cells wide, default 120
	TargetHeight int // output cells tall, default 80
	Quality      Quality
	// PruneThreshold skips High-quality glyph candidates whose fg/bg
	// channel-sum difference is below this. Default 24.
	PruneThreshold int
	OnProgress     ProgressFunc
}

func (o Options) targetWidth() int {
	if o.TargetWidth != 0 {
		return o.TargetWidth
	}
	return 120
}

func (o Options) targetHeight() int {
	if o.TargetHeight != 0 {
		return o.TargetHeight
	}
	return 80
}

// Convert runs the full resample -> render pipeline. A zero target
// dimension selects its default. It is total: invalid input or negative
// target dimensions yield a zero-sized ImageAsset
// instead of an error, and a cancelled ctx likewise yields a zero-sized
// asset rather than propagating an error, per the pipeline's cooperative
// cancellation contract.
func Convert(ctx context.Context, raw asset.RawImage, opts Options) asset.ImageAsset {
	targetW, targetH := opts.targetWidth(), opts.targetHeight()
	if !raw.Valid || targetW <= 0 || targetH <= 0 {
		return asset.ImageAsset{}
	}

	sourceWork := float64(raw.Width) * float64(raw.Height) / 250.0
	renderWork := float64(targetW) * float64(targetH)
	if opts.Quality == High {
		renderWork *= 5.0
	} else {
		renderWork *= 0.5
	}
	totalWork := sourceWork + renderWork

	report := func(stageCompletion float64, stage string) {
		if opts.OnProgress == nil {
			return
		}
		base, scale := 0.0, sourceWork
		if stage == "Rendering" {
			base, scale = sourceWork, renderWork
		}
		opts.OnProgress(base+stageCompletion*scale, totalWork, stage)
	}

	highW, highH := targetW*8, targetH*8
	planes := resample.Resample(ctx, raw, highW, highH, resample.Options{}, func(f float64) {
		report(f, "Resampling")
	})

	if ctx.Err() != nil {
		return asset.ImageAsset{}
	}

	var out asset.ImageAsset
	if opts.Quality == High {
		out = render.High(ctx, planes, targetW, targetH, render.Options{PruneThreshold: opts.PruneThreshold}, func(f float64) {
			report(f, "Rendering")
		})
	} else {
		out = render.Low(ctx, planes, targetW, targetH, func(f float64) {
			report(f, "Rendering")
		})
	}

	if ctx.Err() != nil {
		return asset.ImageAsset{}
	}
	return out
}
