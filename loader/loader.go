// Package loader adapts arbitrary on-disk images into asset.RawImage, the
// external "decoder" collaborator the core pipeline borrows read-only and
// never touches the filesystem itself. It is a thin boundary: no resampling
// or glyph logic lives here.
package loader

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	// Register additional decodable formats beyond the stdlib's png/gif/jpeg.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/zinbin/tlimg/asset"
)

// Load decodes the image file at path into an asset.RawImage, coercing it
// to 3-channel interleaved RGB regardless of the source format's native
// color model.
func Load(path string) (asset.RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return asset.RawImage{}, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return asset.RawImage{}, fmt.Errorf("loader: decode %s: %w", path, err)
	}

	return fromImage(img), nil
}

// fromImage flattens any image.Image into a RawImage's interleaved RGB
// byte buffer.
func fromImage(img image.Image) asset.RawImage {
	return fromImagePooled(img, nil)
}

// loadPooled is Load, but sources its interleaved pixel buffer from pool
// when one is given, so batch decoding many files doesn't allocate a fresh
// buffer per file. The caller owns the result's Pix slice; it is not
// returned to pool automatically.
func loadPooled(path string, pool *BufferPool) (asset.RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return asset.RawImage{}, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return asset.RawImage{}, fmt.Errorf("loader: decode %s: %w", path, err)
	}

	return fromImagePooled(img, pool), nil
}

// fromImagePooled is fromImage, but takes its interleaved pixel buffer from
// pool when one is given instead of allocating a new one.
func fromImagePooled(img image.Image, pool *BufferPool) asset.RawImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return asset.RawImage{}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	size := w * h * 3
	var pix []byte
	if pool != nil {
		pix = pool.Get(size)
	} else {
		pix = make([]byte, size)
	}
	for y := 0; y < h; y++ {
		srcRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dstRow := pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			s := srcRow[x*4 : x*4+4 : x*4+4]
			d := dstRow[x*3 : x*3+3 : x*3+3]
			d[0], d[1], d[2] = s[0], s[1], s[2]
		}
	}

	return asset.RawImage{Width: w, Height: h, Channels: 3, Pix: pix, Valid: true}
}
