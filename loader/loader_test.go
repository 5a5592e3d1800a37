package loader

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageFlattensToInterleavedRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	raw := fromImage(img)
	if !raw.Valid || raw.Width != 2 || raw.Height != 1 || raw.Channels != 3 {
		t.Fatalf("fromImage = %+v, want 2x1x3 valid image", raw)
	}
	want := []byte{10, 20, 30, 40, 50, 60}
	for i, v := range want {
		if raw.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d", i, raw.Pix[i], v)
		}
	}
}

func TestFromImageEmptyBoundsIsInvalid(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	raw := fromImage(img)
	if raw.Valid {
		t.Errorf("fromImage(empty) = %+v, want Valid=false", raw)
	}
}

func TestFromImagePooledReusesBuffers(t *testing.T) {
	pool := NewBufferPool()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	raw1 := fromImagePooled(img, pool)
	pool.Put(raw1.Pix)
	raw2 := fromImagePooled(img, pool)

	if &raw1.Pix[0] != &raw2.Pix[0] {
		t.Error("fromImagePooled did not reuse the buffer returned to the pool")
	}
}

func TestIsImageExt(t *testing.T) {
	tests := map[string]bool{
		"photo.png":  true,
		"photo.JPG":  false, // extension matching is case-sensitive, like filepath.Ext itself
		"photo.jpg":  true,
		"scan.tiff":  true,
		"readme.txt": false,
		"noext":      false,
	}
	for name, want := range tests {
		if got := isImageExt(name); got != want {
			t.Errorf("isImageExt(%q) = %v, want %v", name, got, want)
		}
	}
}
