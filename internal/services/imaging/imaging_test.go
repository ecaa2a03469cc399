// imaging_test.go — Tests for OCR preprocessing filters. These work on
// small in-memory images so no fixtures are needed.
package imaging

import (
	"image"
	"image/color"
	"testing"
)

// grayImage builds a 2x2 image with the given gray levels, row-major.
func grayImage(levels [4]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i, v := range levels {
		x, y := i%2, i/2
		img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	return img
}

func TestThreshold(t *testing.T) {
	img := grayImage([4]uint8{0, 100, 160, 255})
	out := Threshold(img, 160)

	want := [4]uint8{0, 0, 255, 255}
	for i, w := range want {
		x, y := i%2, i/2
		got := out.NRGBAAt(x, y)
		if got.R != w || got.G != w || got.B != w {
			t.Errorf("pixel (%d,%d) = %v, want gray level %d", x, y, got, w)
		}
	}
}

func TestThresholdPreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 128})

	out := Threshold(img, 160)
	if got := out.NRGBAAt(0, 0).A; got != 128 {
		t.Errorf("alpha = %d, want 128", got)
	}
}

func TestGrayscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	out := Grayscale(img)
	px := out.NRGBAAt(0, 0)
	if px.R != px.G || px.G != px.B {
		t.Errorf("grayscale pixel has unequal channels: %v", px)
	}
}

func TestRotateDimensions(t *testing.T) {
	// 3 wide, 1 tall — rotation by 90 or 270 must swap dimensions.
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))

	for _, degrees := range []int{90, 270} {
		out, err := Rotate(img, degrees)
		if err != nil {
			t.Fatalf("Rotate(%d) error: %v", degrees, err)
		}
		b := out.Bounds()
		if b.Dx() != 1 || b.Dy() != 3 {
			t.Errorf("Rotate(%d) bounds = %dx%d, want 1x3", degrees, b.Dx(), b.Dy())
		}
	}

	out, err := Rotate(img, 180)
	if err != nil {
		t.Fatalf("Rotate(180) error: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 3 || b.Dy() != 1 {
		t.Errorf("Rotate(180) bounds = %dx%d, want 3x1", b.Dx(), b.Dy())
	}
}

func TestRotateInvalidDegrees(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	for _, degrees := range []int{0, 45, -90, 360} {
		if _, err := Rotate(img, degrees); err == nil {
			t.Errorf("Rotate(%d) succeeded, want error", degrees)
		}
	}
}

func TestCrop(t *testing.T) {
	img := grayImage([4]uint8{10, 20, 30, 40})
	out := Crop(img, image.Rect(1, 1, 2, 2))

	if b := out.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Fatalf("crop bounds = %dx%d, want 1x1", b.Dx(), b.Dy())
	}
	if got := out.NRGBAAt(0, 0).R; got != 40 {
		t.Errorf("cropped pixel = %d, want 40", got)
	}
}
