// Package imaging provides image preprocessing for OCR.
//
// Tesseract's accuracy improves a lot on clean black-and-white input, so
// before recognition we grayscale and binarize each page image. The actual
// pixel work is delegated to the disintegration/imaging library — these are
// thin wrappers, deliberately one call deep.
package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultThreshold is the binarization cutoff used for OCR preprocessing.
// Pixels at or above this luminance become white, the rest black. 160 works
// well for typical office scans; lower values preserve faint print.
const DefaultThreshold = 160

// Grayscale converts an image to grayscale.
func Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// Threshold binarizes an image: every pixel at or above level becomes
// white, everything below becomes black. Expects grayscale input (on color
// input the red channel decides, which is what Tesseract would see anyway).
func Threshold(img image.Image, level uint8) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.R >= level {
			return color.NRGBA{R: 255, G: 255, B: 255, A: c.A}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: c.A}
	})
}

// Rotate rotates an image clockwise by 90, 180, or 270 degrees.
func Rotate(img image.Image, degrees int) (*image.NRGBA, error) {
	// imaging rotates counter-clockwise; callers think clockwise.
	switch degrees {
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("invalid rotation %d: must be 90, 180, or 270", degrees)
	}
}

// Crop extracts a rectangular region from an image.
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect)
}

// PreprocessForOCR applies the standard OCR cleanup: grayscale then
// binarize at DefaultThreshold.
func PreprocessForOCR(img image.Image) *image.NRGBA {
	return Threshold(Grayscale(img), DefaultThreshold)
}

// PreprocessFile reads an image file, applies OCR preprocessing, and writes
// the result to outPath (format inferred from the extension).
func PreprocessFile(inPath, outPath string) error {
	img, err := imaging.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", inPath, err)
	}
	if err := imaging.Save(PreprocessForOCR(img), outPath); err != nil {
		return fmt.Errorf("failed to save preprocessed image: %w", err)
	}
	return nil
}
