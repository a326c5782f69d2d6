package privacy

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/sitewarden/svision/pix"
)

// checkered returns an image with a high-frequency pattern that any real blur
// will visibly flatten toward mid-gray.
func checkered(w, h int) *pix.Image {
	img := pix.NewImage(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// pixelsClose asserts every pixel in bounds matches between a and b within
// tol (16-bit channel space); tol 0 means bit-exact.
func pixelsClose(t *testing.T, a, b image.Image, bounds image.Rectangle, tol uint32) {
	t.Helper()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			ar, ag, ab, _ := a.At(x, y).RGBA()
			br, bg, bb, _ := b.At(x, y).RGBA()
			if absDiff(ar, br) > tol || absDiff(ag, bg) > tol || absDiff(ab, bb) > tol {
				t.Fatalf("pixel (%d,%d) differs beyond tolerance %d", x, y, tol)
			}
		}
	}
}

const blurTolerance = 0x2000 // ~12.5% per channel; blurred checker sits near mid-gray

func TestBlurMutatesOnlyTheRegion(t *testing.T) {
	img := checkered(100, 100)
	ref := checkered(100, 100)
	region := image.Rect(20, 20, 60, 60)

	n := Blur(img, []BlurRegion{{Box: region, Source: SourceConfirmedHead}})
	test.That(t, n, test.ShouldEqual, 1)

	// inside flattened: checker neighbors no longer swing between black and white
	r1, _, _, _ := img.At(30, 30).RGBA()
	r2, _, _, _ := img.At(31, 30).RGBA()
	test.That(t, absDiff(r1, r2), test.ShouldBeLessThan, uint32(0x4000))

	// outside stays bit-identical
	pixelsClose(t, img, ref, image.Rect(0, 0, 100, 20), 0)
	pixelsClose(t, img, ref, image.Rect(0, 60, 100, 100), 0)
	pixelsClose(t, img, ref, image.Rect(0, 20, 20, 60), 0)
	pixelsClose(t, img, ref, image.Rect(60, 20, 100, 60), 0)
}

func TestBlurOrderIndependentForOverlaps(t *testing.T) {
	a := BlurRegion{Box: image.Rect(10, 10, 60, 60), Source: SourceConfirmedHead}
	b := BlurRegion{Box: image.Rect(40, 40, 90, 90), Source: SourceFallbackTopStrip}

	img1 := checkered(100, 100)
	img2 := checkered(100, 100)
	test.That(t, Blur(img1, []BlurRegion{a, b}), test.ShouldEqual, 2)
	test.That(t, Blur(img2, []BlurRegion{b, a}), test.ShouldEqual, 2)
	pixelsClose(t, img1, img2, a.Box.Union(b.Box), blurTolerance)
	// pixels outside both regions are identical either way
	pixelsClose(t, img1, img2, image.Rect(0, 90, 100, 100), 0)
}

func TestBlurIdempotentOnBlurredRegion(t *testing.T) {
	// Re-applying the blur over an already-blurred region is harmless: the
	// result stays within tolerance of a single application.
	region := []BlurRegion{{Box: image.Rect(5, 5, 95, 95), Source: SourceConfirmedHead}}

	once := checkered(100, 100)
	Blur(once, region)

	twice := checkered(100, 100)
	Blur(twice, region)
	Blur(twice, region)

	pixelsClose(t, once, twice, image.Rect(5, 5, 95, 95), blurTolerance)
}

func TestBlurSkipsDegenerateRegions(t *testing.T) {
	img := checkered(100, 100)
	ref := checkered(100, 100)
	regions := []BlurRegion{
		{Source: SourceNone, Box: image.Rect(0, 0, 50, 50)},
		{Source: SourceConfirmedHead, Box: image.Rect(10, 10, 10, 40)},        // zero width
		{Source: SourceFallbackTopStrip, Box: image.Rect(200, 200, 300, 300)}, // fully out of bounds
	}
	test.That(t, Blur(img, regions), test.ShouldEqual, 0)
	pixelsClose(t, img, ref, image.Rect(0, 0, 100, 100), 0)
}

func TestBlurClipsToImageBounds(t *testing.T) {
	img := checkered(100, 100)
	ref := checkered(100, 100)
	n := Blur(img, []BlurRegion{{Box: image.Rect(80, 80, 150, 150), Source: SourceFallbackTopStrip}})
	test.That(t, n, test.ShouldEqual, 1)
	// only the in-bounds part was touched
	pixelsClose(t, img, ref, image.Rect(0, 0, 100, 80), 0)
	pixelsClose(t, img, ref, image.Rect(0, 80, 80, 100), 0)
	r1, _, _, _ := img.At(90, 90).RGBA()
	r2, _, _, _ := img.At(91, 90).RGBA()
	test.That(t, absDiff(r1, r2), test.ShouldBeLessThan, uint32(0x4000))
}
