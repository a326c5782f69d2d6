package pix

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestClipRect(t *testing.T) {
	test.That(t, ClipRect(image.Rect(-10, -10, 50, 50), 100, 100), test.ShouldResemble, image.Rect(0, 0, 50, 50))
	test.That(t, ClipRect(image.Rect(80, 80, 150, 150), 100, 100), test.ShouldResemble, image.Rect(80, 80, 100, 100))
	test.That(t, ClipRect(image.Rect(200, 200, 300, 300), 100, 100).Empty(), test.ShouldBeTrue)
	test.That(t, ClipRect(image.Rect(10, 10, 10, 50), 100, 100).Empty(), test.ShouldBeTrue)
}

func TestConvertImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 25, 15))
	src.Set(6, 6, color.NRGBA{R: 200, A: 255})
	img := ConvertImage(src)
	// bounds normalize to a zero origin
	test.That(t, img.Width(), test.ShouldEqual, 20)
	test.That(t, img.Height(), test.ShouldEqual, 10)
	r, _, _, _ := img.At(1, 1).RGBA()
	test.That(t, r, test.ShouldBeGreaterThan, uint32(0))

	// converting an already-converted image is a no-op
	test.That(t, ConvertImage(img), test.ShouldEqual, img)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := NewImage(16, 12)
	for x := 0; x < 16; x++ {
		for y := 0; y < 12; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 15), G: uint8(y * 20), B: 60, A: 255})
		}
	}
	encoded, err := img.EncodeBase64()
	test.That(t, err, test.ShouldBeNil)

	decoded, err := DecodeBase64(encoded)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, decoded.Width(), test.ShouldEqual, 16)
	test.That(t, decoded.Height(), test.ShouldEqual, 12)
}

func TestDecodeBad(t *testing.T) {
	_, err := DecodeBase64("!!! definitely not base64 !!!")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = DecodeBase64("aGVsbG8gd29ybGQ=") // valid base64, not an image
	test.That(t, err, test.ShouldNotBeNil)
}
