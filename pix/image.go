// Package pix wraps a mutable RGBA pixel buffer with the helpers the detection
// pipeline needs: decoding, encoding, and bounds bookkeeping. Each Image is
// exclusively owned by one request; nothing here is safe for concurrent
// mutation.
package pix

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a mutable pixel buffer plus its dimensions. The dimensions always
// describe the coordinate space of boxes produced against this image.
type Image struct {
	rgba          *image.RGBA
	width, height int
}

// NewImage returns a black image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		rgba:   image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// ConvertImage copies any image.Image into a mutable Image. The source is not
// retained.
func ConvertImage(img image.Image) *Image {
	if ii, ok := img.(*Image); ok {
		return ii
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Image{rgba: rgba, width: bounds.Dx(), height: bounds.Dy()}
}

func (i *Image) Width() int { return i.width }

func (i *Image) Height() int { return i.height }

func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.width, i.height) }

func (i *Image) ColorModel() color.Model { return i.rgba.ColorModel() }

func (i *Image) At(x, y int) color.Color { return i.rgba.At(x, y) }

// Set writes one pixel. Only the blur stage mutates images; everything else
// treats them as read-only.
func (i *Image) Set(x, y int, c color.Color) { i.rgba.Set(x, y, c) }

// SubImage returns the portion of the image visible through r, sharing pixels
// with the original.
func (i *Image) SubImage(r image.Rectangle) image.Image {
	return i.rgba.SubImage(r)
}

// ReplaceRegion overwrites the pixels under r with src, which must be at least
// r-sized. Used to paste a transformed region back into the buffer.
func (i *Image) ReplaceRegion(r image.Rectangle, src image.Image) {
	draw.Draw(i.rgba, r, src, src.Bounds().Min, draw.Src)
}

// ClipRect bounds r to [0,width) x [0,height). The result may be empty.
func ClipRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}
