// Package headloc defines the head-localization capability used to find a
// blurrable head region inside a person detection, plus the geometry for
// turning pose landmarks into a head box.
package headloc

import (
	"context"
	"image"

	"github.com/sitewarden/svision/pix"
)

// ConfidenceFloor is the score below which a head signal is never trusted.
const ConfidenceFloor = 0.5

// Signal is the head-localization result for one person: a head box in the
// coordinate space of the full image, or no box at all. A zero-valued Signal
// means "not found".
type Signal struct {
	Box        *image.Rectangle
	Confidence float64
}

// Found reports whether the signal carries a usable box at or above the
// confidence floor.
func (s Signal) Found() bool {
	return s.Box != nil && s.Confidence >= ConfidenceFloor
}

// Locator estimates the head region of a person inside an image. The image is
// never mutated. Implementations must not retry unboundedly, must be safe for
// concurrent use, and should surface internal failures as a zero Signal
// rather than an error where possible; callers treat errors as "not found"
// either way.
type Locator interface {
	LocateHead(ctx context.Context, img *pix.Image, person image.Rectangle) (Signal, error)
}
