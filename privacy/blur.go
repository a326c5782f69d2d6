package privacy

import (
	"github.com/disintegration/imaging"

	"github.com/sitewarden/svision/pix"
)

// blurSigma produces smoothing strong enough to make facial features
// unrecognizable on typical site-camera resolutions. The transform is lossy;
// original pixels are not recoverable from the output.
const blurSigma = 30.0

// Blur destructively overwrites each region of the image with a Gaussian-blurred
// version of itself and returns how many regions were blurred. Regions tagged
// SourceNone and regions that clip to nothing are skipped. Overlapping regions
// are each blurred; re-blurring already-blurred pixels is harmless, so order
// does not matter.
func Blur(img *pix.Image, regions []BlurRegion) int {
	blurred := 0
	for _, reg := range regions {
		if reg.Source == SourceNone {
			continue
		}
		box := pix.ClipRect(reg.Box, img.Width(), img.Height())
		if box.Empty() {
			continue
		}
		sub := imaging.Blur(img.SubImage(box), blurSigma)
		img.ReplaceRegion(box, sub)
		blurred++
	}
	return blurred
}
