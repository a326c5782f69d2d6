package headloc

import (
	"image"
	"math"
)

// Landmark is one pose keypoint in pixel coordinates with a visibility score.
type Landmark struct {
	X          int
	Y          int
	Visibility float64
}

// HeadLandmarkNames are the pose keypoints that contribute to head-box
// estimation, in the naming used by pose models.
var HeadLandmarkNames = []string{
	"nose",
	"left_eye", "right_eye",
	"left_ear", "right_ear",
	"left_eye_inner", "right_eye_inner",
	"left_eye_outer", "right_eye_outer",
}

const (
	landmarkVisibilityFloor = 0.5
	headBoxPadding          = 0.2
	headBoxScale            = 2.0
)

// EstimateHeadBox derives a head bounding box from head landmarks inside the
// given bounds (usually a person subframe). The landmarks only cover the face,
// so the box is grown to cover the full head and padded generously; a blur box
// that is too big is safer than one that is too small. Returns nil when fewer
// than two landmarks are visible or the clamped box is degenerate.
func EstimateHeadBox(landmarks map[string]Landmark, bounds image.Rectangle) *image.Rectangle {
	var xs, ys []float64
	for _, name := range HeadLandmarkNames {
		lm, ok := landmarks[name]
		if !ok || lm.Visibility <= landmarkVisibilityFloor {
			continue
		}
		xs = append(xs, float64(lm.X))
		ys = append(ys, float64(lm.Y))
	}
	if len(xs) < 2 {
		return nil
	}

	minX, maxX := minMax(xs)
	minY, maxY := minMax(ys)
	width := maxX - minX
	height := maxY - minY

	// Landmarks cover roughly the middle of the head; double the height and
	// keep the width proportionate.
	estHeight := height * 2.0
	estWidth := math.Max(width*1.5, estHeight*0.8)

	centerX := (minX + maxX) / 2
	centerY := (minY+maxY)/2 - height*0.3 // hair sits above the eye line

	finalW := estWidth * (1 + headBoxPadding) * headBoxScale
	finalH := estHeight * (1 + headBoxPadding) * headBoxScale

	x := int(centerX - finalW/2)
	y := int(centerY - finalH/2)
	box := image.Rect(x, y, x+int(finalW), y+int(finalH)).Intersect(bounds)
	if box.Empty() {
		return nil
	}
	return &box
}

// AverageVisibility is the confidence of a landmark set: the mean visibility
// across all head landmarks present, detected or not.
func AverageVisibility(landmarks map[string]Landmark) float64 {
	if len(landmarks) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, name := range HeadLandmarkNames {
		if lm, ok := landmarks[name]; ok {
			sum += lm.Visibility
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
