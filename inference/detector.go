package inference

import (
	"context"
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/sitewarden/svision/objectdetection"
	"github.com/sitewarden/svision/pix"
	"github.com/sitewarden/svision/utils"
)

// personScoreFloor drops low-confidence person detections at the adapter.
// The floor only applies to the person class, the one the blur stage acts on.
const personScoreFloor = 0.40

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Detections []struct {
		Label string `json:"label"`
		// Box is [x, y, w, h] normalized to [0,1] of the analyzed image.
		Box        [4]float64 `json:"box"`
		Confidence float64    `json:"confidence"`
	} `json:"detections"`
}

// Detect runs the object detector on the image and returns detections in the
// original image's pixel coordinate space, which is also the reported space.
func (c *Client) Detect(ctx context.Context, img *pix.Image) (objectdetection.Result, error) {
	res := objectdetection.Result{Width: img.Width(), Height: img.Height()}

	resized := resize.Resize(uint(c.detectorInfo.InputWidth), uint(c.detectorInfo.InputHeight), img, resize.Bilinear)
	encoded, err := pix.ConvertImage(resized).EncodeBase64()
	if err != nil {
		return res, err
	}

	var out detectResponse
	if err := c.post(ctx, "/v1/detect", detectRequest{Image: encoded}, &out); err != nil {
		return res, errors.Wrap(err, "detection inference failed")
	}

	w, h := float64(img.Width()), float64(img.Height())
	detections := make([]objectdetection.Detection, 0, len(out.Detections))
	for _, d := range out.Detections {
		x0 := utils.Clamp(d.Box[0], 0, 1) * w
		y0 := utils.Clamp(d.Box[1], 0, 1) * h
		x1 := utils.Clamp(d.Box[0]+d.Box[2], 0, 1) * w
		y1 := utils.Clamp(d.Box[1]+d.Box[3], 0, 1) * h
		rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
		detections = append(detections, objectdetection.NewDetection(rect, d.Confidence, d.Label))
	}
	res.Detections = c.personFilter(detections)
	return res, nil
}

func (c *Client) personFilter(in []objectdetection.Detection) []objectdetection.Detection {
	filter := objectdetection.NewLabelScoreFilter(objectdetection.LabelPerson, personScoreFloor)
	return filter(in)
}
