package inference

import (
	"context"
	"image"

	"github.com/sitewarden/svision/headloc"
	"github.com/sitewarden/svision/pix"
)

type poseRequest struct {
	Image string `json:"image"`
}

type poseResponse struct {
	// Landmarks maps keypoint names to positions normalized to [0,1] of
	// the submitted subframe.
	Landmarks map[string]struct {
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Visibility float64 `json:"visibility"`
	} `json:"landmarks"`
}

// LocateHead runs the pose model on the person subframe and derives a head box
// in full-image coordinates. The image is never mutated. Internal failures are
// logged and surface as a zero Signal so a single bad pose call cannot abort a
// request.
func (c *Client) LocateHead(ctx context.Context, img *pix.Image, person image.Rectangle) (headloc.Signal, error) {
	sub := pix.ClipRect(person, img.Width(), img.Height())
	if sub.Empty() {
		return headloc.Signal{}, nil
	}

	encoded, err := pix.ConvertImage(img.SubImage(sub)).EncodeBase64()
	if err != nil {
		c.logger.Debugw("could not encode person subframe", "person", person, "error", err)
		return headloc.Signal{}, nil
	}

	var out poseResponse
	if err := c.post(ctx, "/v1/pose", poseRequest{Image: encoded}, &out); err != nil {
		c.logger.Debugw("pose inference failed", "person", person, "error", err)
		return headloc.Signal{}, nil
	}
	if len(out.Landmarks) == 0 {
		return headloc.Signal{}, nil
	}

	landmarks := make(map[string]headloc.Landmark, len(out.Landmarks))
	for name, lm := range out.Landmarks {
		landmarks[name] = headloc.Landmark{
			X:          int(lm.X * float64(sub.Dx())),
			Y:          int(lm.Y * float64(sub.Dy())),
			Visibility: lm.Visibility,
		}
	}

	box := headloc.EstimateHeadBox(landmarks, image.Rect(0, 0, sub.Dx(), sub.Dy()))
	confidence := headloc.AverageVisibility(landmarks)
	if box == nil {
		return headloc.Signal{Confidence: confidence}, nil
	}
	absolute := box.Add(sub.Min)
	return headloc.Signal{Box: &absolute, Confidence: confidence}, nil
}
