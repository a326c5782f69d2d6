// Package pipeline wires the detector, the region resolver, and the blur
// stage into one per-request processing unit and assembles the response
// contract.
package pipeline

import (
	"context"
	"image"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/sitewarden/svision/headloc"
	"github.com/sitewarden/svision/objectdetection"
	"github.com/sitewarden/svision/pix"
	"github.com/sitewarden/svision/privacy"
)

// Request is one unit of work. The image is exclusively owned by this request
// and may be mutated in place by the blur stage.
type Request struct {
	Image             *pix.Image
	BlurHeads         bool
	ReportCoordinates bool
	Mode              privacy.Mode
}

// Coordinate is one detection in the output contract: [x, y, w, h] plus the
// detector's confidence.
type Coordinate struct {
	Coordinate [4]int  `json:"coordinate"`
	Confidence float64 `json:"confidence"`
}

// Response is the assembled result. Coordinates is nil unless coordinates were
// requested; Blurred is nil unless blurring was requested and at least one
// region was actually blurred.
type Response struct {
	Coordinates map[string][]Coordinate
	Blurred     *pix.Image
}

// Pipeline processes independent image requests. It holds no per-request
// state, so one Pipeline serves all requests concurrently.
type Pipeline struct {
	detector objectdetection.Detector
	resolver *privacy.Resolver
	logger   golog.Logger
}

// New assembles a Pipeline from the two model capabilities.
func New(detector objectdetection.Detector, locator headloc.Locator, logger golog.Logger) *Pipeline {
	return &Pipeline{
		detector: detector,
		resolver: privacy.NewResolver(locator, logger),
		logger:   logger,
	}
}

// Process runs detection and, when asked, head blurring over the request
// image. Detection failure is fatal to the request; everything downstream
// degrades per person instead of failing.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Response, error) {
	if req.Image == nil {
		return nil, errors.New("request has no image")
	}

	result, err := p.detector.Detect(ctx, req.Image)
	if err != nil {
		return nil, errors.Wrap(err, "object detection failed")
	}
	if result.Width != req.Image.Width() || result.Height != req.Image.Height() {
		p.logger.Warnw("detector coordinate space differs from image",
			"detector", []int{result.Width, result.Height},
			"image", []int{req.Image.Width(), req.Image.Height()},
		)
	}

	resp := &Response{}
	if req.ReportCoordinates {
		resp.Coordinates = assembleCoordinates(result.Detections)
	}

	if req.BlurHeads {
		persons := personBoxes(result.Detections)
		if len(persons) > 0 {
			stats := p.resolver.ProcessingStats(persons, req.Image.Height(), req.Mode)
			p.logger.Debugw("resolving blur regions",
				"persons", stats.Total, "will_process", stats.WillProcess,
				"will_skip", stats.WillSkip, "mode", string(stats.Mode),
			)
			regions := p.resolver.Resolve(ctx, req.Image, persons, req.Mode)
			if blurred := privacy.Blur(req.Image, regions); blurred > 0 {
				resp.Blurred = req.Image
			}
		}
	}
	return resp, nil
}

// assembleCoordinates groups all detections by class label into the output
// coordinate map. An empty detection list yields an empty map, not an error.
func assembleCoordinates(detections []objectdetection.Detection) map[string][]Coordinate {
	out := make(map[string][]Coordinate)
	for label, group := range objectdetection.GroupByLabel(detections) {
		coords := make([]Coordinate, 0, len(group))
		for _, d := range group {
			box := d.BoundingBox()
			coords = append(coords, Coordinate{
				Coordinate: [4]int{box.Min.X, box.Min.Y, box.Dx(), box.Dy()},
				Confidence: d.Score(),
			})
		}
		out[label] = coords
	}
	return out
}

// personBoxes extracts the boxes of person detections. Every other class
// bypasses region resolution entirely.
func personBoxes(detections []objectdetection.Detection) []image.Rectangle {
	var persons []image.Rectangle
	for _, d := range detections {
		if d.Label() == objectdetection.LabelPerson {
			persons = append(persons, *d.BoundingBox())
		}
	}
	return persons
}
