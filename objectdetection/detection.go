// Package objectdetection defines the detection records produced by the
// external detector and the capability interface the rest of the pipeline
// consumes it through.
package objectdetection

import (
	"context"
	"fmt"
	"image"

	"github.com/sitewarden/svision/pix"
)

// Labels the detector is trained on.
const (
	LabelPerson              = "person"
	LabelVehicle             = "vehicle"
	LabelConstructionVehicle = "construction_vehicle"
	LabelBus                 = "bus"
	LabelTrailer             = "trailer"
)

// Detection returns a bounding box around the object and a confidence score of
// the detection, along with the class label.
type Detection interface {
	BoundingBox() *image.Rectangle
	Score() float64
	Label() string
}

// NewDetection creates a simple 2D detection.
func NewDetection(boundingBox image.Rectangle, score float64, label string) Detection {
	return &detection2D{boundingBox, score, label}
}

type detection2D struct {
	bbox  image.Rectangle
	score float64
	label string
}

func (d *detection2D) BoundingBox() *image.Rectangle { return &d.bbox }

func (d *detection2D) Score() float64 { return d.score }

func (d *detection2D) Label() string { return d.label }

func (d *detection2D) String() string {
	return fmt.Sprintf("Label: %s, Score: %.2f, Location: %v", d.label, d.score, d.bbox)
}

// Result is one detection pass over an image. Width and Height describe the
// coordinate space the boxes live in, which is the space of the image actually
// analyzed (relevant if a detector resizes internally).
type Result struct {
	Detections []Detection
	Width      int
	Height     int
}

// Detector localizes objects of interest in an image. Implementations must be
// safe for concurrent use across requests.
type Detector interface {
	Detect(ctx context.Context, img *pix.Image) (Result, error)
}
