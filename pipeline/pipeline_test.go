package pipeline

import (
	"context"
	"image"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/sitewarden/svision/headloc"
	"github.com/sitewarden/svision/objectdetection"
	"github.com/sitewarden/svision/pix"
	"github.com/sitewarden/svision/privacy"
	"github.com/sitewarden/svision/testutils/inject"
)

func fixedDetector(dets ...objectdetection.Detection) *inject.Detector {
	return &inject.Detector{
		DetectFunc: func(_ context.Context, img *pix.Image) (objectdetection.Result, error) {
			return objectdetection.Result{Detections: dets, Width: img.Width(), Height: img.Height()}, nil
		},
	}
}

func TestDetectionFailureIsFatal(t *testing.T) {
	detector := &inject.Detector{
		DetectFunc: func(context.Context, *pix.Image) (objectdetection.Result, error) {
			return objectdetection.Result{}, errors.New("model exploded")
		},
	}
	p := New(detector, &inject.Locator{}, golog.NewTestLogger(t))
	_, err := p.Process(context.Background(), Request{Image: pix.NewImage(100, 100), ReportCoordinates: true})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "object detection failed")
}

func TestEmptyDetectionsYieldEmptyMap(t *testing.T) {
	p := New(fixedDetector(), &inject.Locator{}, golog.NewTestLogger(t))
	resp, err := p.Process(context.Background(), Request{Image: pix.NewImage(100, 100), ReportCoordinates: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Coordinates, test.ShouldNotBeNil)
	test.That(t, resp.Coordinates, test.ShouldHaveLength, 0)
}

func TestNonPersonsPassThroughUnchanged(t *testing.T) {
	vehicle := objectdetection.NewDetection(image.Rect(300, 40, 400, 90), 0.88, objectdetection.LabelVehicle)
	bus := objectdetection.NewDetection(image.Rect(10, 10, 200, 80), 0.65, objectdetection.LabelBus)
	person := objectdetection.NewDetection(image.Rect(50, 100, 90, 300), 0.9, objectdetection.LabelPerson)

	locator := &inject.Locator{
		LocateHeadFunc: func(_ context.Context, _ *pix.Image, person image.Rectangle) (headloc.Signal, error) {
			return headloc.Signal{}, nil
		},
	}
	p := New(fixedDetector(vehicle, bus, person), locator, golog.NewTestLogger(t))

	resp, err := p.Process(context.Background(), Request{
		Image:             pix.NewImage(640, 480),
		BlurHeads:         true,
		ReportCoordinates: true,
		Mode:              privacy.ModeStandard,
	})
	test.That(t, err, test.ShouldBeNil)

	// vehicles never reach the locator, only the one person does
	test.That(t, locator.LocateCalls(), test.ShouldEqual, 1)

	test.That(t, resp.Coordinates[objectdetection.LabelVehicle], test.ShouldResemble,
		[]Coordinate{{Coordinate: [4]int{300, 40, 100, 50}, Confidence: 0.88}})
	test.That(t, resp.Coordinates[objectdetection.LabelBus], test.ShouldResemble,
		[]Coordinate{{Coordinate: [4]int{10, 10, 190, 70}, Confidence: 0.65}})
	test.That(t, resp.Coordinates[objectdetection.LabelPerson], test.ShouldResemble,
		[]Coordinate{{Coordinate: [4]int{50, 100, 40, 200}, Confidence: 0.9}})
}

func TestNoBlurRequestedSkipsResolutionEntirely(t *testing.T) {
	person := objectdetection.NewDetection(image.Rect(50, 100, 90, 300), 0.9, objectdetection.LabelPerson)
	locator := &inject.Locator{}
	p := New(fixedDetector(person), locator, golog.NewTestLogger(t))

	resp, err := p.Process(context.Background(), Request{
		Image:             pix.NewImage(640, 480),
		BlurHeads:         false,
		ReportCoordinates: true,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, locator.LocateCalls(), test.ShouldEqual, 0)
	test.That(t, resp.Blurred, test.ShouldBeNil)
}

func TestBlurReturnsSameBuffer(t *testing.T) {
	person := objectdetection.NewDetection(image.Rect(100, 50, 180, 400), 0.9, objectdetection.LabelPerson)
	head := image.Rect(120, 60, 160, 100)
	locator := &inject.Locator{
		LocateHeadFunc: func(context.Context, *pix.Image, image.Rectangle) (headloc.Signal, error) {
			return headloc.Signal{Box: &head, Confidence: 0.8}, nil
		},
	}
	p := New(fixedDetector(person), locator, golog.NewTestLogger(t))

	img := pix.NewImage(640, 480)
	resp, err := p.Process(context.Background(), Request{Image: img, BlurHeads: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Blurred, test.ShouldEqual, img)
	// coordinates were not requested
	test.That(t, resp.Coordinates, test.ShouldBeNil)
}

func TestNothingBlurredMeansNoImage(t *testing.T) {
	// a wide weak-signal person is deliberately left alone
	person := objectdetection.NewDetection(image.Rect(0, 0, 120, 100), 0.9, objectdetection.LabelPerson)
	locator := &inject.Locator{
		LocateHeadFunc: func(context.Context, *pix.Image, image.Rectangle) (headloc.Signal, error) {
			return headloc.Signal{Confidence: 0.2}, nil
		},
	}
	p := New(fixedDetector(person), locator, golog.NewTestLogger(t))

	resp, err := p.Process(context.Background(), Request{Image: pix.NewImage(640, 480), BlurHeads: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.Blurred, test.ShouldBeNil)
}

func TestNilImageRejected(t *testing.T) {
	p := New(fixedDetector(), &inject.Locator{}, golog.NewTestLogger(t))
	_, err := p.Process(context.Background(), Request{ReportCoordinates: true})
	test.That(t, err, test.ShouldNotBeNil)
}
