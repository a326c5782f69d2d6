// Package inject provides injected model capabilities for testing. Each mock
// records how often it was called so tests can assert on call counts.
package inject

import (
	"context"
	"image"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/sitewarden/svision/headloc"
	"github.com/sitewarden/svision/objectdetection"
	"github.com/sitewarden/svision/pix"
)

// Detector is an injected object detector.
type Detector struct {
	DetectFunc func(ctx context.Context, img *pix.Image) (objectdetection.Result, error)

	detectCalls int64
}

// Detect calls the injected DetectFunc or errors if nothing was injected.
func (d *Detector) Detect(ctx context.Context, img *pix.Image) (objectdetection.Result, error) {
	atomic.AddInt64(&d.detectCalls, 1)
	if d.DetectFunc == nil {
		return objectdetection.Result{}, errors.New("DetectFunc not set")
	}
	return d.DetectFunc(ctx, img)
}

// DetectCalls reports how many times Detect was invoked.
func (d *Detector) DetectCalls() int {
	return int(atomic.LoadInt64(&d.detectCalls))
}

// Locator is an injected head locator.
type Locator struct {
	LocateHeadFunc func(ctx context.Context, img *pix.Image, person image.Rectangle) (headloc.Signal, error)

	locateCalls int64
}

// LocateHead calls the injected LocateHeadFunc or errors if nothing was
// injected.
func (l *Locator) LocateHead(ctx context.Context, img *pix.Image, person image.Rectangle) (headloc.Signal, error) {
	atomic.AddInt64(&l.locateCalls, 1)
	if l.LocateHeadFunc == nil {
		return headloc.Signal{}, errors.New("LocateHeadFunc not set")
	}
	return l.LocateHeadFunc(ctx, img, person)
}

// LocateCalls reports how many times LocateHead was invoked.
func (l *Locator) LocateCalls() int {
	return int(atomic.LoadInt64(&l.locateCalls))
}
