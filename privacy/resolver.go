package privacy

import (
	"context"
	"image"

	"github.com/edaniels/golog"

	"github.com/sitewarden/svision/headloc"
	"github.com/sitewarden/svision/pix"
	"github.com/sitewarden/svision/utils"
)

const (
	// minRelativeHeight is the fast-mode cutoff: persons shorter than this
	// fraction of the image height are skipped without a locator call.
	minRelativeHeight = 0.10
	// minSubframeSize is the smallest person box edge worth sending to the
	// locator in any mode; pose models fail on anything smaller.
	minSubframeSize = 30
	// standingRatio is the aspect threshold of the standing heuristic.
	standingRatio = 1.5
	// fallbackHeadRatio is the fraction of the person box height blurred when
	// falling back to geometry.
	fallbackHeadRatio = 0.25
	// minFallbackHeight is the smallest useful fallback strip in pixels.
	minFallbackHeight = 5
)

// Resolver turns person detections into blur regions: one decision per
// person, no more, no less.
type Resolver struct {
	locator headloc.Locator
	logger  golog.Logger
}

// NewResolver returns a Resolver backed by the given head locator.
func NewResolver(locator headloc.Locator, logger golog.Logger) *Resolver {
	return &Resolver{locator: locator, logger: logger}
}

// ShouldProcess reports whether a person box is worth a head-localization
// call. Tiny boxes are skipped in every mode; fast mode additionally skips
// boxes short relative to the image.
func (r *Resolver) ShouldProcess(person image.Rectangle, imageHeight int, mode Mode) bool {
	if person.Dx() < minSubframeSize || person.Dy() < minSubframeSize {
		return false
	}
	if mode == ModeFast && imageHeight > 0 {
		return float64(person.Dy())/float64(imageHeight) >= minRelativeHeight
	}
	return true
}

// Resolve decides a blur region for each person box. The returned slice is
// index-aligned with persons so the output is deterministic regardless of how
// the per-person locator calls interleave. Locator failures degrade that one
// person to the geometric fallback; they never abort the rest.
func (r *Resolver) Resolve(ctx context.Context, img *pix.Image, persons []image.Rectangle, mode Mode) []BlurRegion {
	regions := make([]BlurRegion, len(persons))
	if len(persons) == 0 {
		return regions
	}
	err := utils.ForEachInParallel(ctx, len(persons), func(ctx context.Context, i int) error {
		regions[i] = r.resolveOne(ctx, img, persons[i], mode)
		return nil
	})
	if err != nil {
		// resolveOne swallows locator errors, so this is a panic or a dead
		// context; affected slots stay at the SourceNone zero value.
		r.logger.Errorw("region resolution incomplete", "error", err)
	}
	return regions
}

func (r *Resolver) resolveOne(ctx context.Context, img *pix.Image, person image.Rectangle, mode Mode) BlurRegion {
	if !r.ShouldProcess(person, img.Height(), mode) {
		return BlurRegion{Source: SourceNone}
	}

	sig, err := r.locator.LocateHead(ctx, img, person)
	if err != nil {
		r.logger.Debugw("head localization failed, using fallback", "person", person, "error", err)
		sig = headloc.Signal{}
	}
	return r.decide(img, person, sig)
}

// decide is the per-person decision table. A head signal below the confidence
// floor is discarded entirely, never partially trusted.
func (r *Resolver) decide(img *pix.Image, person image.Rectangle, sig headloc.Signal) BlurRegion {
	if sig.Found() {
		box := sig.Box.Intersect(person)
		box = pix.ClipRect(box, img.Width(), img.Height())
		if !box.Empty() {
			return BlurRegion{Box: box, Source: SourceConfirmedHead}
		}
		r.logger.Debugw("confirmed head box degenerate after clipping, using fallback", "person", person)
	}

	// No trustworthy head signal. The geometric fallback only applies to
	// upright persons; the top quarter of a wide box is not a head.
	if float64(person.Dy()) <= float64(person.Dx())*standingRatio {
		return BlurRegion{Source: SourceNone}
	}
	stripHeight := int(float64(person.Dy()) * fallbackHeadRatio)
	if stripHeight < minFallbackHeight {
		return BlurRegion{Source: SourceNone}
	}
	strip := image.Rect(person.Min.X, person.Min.Y, person.Max.X, person.Min.Y+stripHeight)
	strip = pix.ClipRect(strip, img.Width(), img.Height())
	if strip.Empty() {
		return BlurRegion{Source: SourceNone}
	}
	return BlurRegion{Box: strip, Source: SourceFallbackTopStrip}
}

// Stats summarizes how many persons a mode will actually process; useful for
// request logging.
type Stats struct {
	Total       int
	WillProcess int
	WillSkip    int
	Mode        Mode
}

// ProcessingStats computes Stats for a set of person boxes without doing any
// locator work.
func (r *Resolver) ProcessingStats(persons []image.Rectangle, imageHeight int, mode Mode) Stats {
	s := Stats{Total: len(persons), Mode: mode}
	for _, p := range persons {
		if r.ShouldProcess(p, imageHeight, mode) {
			s.WillProcess++
		}
	}
	s.WillSkip = s.Total - s.WillProcess
	return s
}
