package privacy

import "image"

// RegionSource tags how a blur region was chosen. The three variants are
// exhaustive and mutually exclusive: a person either has a confirmed head box,
// a geometric fallback strip, or nothing.
type RegionSource int

const (
	// SourceNone means the person is deliberately left unblurred.
	SourceNone RegionSource = iota
	// SourceConfirmedHead is a head box from the locator at or above the
	// confidence floor.
	SourceConfirmedHead
	// SourceFallbackTopStrip is the top portion of the person box, used when
	// no trustworthy head signal exists but the person appears standing.
	SourceFallbackTopStrip
)

func (s RegionSource) String() string {
	switch s {
	case SourceConfirmedHead:
		return "confirmed_head"
	case SourceFallbackTopStrip:
		return "fallback_top_strip"
	default:
		return "none"
	}
}

// BlurRegion is the engine's decision for one person. Box is meaningless when
// Source is SourceNone.
type BlurRegion struct {
	Box    image.Rectangle
	Source RegionSource
}
