// Package privacy decides which regions of an image to blur for the people
// detected in it, and applies the blur. This is the part of the pipeline that
// owns the fallback logic between a model-confirmed head box and plain
// bounding-box geometry.
package privacy

// Mode selects the coverage/latency tradeoff for head processing.
type Mode string

const (
	// ModeStandard processes every person detection.
	ModeStandard Mode = "standard"
	// ModeFast skips person detections that are small relative to the image.
	ModeFast Mode = "fast"
)

// ParseMode maps a mode string to a Mode. Anything unrecognized, including the
// empty string, resolves to ModeStandard.
func ParseMode(s string) Mode {
	if Mode(s) == ModeFast {
		return ModeFast
	}
	return ModeStandard
}
