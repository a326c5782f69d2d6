package objectdetection

// Postprocessor defines a function that filters/modifies an incoming array of Detections.
type Postprocessor func([]Detection) []Detection

// NewAreaFilter returns a function that filters out detections below a certain area.
func NewAreaFilter(area int) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.BoundingBox().Dx()*d.BoundingBox().Dy() >= area {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewScoreFilter returns a function that filters out detections below a certain confidence.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Score() >= conf {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewLabelScoreFilter returns a function that filters out detections of the
// given label below a certain confidence. Other labels pass through untouched.
func NewLabelScoreFilter(label string, conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Label() == label && d.Score() < conf {
				continue
			}
			out = append(out, d)
		}
		return out
	}
}

// GroupByLabel buckets detections by class label, preserving per-class order.
func GroupByLabel(in []Detection) map[string][]Detection {
	out := make(map[string][]Detection)
	for _, d := range in {
		out[d.Label()] = append(out[d.Label()], d)
	}
	return out
}
