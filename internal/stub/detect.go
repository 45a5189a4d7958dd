package stub

import (
	"crypto/sha256"
	"math"
	"strings"
)

// Detection is one labelled box as the detection model reports it.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Detector classifies uploaded bytes.
type Detector interface {
	Detect(data []byte) []Detection
}

// HashDetector is a stand-in model. It derives between zero and three
// detections from the SHA-256 of the upload, so the same file always gets
// the same answer.
type HashDetector struct{}

// Detect implements Detector.
func (HashDetector) Detect(data []byte) []Detection {
	sum := sha256.Sum256(data)
	n := int(sum[0] % 4)
	out := make([]Detection, 0, n)
	for i := 0; i < n; i++ {
		b := sum[1+i*2]
		frac := float64(sum[2+i*2]) / 255
		label := "real"
		if b%3 == 0 {
			label = "fake"
		}
		out = append(out, Detection{
			Label:      label,
			Confidence: round2(40 + float64(b%60) + frac),
		})
	}
	return out
}

// Summarize reduces detections to the verdict fields: a file is a deepfake
// when any box is labelled fake, and the score is the mean box confidence.
func Summarize(detections []Detection) (isDeepfake bool, confidence float64) {
	if len(detections) == 0 {
		return false, 0
	}
	var total float64
	for _, d := range detections {
		if strings.EqualFold(d.Label, "fake") {
			isDeepfake = true
		}
		total += d.Confidence
	}
	return isDeepfake, round2(total / float64(len(detections)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
