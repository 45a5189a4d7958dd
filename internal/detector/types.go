package detector

import (
	"encoding/json"
	"fmt"
	"math"
)

// AnalysisResult mirrors the payload returned by /analyze/. Keys the client
// does not model are kept in Extra so the result can be sent back to
// /download-report/ exactly as received.
type AnalysisResult struct {
	IsDeepfake      bool      `json:"isDeepfake"`
	ConfidenceScore float64   `json:"confidenceScore"`
	ProcessingTime  string    `json:"processingTime"`
	Anomalies       []Anomaly `json:"anomalies"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Anomaly is one flagged region of interest.
type Anomaly struct {
	Region      string  `json:"region"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

var resultKeys = map[string]struct{}{
	"isDeepfake":      {},
	"confidenceScore": {},
	"processingTime":  {},
	"anomalies":       {},
}

// UnmarshalJSON decodes the known fields and stashes the rest.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	type plain AnalysisResult
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key := range resultKeys {
		delete(all, key)
	}
	known.Extra = nil
	if len(all) > 0 {
		known.Extra = all
	}
	*r = AnalysisResult(known)
	return nil
}

// MarshalJSON writes the known fields plus Extra.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type plain AnalysisResult
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage, len(r.Extra)+len(resultKeys))
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON accepts "label" as an alias for "region"; the detection
// service reports class labels there.
func (a *Anomaly) UnmarshalJSON(data []byte) error {
	var raw struct {
		Region      *string `json:"region"`
		Label       *string `json:"label"`
		Confidence  float64 `json:"confidence"`
		Description string  `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Confidence = raw.Confidence
	a.Description = raw.Description
	a.Region = ""
	switch {
	case raw.Region != nil:
		a.Region = *raw.Region
	case raw.Label != nil:
		a.Region = *raw.Label
	}
	return nil
}

var requiredResultKeys = []string{"isDeepfake", "confidenceScore"}

// requireResultShape rejects a body that is not a JSON object or lacks a
// verdict or score. A zero value must never stand in for a missing verdict.
func requireResultShape(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("response is not an object")
	}
	for _, key := range requiredResultKeys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return fmt.Errorf("response missing %s", key)
		}
	}
	return nil
}

// Validate rejects scores outside 0-100.
func (r AnalysisResult) Validate() error {
	if !inPercentRange(r.ConfidenceScore) {
		return fmt.Errorf("confidenceScore %v outside 0-100", r.ConfidenceScore)
	}
	for i, a := range r.Anomalies {
		if !inPercentRange(a.Confidence) {
			return fmt.Errorf("anomalies[%d].confidence %v outside 0-100", i, a.Confidence)
		}
	}
	return nil
}

// Verdict is the headline shown for the result.
func (r AnalysisResult) Verdict() string {
	if r.IsDeepfake {
		return "Potential Deepfake Detected!"
	}
	return "Image appears authentic"
}

func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
