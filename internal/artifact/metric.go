// Package artifact holds the typed records produced by structured generation and the schemas
// that describe them to the model.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MetricValue is either a bare score or a detailed metric with positive and negative points.
type MetricValue struct {
	Score    float64
	Positive []string
	Negative []string

	detailed bool
}

// Detailed reports whether the model gave points along with the score.
func (m MetricValue) Detailed() bool {
	return m.detailed
}

// HasNegative reports whether any negative points were given.
func (m MetricValue) HasNegative() bool {
	return len(m.Negative) > 0
}

type detailedMetric struct {
	Score    float64  `json:"score"`
	Positive []string `json:"positive"`
	Negative []string `json:"negative,omitempty"`
}

func (m *MetricValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var d detailedMetric
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("metric: %w", err)
		}
		*m = MetricValue{Score: d.Score, Positive: d.Positive, Negative: d.Negative, detailed: true}
		return nil
	}

	var score float64
	if err := json.Unmarshal(data, &score); err != nil {
		return fmt.Errorf("metric: expected number or object: %w", err)
	}
	*m = MetricValue{Score: score}
	return nil
}

func (m MetricValue) MarshalJSON() ([]byte, error) {
	if !m.detailed {
		return json.Marshal(m.Score)
	}
	return json.Marshal(detailedMetric{Score: m.Score, Positive: m.Positive, Negative: m.Negative})
}
