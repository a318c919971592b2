package label

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
)

// ErrMissingText is returned for a record without a text field.
var ErrMissingText = errors.New("label: missing text")

// RecordPoint is a point as it appears in label data. Coordinates may be
// fractional and are truncated toward zero.
type RecordPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Record is the wire form of a label:
//
//	{"points": [{"x": 100, "y": 200}, {"x": 300, "y": 200}], "text": "Wall"}
type Record struct {
	Points []RecordPoint `json:"points"`
	Text   *string       `json:"text"`
}

// Label converts r, truncating coordinates and checking its shape.
func (r Record) Label() (Label, error) {
	if r.Text == nil {
		return Label{}, ErrMissingText
	}
	l := Label{
		Points: make([]geometry.Point, len(r.Points)),
		Text:   *r.Text,
	}
	for i, p := range r.Points {
		if !finite(p.X) || !finite(p.Y) {
			return Label{}, fmt.Errorf("%w: point %d is not finite", ErrMalformedLabel, i)
		}
		l.Points[i] = geometry.Point{X: int(math.Trunc(p.X)), Y: int(math.Trunc(p.Y))}
	}
	if _, err := l.Kind(); err != nil {
		return Label{}, err
	}
	return l, nil
}

// Labels converts records in order. The first malformed record is
// reported as a *RecordError.
func Labels(records []Record) ([]Label, error) {
	labels := make([]Label, 0, len(records))
	for i, r := range records {
		l, err := r.Label()
		if err != nil {
			return nil, &RecordError{Index: i, Points: len(r.Points), Err: err}
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// ParseRecords decodes a JSON array of records into labels.
func ParseRecords(data []byte) ([]Label, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse label records: %w", err)
	}
	return Labels(records)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
