// Package report renders findings. Detection lives elsewhere; this package
// only decides how a finding looks on the way out.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/carlog/internal/model"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

// Sink receives findings in the order a run produces them.
type Sink interface {
	Emit(f model.Finding) error
}

// New returns the sink for the given format.
func New(format string, w io.Writer) (Sink, error) {
	switch format {
	case FormatText:
		return Text(w), nil
	case FormatJSON:
		return JSON(w), nil
	default:
		return nil, fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
	}
}

// Lines renders a finding as human-readable lines. Most findings take one
// line; an efficiency report takes two.
func Lines(f model.Finding) []string {
	switch f := f.(type) {
	case model.TableCreated:
		return []string{fmt.Sprintf("Going to create the table %s", f.Table)}
	case model.RowAdded:
		return []string{fmt.Sprintf("%-5s: adding %s", f.Table, f.Key)}
	case model.RowMismatch:
		return []string{fmt.Sprintf("For %s found %s instead of %s", f.Key, f.Stored, f.Declared)}
	case model.PaymentMismatch:
		return []string{fmt.Sprintf("%s %d you paid %s instead of %s",
			f.Key.Date, f.Key.Odometer, f.Paid.StringFixed(3), f.Expected.StringFixed(3))}
	case model.MileageMismatch:
		return []string{fmt.Sprintf("%s %d calculated mileage is %d instead of %s",
			f.Key.Date, f.Key.Odometer, f.Calculated, strconv.FormatFloat(f.Recorded, 'f', -1, 64))}
	case model.EfficiencyReport:
		return []string{
			fmt.Sprintf("%s %d mileage pro liter: %5.2f", f.Key.Date, f.Key.Odometer, f.Efficiency),
			fmt.Sprintf("%s %d liters pro 100 km: %5.2f", f.Key.Date, f.Key.Odometer, f.RatePer100),
		}
	default:
		return []string{fmt.Sprintf("%s: %+v", f.Kind(), f)}
	}
}

// TextSink writes one line per rendered line of each finding.
type TextSink struct {
	w io.Writer
}

// Text creates a TextSink writing to w.
func Text(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Emit(f model.Finding) error {
	for _, line := range Lines(f) {
		if _, err := fmt.Fprintln(s.w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// Record is the JSON form of a finding.
type Record struct {
	Kind model.Kind    `json:"kind"`
	Data model.Finding `json:"data"`
	Text []string      `json:"text"`
}

// JSONSink writes one JSON object per finding.
type JSONSink struct {
	enc *json.Encoder
}

// JSON creates a JSONSink writing to w.
func JSON(w io.Writer) *JSONSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONSink{enc: enc}
}

func (s *JSONSink) Emit(f model.Finding) error {
	if err := s.enc.Encode(Record{Kind: f.Kind(), Data: f, Text: Lines(f)}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Collector keeps findings in memory.
type Collector struct {
	Findings []model.Finding
}

func (c *Collector) Emit(f model.Finding) error {
	c.Findings = append(c.Findings, f)
	return nil
}

// Kinds returns the kind of every collected finding, in order.
func (c *Collector) Kinds() []model.Kind {
	kinds := make([]model.Kind, len(c.Findings))
	for i, f := range c.Findings {
		kinds[i] = f.Kind()
	}
	return kinds
}

// Tee forwards every finding to each sink in order, stopping at the first
// error.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Emit(f model.Finding) error {
	for _, s := range t {
		if err := s.Emit(f); err != nil {
			return err
		}
	}
	return nil
}
