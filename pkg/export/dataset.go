package export

import "fmt"

// Dataset defines tabular export content. Widths are optional relative
// column weights used by the PDF renderer.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Widths  []float64
}

// Validate checks that headers are present and unique.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	seen := make(map[string]struct{}, len(d.Headers))
	for _, header := range d.Headers {
		if header == "" {
			return fmt.Errorf("dataset header must not be empty")
		}
		if _, dup := seen[header]; dup {
			return fmt.Errorf("duplicate dataset header %q", header)
		}
		seen[header] = struct{}{}
	}
	if len(d.Widths) != 0 && len(d.Widths) != len(d.Headers) {
		return fmt.Errorf("dataset has %d widths for %d headers", len(d.Widths), len(d.Headers))
	}
	return nil
}

// Record returns the row values in header order.
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

func (d Dataset) columnWidths(total float64) []float64 {
	widths := make([]float64, len(d.Headers))
	if len(d.Widths) == 0 {
		for i := range widths {
			widths[i] = total / float64(len(widths))
		}
		return widths
	}
	var sum float64
	for _, w := range d.Widths {
		sum += w
	}
	for i, w := range d.Widths {
		widths[i] = total * w / sum
	}
	return widths
}
