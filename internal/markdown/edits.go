package markdown

import (
	"errors"
	"fmt"
	"sort"
)

// Edit is a byte-range replacement of source[Start:End] (End exclusive).
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits, all expressed as offsets into the
// original source, and returns the updated content. Edits are applied from the
// end of the file toward the beginning so offsets stay valid.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})
	if err := validateEdits(sorted, len(source)); err != nil {
		return nil, err
	}

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out, nil
}

// validateEdits expects edits sorted by Start descending.
func validateEdits(sorted []Edit, size int) error {
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < 0:
			return fmt.Errorf("invalid edit[%d]: negative range", i)
		case e.End < e.Start:
			return fmt.Errorf("invalid edit[%d]: end before start", i)
		case e.End > size:
			return fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
		if i > 0 && e.End > sorted[i-1].Start {
			return errors.New("invalid edits: overlapping ranges")
		}
	}
	return nil
}
