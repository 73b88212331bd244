// Copyright © 2024 The Lithium authors

package buffer

import "fmt"

// Edit replaces the text covered by Region with NewText. A deletion has an
// empty NewText; an insertion has an empty Region.
type Edit struct {
	Region  Region
	NewText string
}

// Apply returns src with the edit applied.
func (e Edit) Apply(src string) (string, error) {
	if e.Region.Start < 0 || e.Region.End < e.Region.Start || int(e.Region.End) > len(src) {
		return "", fmt.Errorf("edit %s: %w", e.Region, ErrOutOfRange)
	}
	return src[:e.Region.Start] + e.NewText + src[e.Region.End:], nil
}

// ApplyEdits applies edits one after another, each against the result of
// the previous one. Callers that compute all regions against the original
// text must order them from the end of the text towards the start.
func ApplyEdits(src string, edits []Edit) (string, error) {
	var err error
	for _, e := range edits {
		src, err = e.Apply(src)
		if err != nil {
			return "", err
		}
	}
	return src, nil
}
