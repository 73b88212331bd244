// Copyright © 2024 The Lithium authors

package buffer

import "strings"

// LineAt returns the line of src containing p, excluding the newline.
func LineAt(src string, p Position) Region {
	if p < 0 {
		p = 0
	}
	if int(p) > len(src) {
		p = Position(len(src))
	}
	start := strings.LastIndexByte(src[:p], '\n') + 1
	end := strings.IndexByte(src[p:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += int(p)
	}
	return Region{Start: Position(start), End: Position(end)}
}

// FullLineAt returns the line of src containing p including its newline.
func FullLineAt(src string, p Position) Region {
	r := LineAt(src, p)
	if int(r.End) < len(src) {
		r.End++
	}
	return r
}

// Lines splits src into line regions, excluding newlines. A trailing
// newline does not produce an extra empty line.
func Lines(src string) []Region {
	var out []Region
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			out = append(out, Region{Start: Position(start), End: Position(i)})
			start = i + 1
		}
	}
	if start < len(src) {
		out = append(out, Region{Start: Position(start), End: Position(len(src))})
	}
	return out
}

// PointAt converts a 0-based line and byte column to a position. Columns
// past the end of the line are clamped to the line end.
func PointAt(src string, line, col int) (Position, error) {
	if line < 0 || col < 0 {
		return 0, ErrOutOfRange
	}
	start := 0
	for i := 0; i < line; i++ {
		idx := strings.IndexByte(src[start:], '\n')
		if idx < 0 {
			return 0, ErrOutOfRange
		}
		start += idx + 1
	}
	r := LineAt(src, Position(start))
	p := r.Start + Position(col)
	if p > r.End {
		p = r.End
	}
	return p, nil
}

// LineCol converts a position into a 0-based line and byte column.
func LineCol(src string, p Position) (line, col int) {
	if int(p) > len(src) {
		p = Position(len(src))
	}
	line = strings.Count(src[:p], "\n")
	col = int(p) - (strings.LastIndexByte(src[:p], '\n') + 1)
	return line, col
}
