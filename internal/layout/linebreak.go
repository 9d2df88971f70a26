// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import "strings"

// BreakLines splits text into lines no wider than maxWidth, breaking only at
// whitespace. Words are taken in order and appended to the current line
// while the joined line still fits; a line exactly maxWidth wide fits. A
// word wider than maxWidth on its own occupies a line by itself and
// overflows rather than being split. Runs of whitespace, including
// newlines, collapse to a single space.
//
// Empty or all-whitespace text yields no lines.
func BreakLines(m Metrics, text string, maxWidth float64, face Face, size float64) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		w, err := m.Width(candidate, face, size)
		if err != nil {
			return nil, err
		}

		if w > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil
}
