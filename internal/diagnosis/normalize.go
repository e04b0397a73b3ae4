package diagnosis

import "strings"

// maxResponseLines caps how much of the raw generation survives cleanup.
const maxResponseLines = 15

// NormalizeResponse cleans raw generated text: anything up to and including
// the last response marker is discarded (the model tends to echo the
// prompt), duplicate lines are dropped keeping the first occurrence, and the
// result is capped at maxResponseLines lines.
func NormalizeResponse(raw string) string {
	if idx := strings.LastIndex(raw, responseMarker); idx >= 0 {
		raw = strings.TrimSpace(raw[idx+len(responseMarker):])
	}

	lines := strings.Split(raw, "\n")
	seen := make(map[string]struct{}, len(lines))
	unique := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
		if len(unique) == maxResponseLines {
			break
		}
	}

	return strings.TrimSpace(strings.Join(unique, "\n"))
}
