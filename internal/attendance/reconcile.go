package attendance

import "github.com/kozaktomas/face-attendance/internal/facematch"

// Outcome partitions the roster into present and absent students.
type Outcome struct {
	Present []string `json:"present"`
	Absent  []string `json:"absent"`
	Unknown int      `json:"unknown"`
}

// Reconcile computes attendance from match results.
// Present holds each matched roster label once, in order of first appearance.
// Absent holds the remaining roster labels in roster order. Unknown counts
// faces that matched nobody; they appear in neither list.
func Reconcile(results []facematch.MatchResult, roster []string) Outcome {
	onRoster := make(map[string]bool, len(roster))
	for _, label := range roster {
		onRoster[label] = true
	}

	out := Outcome{
		Present: []string{},
		Absent:  []string{},
	}

	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r.IsUnknown() {
			out.Unknown++
			continue
		}
		if !onRoster[r.Label] || seen[r.Label] {
			continue
		}
		seen[r.Label] = true
		out.Present = append(out.Present, r.Label)
	}

	for _, label := range roster {
		if !seen[label] {
			out.Absent = append(out.Absent, label)
		}
	}

	return out
}
