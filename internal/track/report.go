package track

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"snaptrack/internal/state"
)

// guessFloor is the minimum heuristic score before a removed node is reported
// as the likely origin of a created one.
const guessFloor = 0.5

// FormatReport renders a change set as a human-readable report. Created nodes
// are annotated with the best rename guess from the removed partition when
// the ancestor heuristic is confident enough.
func FormatReport(change *Change) string {
	if !change.AnyChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	if created := change.Created(); len(created) > 0 {
		fmt.Fprintf(&report, "CREATED (%d):\n", len(created))
		for _, node := range created {
			fmt.Fprintf(&report, "  + %s (%s)%s\n",
				node.Location(), nodeSize(node), guessOrigin(node, change.Removed()))
		}
		report.WriteString("\n")
	}

	if modified := change.Modified(); len(modified) > 0 {
		fmt.Fprintf(&report, "MODIFIED (%d):\n", len(modified))
		for _, node := range modified {
			previous := change.PreviousState.NodeWithLocation(node.Location())
			fmt.Fprintf(&report, "  ~ %s (%s, was %s)\n",
				node.Location(), nodeSize(node), nodeSize(previous))
		}
		report.WriteString("\n")
	}

	if removed := change.Removed(); len(removed) > 0 {
		fmt.Fprintf(&report, "REMOVED (%d):\n", len(removed))
		for _, node := range removed {
			fmt.Fprintf(&report, "  - %s (%s)\n", node.Location(), nodeSize(node))
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "Summary: %d created, %d modified, %d removed, %d unmodified\n",
		len(change.Created()), len(change.Modified()), len(change.Removed()),
		len(change.Unmodified()))

	return report.String()
}

func guessOrigin(node *state.Node, removed []*state.Node) string {
	if len(removed) == 0 {
		return ""
	}
	guesses, err := GuessAncestors(node, removed)
	if err != nil {
		return ""
	}
	best := guesses[len(guesses)-1]
	if best.Score < guessFloor {
		return ""
	}
	return fmt.Sprintf(", possibly moved from %s (%.0f%%)", best.Node.Location(), best.Score*100)
}

func nodeSize(node *state.Node) string {
	if node == nil {
		return "?"
	}
	size, err := strconv.ParseUint(node.Attribute(state.AttrSize), 10, 64)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(size)
}
