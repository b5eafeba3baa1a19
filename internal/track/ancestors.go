package track

import (
	"errors"
	"sort"
	"strconv"

	"snaptrack/internal/state"
)

// AncestorGuess pairs a candidate node with its likelihood, in [0, 1], of
// being the target node's prior identity.
type AncestorGuess struct {
	Score float64
	Node  *state.Node
}

// GuessAncestors ranks the candidates (commonly a change set's removed
// partition) by how plausibly each one is the prior identity of the target
// node, to support rename and move guessing. The ranking is approximate and
// advisory only; it never feeds back into classification.
//
// Each score compares the candidate's attributes against the target's, never
// against the candidate's own. Results are ordered ascending by score, best
// candidates last.
func GuessAncestors(target *state.Node, candidates []*state.Node) ([]AncestorGuess, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no candidates to rank")
	}

	targetCreation := attrInt(target, state.AttrCreation)
	targetSize := attrInt(target, state.AttrSize)

	var maxCreationDiff, maxSizeDiff int64
	for _, candidate := range candidates {
		maxCreationDiff = max(maxCreationDiff, abs(attrInt(candidate, state.AttrCreation)-targetCreation))
		maxSizeDiff = max(maxSizeDiff, abs(attrInt(candidate, state.AttrSize)-targetSize))
	}

	guesses := make([]AncestorGuess, 0, len(candidates))
	for _, candidate := range candidates {
		score := 0.0

		// Same variant: 40%.
		if candidate.Kind() == target.Kind() {
			score += 0.40
		}

		// Creation-time closeness: up to 25%, halved when the candidate is
		// younger than the target, which is inconsistent with ancestry.
		creation := attrInt(candidate, state.AttrCreation)
		creationScore := 0.25 * (1 - ratio(abs(creation-targetCreation), maxCreationDiff))
		if creation > targetCreation {
			creationScore /= 2
		}
		score += creationScore

		// Earlier modification time: flat 15%.
		if attrInt(candidate, state.AttrModification) < attrInt(target, state.AttrModification) {
			score += 0.15
		}

		// Size closeness: up to 10%.
		size := attrInt(candidate, state.AttrSize)
		score += 0.10 * (1 - ratio(abs(size-targetSize), maxSizeDiff))

		// Matching ownership and permissions: 3% each.
		for _, name := range []state.Attribute{state.AttrOwner, state.AttrGroup, state.AttrPermissions} {
			if candidate.Attribute(name) == target.Attribute(name) {
				score += 0.03
			}
		}

		guesses = append(guesses, AncestorGuess{Score: score, Node: candidate})
	}

	sort.SliceStable(guesses, func(i, j int) bool {
		return guesses[i].Score < guesses[j].Score
	})
	return guesses, nil
}

// ratio normalizes a difference against the maximum seen across candidates.
// A zero maximum means every candidate matched exactly.
func ratio(diff, maxDiff int64) float64 {
	if maxDiff == 0 {
		return 0
	}
	return float64(diff) / float64(maxDiff)
}

func attrInt(n *state.Node, name state.Attribute) int64 {
	value, _ := strconv.ParseInt(n.Attribute(name), 10, 64)
	return value
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
