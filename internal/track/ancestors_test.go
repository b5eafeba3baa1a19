package track

import (
	"math"
	"testing"

	"snaptrack/internal/state"
)

type nodeAttrs struct {
	directory    bool
	creation     string
	modification string
	size         string
	owner        string
	group        string
	permissions  string
}

func attrNode(st *state.State, location string, attrs nodeAttrs) *state.Node {
	var n *state.Node
	if attrs.directory {
		n = state.NewDirectoryNode(st, location)
	} else {
		n = state.NewFileNode(st, location, true)
	}
	n.SetAttribute(state.AttrCreation, attrs.creation)
	n.SetAttribute(state.AttrModification, attrs.modification)
	n.SetAttribute(state.AttrSize, attrs.size)
	n.SetAttribute(state.AttrOwner, attrs.owner)
	n.SetAttribute(state.AttrGroup, attrs.group)
	n.SetAttribute(state.AttrPermissions, attrs.permissions)
	return n
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGuessAncestors_RanksPlausibleCandidateLast(t *testing.T) {
	st := state.New("/data")

	target := attrNode(st, "renamed.txt", nodeAttrs{
		creation: "100", modification: "300", size: "50",
		owner: "1000", group: "1000", permissions: "644",
	})
	plausible := attrNode(st, "original.txt", nodeAttrs{
		creation: "100", modification: "200", size: "50",
		owner: "1000", group: "1000", permissions: "644",
	})
	implausible := attrNode(st, "other", nodeAttrs{
		directory: true,
		creation:  "50", modification: "400", size: "10",
		owner: "0", group: "0", permissions: "755",
	})

	guesses, err := GuessAncestors(target, []*state.Node{plausible, implausible})
	if err != nil {
		t.Fatalf("GuessAncestors failed: %v", err)
	}

	if len(guesses) != 2 {
		t.Fatalf("Expected 2 guesses, got %d", len(guesses))
	}
	best, worst := guesses[1], guesses[0]
	if best.Node != plausible {
		t.Error("The matching candidate should sort last (best)")
	}
	if best.Score <= worst.Score {
		t.Errorf("Expected strictly higher score for the match: %f vs %f", best.Score, worst.Score)
	}

	// Same variant 0.40, exact creation 0.25, earlier modification 0.15,
	// exact size 0.10, owner/group/permissions 0.09.
	if !closeTo(best.Score, 0.99) {
		t.Errorf("Expected score 0.99 for the matching candidate, got %f", best.Score)
	}
}

// Every term compares the candidate against the target node. A literal
// self-comparison of each candidate's attributes would make the time and size
// terms degenerate and score all same-variant candidates identically.
func TestGuessAncestors_ComparesCandidateAgainstTarget(t *testing.T) {
	st := state.New("/data")

	target := attrNode(st, "t", nodeAttrs{
		creation: "1000", modification: "1000", size: "100",
		owner: "1", group: "1", permissions: "644",
	})
	near := attrNode(st, "near", nodeAttrs{
		creation: "990", modification: "900", size: "95",
		owner: "1", group: "1", permissions: "644",
	})
	far := attrNode(st, "far", nodeAttrs{
		creation: "100", modification: "900", size: "5",
		owner: "1", group: "1", permissions: "644",
	})

	guesses, err := GuessAncestors(target, []*state.Node{far, near})
	if err != nil {
		t.Fatalf("GuessAncestors failed: %v", err)
	}

	if guesses[0].Score == guesses[1].Score {
		t.Fatal("Candidates at different distances from the target must score differently")
	}
	if guesses[len(guesses)-1].Node != near {
		t.Error("The attribute-closer candidate should rank higher")
	}
}

func TestGuessAncestors_LaterCreationIsPenalized(t *testing.T) {
	st := state.New("/data")

	target := attrNode(st, "t", nodeAttrs{
		creation: "100", modification: "500", size: "10",
		owner: "1", group: "1", permissions: "644",
	})
	earlier := attrNode(st, "earlier", nodeAttrs{
		creation: "80", modification: "400", size: "10",
		owner: "1", group: "1", permissions: "644",
	})
	later := attrNode(st, "later", nodeAttrs{
		creation: "120", modification: "400", size: "10",
		owner: "1", group: "1", permissions: "644",
	})
	// Widens the creation spread so the halved term is visible.
	outlier := attrNode(st, "outlier", nodeAttrs{
		creation: "300", modification: "400", size: "10",
		owner: "1", group: "1", permissions: "644",
	})

	guesses, err := GuessAncestors(target, []*state.Node{later, earlier, outlier})
	if err != nil {
		t.Fatalf("GuessAncestors failed: %v", err)
	}

	scores := make(map[*state.Node]float64, len(guesses))
	for _, guess := range guesses {
		scores[guess.Node] = guess.Score
	}

	// Both are 20 units away from the target's creation time; only the one
	// created afterwards has its creation term halved.
	if scores[later] >= scores[earlier] {
		t.Errorf("A candidate younger than the target should score lower: %f vs %f",
			scores[later], scores[earlier])
	}
}

func TestGuessAncestors_ZeroSpreadScoresFull(t *testing.T) {
	st := state.New("/data")

	target := attrNode(st, "t", nodeAttrs{
		creation: "100", modification: "200", size: "10",
		owner: "1", group: "1", permissions: "644",
	})
	twin := attrNode(st, "twin", nodeAttrs{
		creation: "100", modification: "200", size: "10",
		owner: "1", group: "1", permissions: "644",
	})

	guesses, err := GuessAncestors(target, []*state.Node{twin})
	if err != nil {
		t.Fatalf("GuessAncestors failed: %v", err)
	}

	// 0.40 + 0.25 + 0.10 + 0.09; the modification term needs a strictly
	// earlier timestamp.
	if !closeTo(guesses[0].Score, 0.84) {
		t.Errorf("Expected score 0.84 for an identical candidate, got %f", guesses[0].Score)
	}
}

func TestGuessAncestors_RequiresCandidates(t *testing.T) {
	st := state.New("/data")
	target := attrNode(st, "t", nodeAttrs{creation: "1", modification: "1", size: "1"})

	if _, err := GuessAncestors(target, nil); err == nil {
		t.Error("GuessAncestors should fail without candidates")
	}
}

func TestGuessAncestors_ScoresStayInRange(t *testing.T) {
	st := state.New("/data")

	target := attrNode(st, "t", nodeAttrs{
		creation: "100", modification: "200", size: "50",
		owner: "1", group: "1", permissions: "644",
	})
	candidates := []*state.Node{
		attrNode(st, "a", nodeAttrs{creation: "90", modification: "100", size: "50", owner: "1", group: "1", permissions: "644"}),
		attrNode(st, "b", nodeAttrs{directory: true, creation: "500", modification: "900", size: "1", owner: "2", group: "2", permissions: "755"}),
		attrNode(st, "c", nodeAttrs{creation: "100", modification: "200", size: "49", owner: "1", group: "2", permissions: "600"}),
	}

	guesses, err := GuessAncestors(target, candidates)
	if err != nil {
		t.Fatalf("GuessAncestors failed: %v", err)
	}

	for i, guess := range guesses {
		if guess.Score < 0 || guess.Score > 1 {
			t.Errorf("Score out of range: %f", guess.Score)
		}
		if i > 0 && guesses[i-1].Score > guess.Score {
			t.Error("Guesses should be ordered ascending by score")
		}
	}
}
