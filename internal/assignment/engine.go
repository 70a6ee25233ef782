// Package assignment derives the per-participant presentation order of a
// group's image corpus and the position at which an interrupted session
// resumes. Everything here is a pure function of its inputs so the same
// participant always sees the same order, across sessions and processes.
package assignment

import "math/rand"

// Seed derives the shuffle seed from a participant identifier: the sum
// of the Unicode code points of every character. The sum is
// order-independent, so anagram identifiers ("AB" and "BA") produce the
// same seed and hence the same ordering. That collision is documented
// study behavior, kept for compatibility with already-collected data.
func Seed(participantID string) int64 {
	var sum int64
	for _, r := range participantID {
		sum += int64(r)
	}
	return sum
}

// Assign returns the participant-specific permutation of corpus. The
// input is never modified. Go's math/rand sequence is fixed for a given
// seed by the Go 1 compatibility promise, so the permutation is stable
// across runs and hosts. An empty corpus yields an empty assignment.
func Assign(participantID string, corpus []string) []string {
	assigned := make([]string, len(corpus))
	copy(assigned, corpus)

	rng := rand.New(rand.NewSource(Seed(participantID)))
	rng.Shuffle(len(assigned), func(i, j int) {
		assigned[i], assigned[j] = assigned[j], assigned[i]
	})
	return assigned
}

// ResumeIndex returns the index of the first image in assignment that
// has no rating yet. When every image is completed it returns the last
// index, so a returning participant lands on their final rated image
// rather than an empty page. For an empty assignment it returns 0; the
// caller must length-check before indexing.
func ResumeIndex(assignment []string, completed map[string]bool) int {
	for i, name := range assignment {
		if !completed[name] {
			return i
		}
	}
	if len(assignment) == 0 {
		return 0
	}
	return len(assignment) - 1
}
