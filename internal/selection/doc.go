// Package selection implements the country picker's selection-index engine.
//
// A Session derives the candidate list from a catalog minus an exclusion set,
// builds an approximate-match SearchIndex and a LetterIndex over the
// candidates' display names, and reconciles typed filter text and letter
// jumps into an ordered result list and a scroll offset.
//
// Sessions are not safe for concurrent use. A built SearchIndex is immutable
// and may be shared between goroutines.
package selection
