// Package search implements the catalog lookup strategies.
//
// Every strategy loads the full catalog once per call; there is no
// incremental index.
//
//   - ExactByName: case-folded equality, first match in store order wins
//   - ByName: every whitespace-separated query token must occur in the name
//     (case-folded substring), results in store order
//   - ByNameFuzzy: weighted-ratio similarity, matches at or above the cutoff,
//     best score first, ties in store order
//
// ByName and ByNameFuzzy short-circuit numeric queries: when the query parses
// as an app id, that id's entry is resolved (synthesized if absent), removed
// from the matches and placed first.
package search
