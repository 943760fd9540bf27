// Package steamapp defines the catalog entry shared by the store, the remote
// fetcher and the search engine.
//
// An App pairs a numeric Steam application identifier with an optional
// human-readable name. The name is a pointer because "queried but not found"
// is represented by a synthesized App whose Name is nil, and because the
// remote listing may omit names for some identifiers.
package steamapp
