// Package catalog owns the lifecycle of the Steam app catalog.
//
// A Catalog ties the durable store, the remote fetcher and the search engine
// together behind the surface external code uses:
//
//	c := catalog.New(dir, fetcher.New(apiKey))
//	go c.Initialize(ctx, false)
//	if err := c.WaitForReady(ctx); err != nil { ... } // ErrCatalogUnusable
//	app, err := c.GetByAppID(ctx, 70)
//
// # Lifecycle
//
// Initialize opens (or re-checks) the store, applies the staleness policy and,
// when a refresh is due, walks the remote listing and commits it in one batch.
// Readiness is decoupled from refreshing: a store that already holds rows is
// marked ready before any network I/O, so readers never wait on a background
// refresh. An empty store becomes ready only after the first successful
// refresh, and becomes disposed (unusable) if that refresh fails.
//
// # Concurrency
//
// Initialize runs are serialized. A forced Initialize cancels the run in
// flight and starts once it has unwound; a non-forced Initialize while a run
// is in flight returns immediately. A superseded run never touches the
// catalog state or readiness gate.
package catalog
