// Package core contains the business logic of the site widgets.
// It has no knowledge of cache backends, HTTP transports or log sinks.
//
// The core package is organized into several sub-packages:
//
// - domain: Book, Snapshot and Article models
// - relay: URL rewrites that route the feed through public relays
// - fetcher: Single bounded reads with timeout classification
// - feed: Goodreads shelf RSS parsing
// - snapshot: The cached snapshot store and the bundled static snapshot
// - reading: The acquisition orchestrator (cache, static snapshot, live relays)
// - archive: Writing archive filtering, search and ordering
// - featured: Random featured work selection
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, presenter)
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	f := fetcher.New(deps.HTTPClient)
//	o := reading.New(reading.Dependencies{
//	    Store:     snapshot.NewStore(deps.Cache, deps.Logger),
//	    Static:    snapshot.NewStaticSource("data/goodreads-cache.json", f),
//	    Fetcher:   f,
//	    Presenter: myPresenter,
//	    Logger:    deps.Logger,
//	}, reading.Config{UserID: "45140929-santi-ruiz"})
//
//	result := o.Load(ctx)
//	o.Wait() // let a background refresh finish before exiting
package core
