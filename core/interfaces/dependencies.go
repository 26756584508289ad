// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the acquisition pipeline

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache backs the snapshot cache store
	Cache Cache

	// HTTPClient performs relay and static snapshot fetches
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}
