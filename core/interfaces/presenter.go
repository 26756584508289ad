// ABOUTME: Presenter is the hand-off point between the acquisition pipeline and rendering
// ABOUTME: Implementations display reading data or the link-out fallback

package interfaces

import "shelf-widgets/core/domain"

// Presenter receives the outcome of a reading-list acquisition.
// Exactly one of the methods is called per foreground load.
type Presenter interface {
	// DisplayReading shows the currently-reading and recently-read shelves.
	DisplayReading(snapshot domain.Snapshot)

	// DisplayFallback shows the static link-out used when every tier failed.
	DisplayFallback()
}
