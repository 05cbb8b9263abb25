package capture

import "context"

// Driver is the browser-automation collaborator used for social-media
// captures. The implementation (headless browser, page interaction steps)
// lives outside this module; a nil driver makes social captures record a
// failure attempt instead of crashing the batch.
type Driver interface {
	// Navigate opens the page, waits for it to settle, and screenshots
	// the viewport. finalURL is the address after any redirects — a
	// redirect to a login wall is detected from it.
	Navigate(ctx context.Context, url string) (finalURL string, screenshot []byte, err error)
}
