package calendarlink

import (
	"context"
	"time"
)

// NativeOpener is the platform capability for navigating to a URL. Opening a
// custom scheme is best-effort: the call returning nil only means the
// navigation was attempted, not that an app handled it.
type NativeOpener interface {
	Open(uri string) error
}

// DefaultFallbackTimeout is how long the native app gets to take over before
// the web URL is opened instead.
const DefaultFallbackTimeout = 700 * time.Millisecond

// OpenWithAppFallback attempts the app URL first and races a timer against
// the hidden signal (the platform reporting that focus left the page, i.e.
// the native app actually opened). If the signal wins the web fallback is
// skipped; if the timer wins the app is assumed absent and the web URL is
// opened. Each call owns its timer, nothing fires after return.
//
// The returned bool reports whether the web fallback was used.
func OpenWithAppFallback(ctx context.Context, opener NativeOpener, appURL, webURL string, hidden <-chan struct{}) (bool, error) {
	return openWithAppFallback(ctx, opener, appURL, webURL, hidden, DefaultFallbackTimeout)
}

func openWithAppFallback(ctx context.Context, opener NativeOpener, appURL, webURL string, hidden <-chan struct{}, timeout time.Duration) (bool, error) {
	if err := opener.Open(appURL); err != nil {
		// Scheme refused outright: no point waiting for a takeover.
		return true, opener.Open(webURL)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-hidden:
		// The app took over; losing timer is stopped by the deferred Stop.
		return false, nil
	case <-timer.C:
		return true, opener.Open(webURL)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
