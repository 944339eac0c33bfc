// Package httputil provides the HTTP plumbing used to fetch the rendering
// engine bundle: a client with a sane timeout, status classification, and
// retry with exponential backoff.
//
// Transient failures (connection errors, 5xx responses) are wrapped in
// [RetryableError]; [Retry] only retries those and returns every other
// error immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err := httputil.Get(ctx, client, url)
//	    ...
//	})
package httputil
