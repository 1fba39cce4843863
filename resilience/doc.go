// Package resilience retries operations against remote storage with
// exponential backoff.
//
//	err := resilience.Do(ctx, resilience.DefaultPolicy(), func(attempt int) error {
//	    return upload(ctx)
//	})
//
// Errors wrapped with Permanent stop the retries immediately.
package resilience
