// Package api provides the HTTP handlers that expose the scheduler.
//
// The API is stateless: every request carries the progress record it operates
// on and receives the updated record in the response. Storage belongs to the
// caller.
package api
