// Package delivery sends signed submissions to a remote endpoint.
//
// # Overview
//
// A [Pipeline] ties together three collaborators:
//
//   - [Transport]: performs one send of a [Payload] (see [HTTPTransport])
//   - [Connectivity]: a coarse online/offline signal
//   - [queue.Queue]: durable storage for submissions that were not delivered
//
// # State machine
//
// Each delivery runs Pending -> Sending -> {Delivered | Failed}. Every send
// is bounded by [Policy.Timeout]. A retryable failure (timeout, network
// error, 5xx, 408, 429) is followed by a backoff sleep of BaseDelay*2^i and
// another send, up to MaxRetries retries. Other failures go straight to
// Failed.
//
// # Outcomes
//
// [Pipeline.Submit] never loses a signature. Offline submissions are queued
// without touching the network; failed deliveries are queued after the last
// attempt. Both report [Result.SavedOffline]. Only validation and
// persistence failures are returned as errors.
//
// [Pipeline.RetryPending] drains the queue, delivers each entry with its own
// retry cycle, and re-queues the entries that still fail:
//
//	report, err := p.RetryPending(ctx)
//	fmt.Println(report) // "1 sent, 1 remaining"
package delivery
