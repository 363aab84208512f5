// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about delivery attempts, queue operations, and HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the core packages free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDeliveryHooks(&myDeliveryHooks{})
//	    observability.SetQueueHooks(&myQueueHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Delivery().OnAttempt(ctx, attempt)
//	// ... send ...
//	observability.Delivery().OnDelivered(ctx, attempts, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Delivery Hooks
// =============================================================================

// DeliveryHooks receives events from the delivery state machine.
type DeliveryHooks interface {
	// OnAttempt records the start of send attempt n (1-based).
	OnAttempt(ctx context.Context, attempt int)

	// OnRetryScheduled records a failed attempt that will be retried after delay.
	OnRetryScheduled(ctx context.Context, attempt int, delay time.Duration, err error)

	// OnDelivered records a successful delivery after the given number of attempts.
	OnDelivered(ctx context.Context, attempts int, duration time.Duration)

	// OnFailed records a delivery that ended in the Failed state.
	OnFailed(ctx context.Context, attempts int, err error)
}

// =============================================================================
// Queue Hooks
// =============================================================================

// QueueHooks receives events from durable queue operations.
type QueueHooks interface {
	// OnEnqueue records entries appended to the queue; size is the new length.
	OnEnqueue(ctx context.Context, key string, added, size int)

	// OnDrain records a drain that removed count entries.
	OnDrain(ctx context.Context, key string, count int)

	// OnCorrupt records unreadable queue storage that was treated as empty.
	OnCorrupt(ctx context.Context, key string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDeliveryHooks is a no-op implementation of DeliveryHooks.
type NoopDeliveryHooks struct{}

func (NoopDeliveryHooks) OnAttempt(context.Context, int)                              {}
func (NoopDeliveryHooks) OnRetryScheduled(context.Context, int, time.Duration, error) {}
func (NoopDeliveryHooks) OnDelivered(context.Context, int, time.Duration)             {}
func (NoopDeliveryHooks) OnFailed(context.Context, int, error)                        {}

// NoopQueueHooks is a no-op implementation of QueueHooks.
type NoopQueueHooks struct{}

func (NoopQueueHooks) OnEnqueue(context.Context, string, int, int) {}
func (NoopQueueHooks) OnDrain(context.Context, string, int)        {}
func (NoopQueueHooks) OnCorrupt(context.Context, string, error)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	deliveryHooks DeliveryHooks = NoopDeliveryHooks{}
	queueHooks    QueueHooks    = NoopQueueHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDeliveryHooks registers custom delivery hooks.
// This should be called once at application startup before any submission.
func SetDeliveryHooks(h DeliveryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deliveryHooks = h
	}
}

// SetQueueHooks registers custom queue hooks.
// This should be called once at application startup before any queue operations.
func SetQueueHooks(h QueueHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queueHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Delivery returns the registered delivery hooks.
func Delivery() DeliveryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deliveryHooks
}

// Queue returns the registered queue hooks.
func Queue() QueueHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queueHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	deliveryHooks = NoopDeliveryHooks{}
	queueHooks = NoopQueueHooks{}
	httpHooks = NoopHTTPHooks{}
}
