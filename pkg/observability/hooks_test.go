package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	errTest := errors.New("test")

	var d DeliveryHooks = NoopDeliveryHooks{}
	d.OnAttempt(ctx, 1)
	d.OnRetryScheduled(ctx, 1, 800*time.Millisecond, errTest)
	d.OnDelivered(ctx, 2, time.Second)
	d.OnFailed(ctx, 4, errTest)

	var q QueueHooks = NoopQueueHooks{}
	q.OnEnqueue(ctx, "sigpad_queue_v1", 1, 3)
	q.OnDrain(ctx, "sigpad_queue_v1", 3)
	q.OnCorrupt(ctx, "sigpad_queue_v1", errTest)

	var h HTTPHooks = NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "example.com", "/submit")
	h.OnResponse(ctx, "POST", "example.com", "/submit", 200, time.Second)
	h.OnError(ctx, "POST", "example.com", "/submit", errTest)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Delivery().(NoopDeliveryHooks); !ok {
		t.Error("default Delivery() should be NoopDeliveryHooks")
	}
	if _, ok := Queue().(NoopQueueHooks); !ok {
		t.Error("default Queue() should be NoopQueueHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("default HTTP() should be NoopHTTPHooks")
	}

	customDelivery := &testDeliveryHooks{}
	SetDeliveryHooks(customDelivery)
	if Delivery() != customDelivery {
		t.Error("SetDeliveryHooks should set custom hooks")
	}

	customQueue := &testQueueHooks{}
	SetQueueHooks(customQueue)
	if Queue() != customQueue {
		t.Error("SetQueueHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Delivery().(NoopDeliveryHooks); !ok {
		t.Error("Reset() should restore NoopDeliveryHooks")
	}
	if _, ok := Queue().(NoopQueueHooks); !ok {
		t.Error("Reset() should restore NoopQueueHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testDeliveryHooks{}
	SetDeliveryHooks(custom)
	SetDeliveryHooks(nil)
	if Delivery() != custom {
		t.Error("SetDeliveryHooks(nil) should be ignored")
	}

	SetQueueHooks(nil)
	if _, ok := Queue().(NoopQueueHooks); !ok {
		t.Error("SetQueueHooks(nil) should be ignored")
	}
}

type testDeliveryHooks struct{ NoopDeliveryHooks }
type testQueueHooks struct{ NoopQueueHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
