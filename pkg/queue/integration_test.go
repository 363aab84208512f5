package queue

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisQueue(t *testing.T) {
	addr := os.Getenv("SIGPAD_REDIS_ADDR")
	if addr == "" {
		t.Skip("SIGPAD_REDIS_ADDR not set")
	}
	backend := NewRedis(addr, "", 0)
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := backend.Ping(ctx); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	exerciseQueue(t, backend)
}

func TestMongoQueue(t *testing.T) {
	uri := os.Getenv("SIGPAD_MONGO_URI")
	if uri == "" {
		t.Skip("SIGPAD_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := OpenMongo(ctx, uri, "sigpad_test")
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	defer backend.Close()
	exerciseQueue(t, backend)
}
