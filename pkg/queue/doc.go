// Package queue provides the durable submission queue.
//
// A [Queue] holds an ordered list of [Entry] values serialized as one JSON
// array under a single storage key. Storage is injected as a [Backend]; the
// package ships in-memory, file, SQLite, Redis and MongoDB backends.
//
// # Semantics
//
// Entries are appended by [Queue.Enqueue] and removed only by
// [Queue.DrainAll], which returns everything and clears the key. Storage that
// is missing, empty, or not valid JSON reads as an empty queue: the problem is
// logged and reported through [observability.QueueHooks] but never returned.
// Backend I/O failures are returned as PERSISTENCE_ERROR.
//
// # Usage
//
//	backend, err := queue.NewFile(dir)
//	q, err := queue.New(backend)
//	err = q.Enqueue(ctx, queue.Entry{"name": {"Ada"}})
//	entries, err := q.DrainAll(ctx)
package queue
