// Package pkg provides the core libraries for sigpad signature capture and
// delivery.
//
// # Overview
//
// sigpad captures handwritten signatures from pointer input, renders them
// with pressure-sensitive smoothing, exports them as bounded-width PNG
// images and delivers them with the surrounding form fields to a remote
// endpoint. Submissions that cannot be delivered are kept in a durable local
// queue and sent later.
//
// # Architecture
//
// The typical data flow:
//
//	pointer events
//	     ↓
//	[ink] package (capture strokes on a pad)
//	     ↓
//	[render] package (live surface, quadratic smoothing)
//	     ↓
//	[export] package (scaled PNG + data URI)
//	     ↓
//	[delivery] package (build, send with retries)
//	     ↓                     ↘
//	endpoint              [queue] package (offline storage)
//
// # Main Packages
//
// [ink] - Pad geometry: samples, strokes, the capture state machine and the
// JSON-lines pointer event format.
//
// [render] - Surfaces sized by logical size and pixel ratio, the shared
// stroke painter and the Canvas binding a pad to its surface.
//
// [export] - Exporter producing PNG artifacts no wider than a maximum width,
// plus data URI encoding and parsing.
//
// [queue] - Durable FIFO of submission entries over a pluggable Backend:
// memory, file, SQLite, Redis and MongoDB.
//
// [delivery] - Submission builder, multipart HTTP transport, connectivity
// probes and the Pipeline implementing timeout, retry and offline fallback.
//
// [receiver] - A development endpoint storing submissions on disk.
//
// ## Support
//
// [config] - TOML configuration with XDG paths.
//
// [errors] - Coded errors and the retryable marker.
//
// [observability] - Hook registry for delivery, queue and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Quick Start
//
//	q, _ := queue.New(queue.NewMemory())
//	t, _ := delivery.NewHTTPTransport("https://forms.example.com/submit")
//	p, _ := delivery.NewPipeline(t, q)
//
//	sub, _ := delivery.NewSubmission(ctx, delivery.StaticFields{"name": {"Ada"}},
//	    delivery.SignatureFromCanvas("participantSignature", true, canvas))
//	res, _ := p.Submit(ctx, sub)
//	fmt.Println(res.Message())
//
// # Testing
//
//	go test ./pkg/...
//	SIGPAD_REDIS_ADDR=localhost:6379 go test ./pkg/queue/...
//
// [ink]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/ink
// [render]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/render
// [export]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/export
// [queue]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/queue
// [delivery]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/delivery
// [receiver]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/receiver
// [config]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sigpad/pkg/buildinfo
package pkg
