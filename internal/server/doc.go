// Package server implements the vanlog ledger HTTP API.
//
// Routes:
//
//	POST /trip         log a trip, returns the receipt
//	GET  /trips        list entries newest first (?user=&limit=)
//	GET  /trips/feed   websocket stream of newly logged entries
//	GET  /health       liveness probe
//
// Every error response has the shape {"error": "<message>"}. Request bodies
// are limited to 1 MiB.
//
// # Usage Example
//
//	svc := ledger.NewService(ledger.NewMemoryStore(), 0.50, hub)
//	srv := server.New(server.Config{Port: 8080}, svc, hub)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until SIGINT or SIGTERM, then shuts down gracefully.
package server
