// Package server exposes the operational HTTP endpoints of the mirror.
//
// The service deliberately has no balance query API; the two endpoints here
// exist for process supervision:
//
//   - GET /healthz: reports whether the event-source subscription is live.
//     Returns 503 while disconnected so load balancers and orchestrators can
//     see an unhealthy mirror.
//   - GET /stats: engine and transport counters plus the number of mirrored
//     accounts. Protected by the configured API key.
//
// # Usage
//
//	srv := server.New(cfg, eng, src, store, log)
//	go srv.Listen()
//	...
//	_ = srv.Shutdown()
package server
