// Package api implements the exporter's HTTP surface.
//
// Endpoints:
//   - GET <metrics_path> (default /metrics): Prometheus text exposition of
//     the registry the poll loop writes into
//   - GET /health: 200 once the inventory is built, 503 before; reports the
//     age of the last successful refresh of each volatile document and
//     whether the last fetch from the controller succeeded
//   - GET /status: the latest cycle status as JSON, with controller
//     reachability and, once attached, the MQTT connection state
//
// Every request passes through the request ID, logging and recovery
// middleware.
//
// The server follows the same lifecycle pattern as other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
