// Package server provides the HTTP server of the signatories service.
//
// It uses gorilla/mux for routing and wraps the router in an access log.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, signatoriesStore, healthStore, server.WithLogger(logger))
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - /certificates/{certificate_id}/signatories - Signatories REST API
//   - /editor/certificates/{certificate_id}/signatories - Signatory editor pages
//   - /status - Database connectivity
//   - /metrics - Prometheus metrics
package server
