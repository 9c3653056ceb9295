package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/metrics"
	"github.com/doodlesbykumbi/signatories/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	if err := metrics.Register(srv.Registry); err != nil {
		srv.Logger.Warn("failed to register metrics", zap.Error(err))
	}
	_ = srv.Registry.Register(collectors.NewGoCollector())

	RegisterStatusEndpoints(srv)
	RegisterSignatoriesEndpoints(srv)
	RegisterEditorEndpoints(srv)
}
