package grpcserver

import (
	"context"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rzbill/tixid/internal/runtime"
)

// healthSvc answers the overall ("") service from a live runtime check and
// defers named services and Watch to the stock health server.
type healthSvc struct {
	*health.Server
	rt *runtime.Runtime
}

func (h *healthSvc) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if req.GetService() != "" {
		return h.Server.Check(ctx, req)
	}
	if err := h.rt.CheckHealth(ctx); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
