package grpcserver

import (
	"context"
	"net"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	tixidv1 "github.com/rzbill/tixid/api/tixid/v1"
	"github.com/rzbill/tixid/internal/runtime"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	logpkg "github.com/rzbill/tixid/pkg/log"
)

// RequestIDHeader is the metadata key read for, and echoed with, a request id.
const RequestIDHeader = "x-request-id"

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	svc    *idsvc.Service
	health *health.Server
	grpc   *grpc.Server
	lis    net.Listener
}

// New constructs a gRPC server and registers services. Metrics and request
// id interceptors run before any interceptor passed in opts.
func New(rt *runtime.Runtime, opts ...grpc.ServerOption) *Server {
	m := rt.Metrics()
	base := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(m.GRPC.UnaryServerInterceptor(), requestIDInterceptor),
		grpc.ChainStreamInterceptor(m.GRPC.StreamServerInterceptor()),
	}
	s := &Server{
		rt:     rt,
		svc:    idsvc.New(rt),
		health: health.NewServer(),
		grpc:   grpc.NewServer(append(base, opts...)...),
	}
	tixidv1.RegisterIDServiceServer(s.grpc, &idsSvc{svc: s.svc, logger: rt.Logger().WithComponent("grpc")})
	healthpb.RegisterHealthServer(s.grpc, &healthSvc{Server: s.health, rt: rt})
	s.health.SetServingStatus(tixidv1.IDService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	m.GRPC.InitializeMetrics(s.grpc)
	return s
}

// requestIDInterceptor propagates x-request-id into the context, minting one when absent.
func requestIDInterceptor(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var rid string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDHeader); len(v) > 0 {
			rid = v[0]
		}
	}
	if rid == "" {
		rid = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, rid))
	return handler(logpkg.ContextWithRequestID(ctx, rid), req)
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close marks the server not serving, stops it and closes the listener.
func (s *Server) Close() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
