// Package grpcserver hosts the gRPC server for tixid. It registers
// tixid.v1.IDService and the standard grpc.health.v1.Health service, and
// installs Prometheus and request id interceptors.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s := grpcserver.New(rt)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
