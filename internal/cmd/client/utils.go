package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rzbill/tixid/pkg/snowflake"
)

// grpcAddrFromEnv returns the gRPC server address from TIXID_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("TIXID_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// dialGRPCContext dials the tixid gRPC endpoint with insecure transport for local/dev.
func dialGRPCContext(ctx context.Context) (*grpc.ClientConn, error) {
	return grpc.DialContext(ctx, grpcAddrFromEnv(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// describe renders an id the same way the HTTP API does. IDs are strings so
// they survive JSON consumers that parse numbers as float64.
func describe(kind snowflake.Kind, id snowflake.ID) map[string]any {
	p := snowflake.Decompose(id)
	return map[string]any{
		"id":           id.String(),
		"kind":         string(kind),
		"number":       snowflake.Format(kind, id),
		"timestampMs":  p.TimestampMs,
		"time":         p.Time().Format(time.RFC3339Nano),
		"datacenterId": p.DatacenterID,
		"workerId":     p.WorkerID,
		"sequence":     p.Sequence,
	}
}

// printJSON writes v as indented JSON through protojson.
func printJSON(w io.Writer, v map[string]any) error {
	s, err := structpb.NewStruct(v)
	if err != nil {
		return err
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
