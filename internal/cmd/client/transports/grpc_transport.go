// Package transports provides the transport implementations used by the CLI.
package transports

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	tixidv1 "github.com/rzbill/tixid/api/tixid/v1"
)

// GrpcTransport implements IDTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withClient(ctx context.Context, fn func(cli tixidv1.IDServiceClient) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(tixidv1.NewIDServiceClient(conn))
}

// NextID allocates a bare ID.
func (t *GrpcTransport) NextID(ctx context.Context) (uint64, error) {
	var out uint64
	err := t.withClient(ctx, func(cli tixidv1.IDServiceClient) error {
		v, err := cli.NextID(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		out = v.GetValue()
		return nil
	})
	return out, err
}

// TicketNumber allocates a ticket number.
func (t *GrpcTransport) TicketNumber(ctx context.Context) (string, error) {
	var out string
	err := t.withClient(ctx, func(cli tixidv1.IDServiceClient) error {
		v, err := cli.TicketNumber(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		out = v.GetValue()
		return nil
	})
	return out, err
}

// OrderNumber allocates an order number.
func (t *GrpcTransport) OrderNumber(ctx context.Context) (string, error) {
	var out string
	err := t.withClient(ctx, func(cli tixidv1.IDServiceClient) error {
		v, err := cli.OrderNumber(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		out = v.GetValue()
		return nil
	})
	return out, err
}
