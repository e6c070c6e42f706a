// Package tixidv1 holds the gRPC bindings for tixid.v1.IDService. The
// service only uses well-known protobuf types, so the bindings are written
// against emptypb and wrapperspb directly.
package tixidv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	IDService_NextID_FullMethodName       = "/tixid.v1.IDService/NextID"
	IDService_TicketNumber_FullMethodName = "/tixid.v1.IDService/TicketNumber"
	IDService_OrderNumber_FullMethodName  = "/tixid.v1.IDService/OrderNumber"
)

// RetryAfterTrailer carries the suggested wait, in milliseconds, on UNAVAILABLE.
const RetryAfterTrailer = "retry-after-ms"

// IDServiceClient is the client API for IDService.
type IDServiceClient interface {
	NextID(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	TicketNumber(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	OrderNumber(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type iDServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewIDServiceClient returns a client bound to cc.
func NewIDServiceClient(cc grpc.ClientConnInterface) IDServiceClient {
	return &iDServiceClient{cc}
}

func (c *iDServiceClient) NextID(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, IDService_NextID_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *iDServiceClient) TicketNumber(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, IDService_TicketNumber_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *iDServiceClient) OrderNumber(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, IDService_OrderNumber_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// IDServiceServer is the server API for IDService.
type IDServiceServer interface {
	NextID(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	TicketNumber(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	OrderNumber(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
}

// UnimplementedIDServiceServer can be embedded for forward compatibility.
type UnimplementedIDServiceServer struct{}

func (UnimplementedIDServiceServer) NextID(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NextID not implemented")
}
func (UnimplementedIDServiceServer) TicketNumber(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method TicketNumber not implemented")
}
func (UnimplementedIDServiceServer) OrderNumber(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method OrderNumber not implemented")
}

// RegisterIDServiceServer registers srv on s.
func RegisterIDServiceServer(s grpc.ServiceRegistrar, srv IDServiceServer) {
	s.RegisterService(&IDService_ServiceDesc, srv)
}

func _IDService_NextID_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).NextID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IDService_NextID_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IDServiceServer).NextID(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _IDService_TicketNumber_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).TicketNumber(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IDService_TicketNumber_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IDServiceServer).TicketNumber(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _IDService_OrderNumber_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IDServiceServer).OrderNumber(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IDService_OrderNumber_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IDServiceServer).OrderNumber(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// IDService_ServiceDesc is the grpc.ServiceDesc for IDService.
var IDService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tixid.v1.IDService",
	HandlerType: (*IDServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NextID", Handler: _IDService_NextID_Handler},
		{MethodName: "TicketNumber", Handler: _IDService_TicketNumber_Handler},
		{MethodName: "OrderNumber", Handler: _IDService_OrderNumber_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tixid/v1/ids.proto",
}
