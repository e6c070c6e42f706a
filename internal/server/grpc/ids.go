package grpcserver

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	tixidv1 "github.com/rzbill/tixid/api/tixid/v1"
	"github.com/rzbill/tixid/internal/ledger"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

type idsSvc struct {
	tixidv1.UnimplementedIDServiceServer
	svc    *idsvc.Service
	logger logpkg.Logger
}

func (s *idsSvc) NextID(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	iss, err := s.svc.NextID(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return wrapperspb.UInt64(uint64(iss.ID)), nil
}

func (s *idsSvc) TicketNumber(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	iss, err := s.svc.TicketNumber(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return wrapperspb.String(iss.Number), nil
}

func (s *idsSvc) OrderNumber(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	iss, err := s.svc.OrderNumber(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return wrapperspb.String(iss.Number), nil
}

// toStatus maps service errors to gRPC status codes.
func (s *idsSvc) toStatus(ctx context.Context, err error) error {
	var rerr *snowflake.ClockRegressionError
	switch {
	case errors.As(err, &rerr):
		_ = grpc.SetTrailer(ctx, metadata.Pairs(tixidv1.RetryAfterTrailer, strconv.FormatInt(rerr.Regression(), 10)))
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, snowflake.ErrClockOutOfRange):
		s.logger.WithContext(ctx).Error("clock outside id range", logpkg.Err(err))
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, ledger.ErrDuplicate):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.logger.WithContext(ctx).Error("ids request failed", logpkg.Err(err))
		return status.Error(codes.Internal, err.Error())
	}
}
